// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"encoding/asn1"
	"errors"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformedDER indicates the outer Certificate structure could not be walked.
var ErrMalformedDER = errors.New("x509certs: malformed certificate DER")

// SignatureAlgorithmOID returns the object identifier of the outer
// signatureAlgorithm field of a DER encoded certificate:
//
//	Certificate ::= SEQUENCE {
//	    tbsCertificate       TBSCertificate,
//	    signatureAlgorithm   AlgorithmIdentifier,
//	    signatureValue       BIT STRING }
//
// It is used to name algorithms that crypto/x509 parses as
// [x509.UnknownSignatureAlgorithm].
func SignatureAlgorithmOID(der []byte) (asn1.ObjectIdentifier, error) {
	input := cryptobyte.String(der)

	var cert cryptobyte.String
	if !input.ReadASN1(&cert, cryptobyte_asn1.SEQUENCE) {
		return nil, ErrMalformedDER
	}

	var algo cryptobyte.String
	if !cert.SkipASN1(cryptobyte_asn1.SEQUENCE) ||
		!cert.ReadASN1(&algo, cryptobyte_asn1.SEQUENCE) {
		return nil, ErrMalformedDER
	}

	var oid asn1.ObjectIdentifier
	if !algo.ReadASN1ObjectIdentifier(&oid) {
		return nil, ErrMalformedDER
	}

	return oid, nil
}
