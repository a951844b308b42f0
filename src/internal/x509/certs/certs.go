// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/crypto/pkcs7"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/helper/gc"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrNoCertificates indicates that the input decoded cleanly but carried no certificate.
	ErrNoCertificates = errors.New("x509certs: no certificates found")

	// ErrMultipleCertificates indicates that input expected to hold exactly one certificate held more.
	ErrMultipleCertificates = errors.New("x509certs: expected exactly one certificate")
)

// Certificate provides methods to decode and encode [X.509] certificates.
// It maintains internal configuration such as the certificate block type.
//
// Certificate holds no mutable state after [New] and is safe for concurrent use.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Certificate struct {
	certBlockType string
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: "CERTIFICATE",
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// decodePEMBlocks walks every PEM block in data and returns the DER payloads.
// A block of any type other than CERTIFICATE aborts the walk.
func (c *Certificate) decodePEMBlocks(data []byte) ([][]byte, error) {
	var ders [][]byte
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != c.certBlockType {
			return nil, ErrInvalidBlockType
		}
		ders = append(ders, block.Bytes)
		data = rest
	}
	if len(ders) == 0 {
		return nil, ErrInvalidPEMBlock
	}
	return ders, nil
}

// parseDER parses one DER payload which may hold a single certificate,
// several concatenated certificates, or a PKCS#7 bundle.
func parseDER(der []byte) ([]*x509.Certificate, error) {
	certs, err := x509.ParseCertificates(der)
	if err == nil {
		if len(certs) == 0 {
			return nil, ErrNoCertificates
		}
		return certs, nil
	}

	// Attempt to parse as PKCS7 using Cloudflare's library
	p, p7err := pkcs7.ParsePKCS7(der)
	if p7err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseCertificate, err)
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificates
	}

	return p.Content.SignedData.Certificates, nil
}

// DecodeMultiple decodes one or more certificates from data.
//
// PEM input may contain any number of CERTIFICATE blocks; DER input may be a
// single certificate, a concatenation of certificates, or a PKCS#7 bundle.
// Returned errors wrap one of the package sentinels.
func (c *Certificate) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if !c.IsPEM(data) {
		return parseDER(data)
	}

	ders, err := c.decodePEMBlocks(data)
	if err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	for _, der := range ders {
		parsed, err := parseDER(der)
		if err != nil {
			return nil, err
		}
		certs = append(certs, parsed...)
	}

	return certs, nil
}

// Decode decodes exactly one certificate from data. Input carrying more than
// one, such as a PEM bundle or PKCS#7 set, fails with [ErrMultipleCertificates].
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	certs, err := c.DecodeMultiple(data)
	if err != nil {
		return nil, err
	}
	if len(certs) > 1 {
		return nil, fmt.Errorf("%w: found %d", ErrMultipleCertificates, len(certs))
	}
	return certs[0], nil
}

// ReadFile reads and decodes every certificate held in the named file.
func (c *Certificate) ReadFile(path string) ([]*x509.Certificate, error) {
	data, err := gc.ReadFile(path)
	if err != nil {
		return nil, err
	}

	certs, err := c.DecodeMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return certs, nil
}

// EncodePEM encodes a certificate to PEM format.
func (c *Certificate) EncodePEM(cert *x509.Certificate) []byte {
	block := pem.Block{
		Type:  c.certBlockType,
		Bytes: cert.Raw,
	}
	return pem.EncodeToMemory(&block)
}

// EncodeDER encodes a certificate to DER format.
func (c *Certificate) EncodeDER(cert *x509.Certificate) []byte { return cert.Raw }

// EncodeMultiplePEM encodes multiple certificates to PEM format.
func (c *Certificate) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, c.EncodePEM(cert)...)
	}

	return data
}

// Fingerprint returns the lowercase hex SHA-256 digest of the certificate's DER encoding.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	return hex.EncodeToString(sum[:])
}
