// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"crypto/x509"
	"encoding/asn1"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKeyUsage indicates a usage policy name that is not recognised.
var ErrUnknownKeyUsage = errors.New("x509verify: unknown key usage")

var (
	oidExtensionKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidExtensionExtendedKeyUsage = asn1.ObjectIdentifier{2, 5, 29, 37}
)

// KeyUsage is the purpose a certificate is being verified for.
type KeyUsage struct {
	// Name identifies the policy, e.g. server-auth.
	Name string
	// Role labels the subject in human output, e.g. "Server".
	Role string
	// ExtKeyUsage must be listed when the EKU extension is present.
	// ExtKeyUsageAny disables the EKU check.
	ExtKeyUsage x509.ExtKeyUsage
	// KeyUsage bits of which at least one must be set when the Key Usage
	// extension is present. Zero disables the check.
	KeyUsage x509.KeyUsage
}

var (
	// ServerAuth is TLS server authentication.
	ServerAuth = KeyUsage{
		Name:        "server-auth",
		Role:        "Server",
		ExtKeyUsage: x509.ExtKeyUsageServerAuth,
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}

	// ClientAuth is TLS client authentication.
	ClientAuth = KeyUsage{
		Name:        "client-auth",
		Role:        "Client",
		ExtKeyUsage: x509.ExtKeyUsageClientAuth,
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyAgreement,
	}
)

// ParseKeyUsage resolves a policy name such as "server-auth".
func ParseKeyUsage(name string) (KeyUsage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "server-auth", "serverauth", "server":
		return ServerAuth, nil
	case "client-auth", "clientauth", "client":
		return ClientAuth, nil
	default:
		return KeyUsage{}, fmt.Errorf("%w: %q", ErrUnknownKeyUsage, name)
	}
}

// String returns the policy name.
func (u KeyUsage) String() string { return u.Name }

func hasExtension(cert *x509.Certificate, oid asn1.ObjectIdentifier) bool {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(oid) {
			return true
		}
	}
	return false
}

// check applies the end-entity and usage rules. It returns Accepted when the
// certificate may be used for u.
func (u KeyUsage) check(cert *x509.Certificate) (Reason, string) {
	if cert.BasicConstraintsValid && cert.IsCA {
		return CAUsedAsEndEntity, "basic constraints mark the certificate as a CA"
	}

	if u.KeyUsage != 0 && hasExtension(cert, oidExtensionKeyUsage) && cert.KeyUsage&u.KeyUsage == 0 {
		return UsageMismatch, fmt.Sprintf("key usage %#x permits none of %#x required for %s", int(cert.KeyUsage), int(u.KeyUsage), u.Name)
	}

	if u.ExtKeyUsage == x509.ExtKeyUsageAny || !hasExtension(cert, oidExtensionExtendedKeyUsage) {
		return Accepted, ""
	}
	for _, eku := range cert.ExtKeyUsage {
		if eku == u.ExtKeyUsage {
			return Accepted, ""
		}
	}
	return UsageMismatch, fmt.Sprintf("extended key usage does not include %s", u.Name)
}
