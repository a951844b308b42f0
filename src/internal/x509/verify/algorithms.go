// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm indicates an allowlist name that is not in the registry.
var ErrUnknownAlgorithm = errors.New("x509verify: unknown signature algorithm")

// SignatureAlgorithm is one allowlist entry: a signature scheme and hash,
// bound to the issuer key type and key parameters it may be used with.
type SignatureAlgorithm struct {
	// Name is the registry name, e.g. ECDSA_P256_SHA256.
	Name string
	// Signature is the certificate signatureAlgorithm this entry admits.
	Signature x509.SignatureAlgorithm
	// KeyType is the issuer public key type.
	KeyType x509.PublicKeyAlgorithm
	// Hash is the message digest; zero for pure Ed25519.
	Hash crypto.Hash
	// Curve restricts ECDSA issuer keys.
	Curve elliptic.Curve
	// MinRSABits and MaxRSABits bound RSA issuer moduli.
	MinRSABits int
	MaxRSABits int
	// PSS selects RSASSA-PSS instead of PKCS #1 v1.5.
	PSS bool
}

// String returns the registry name.
func (a SignatureAlgorithm) String() string { return a.Name }

// AcceptsKey reports whether pub has the type and parameters this entry requires.
func (a SignatureAlgorithm) AcceptsKey(pub crypto.PublicKey) bool {
	switch a.KeyType {
	case x509.ECDSA:
		k, ok := pub.(*ecdsa.PublicKey)
		return ok && a.Curve != nil && k.Curve == a.Curve
	case x509.RSA:
		k, ok := pub.(*rsa.PublicKey)
		if !ok {
			return false
		}
		bits := k.N.BitLen()
		return bits >= a.MinRSABits && bits <= a.MaxRSABits
	case x509.Ed25519:
		_, ok := pub.(ed25519.PublicKey)
		return ok
	default:
		return false
	}
}

// issuerKey describes the issuer keys the entry accepts, e.g. "RSA 2048-8192".
func (a SignatureAlgorithm) issuerKey() string {
	switch {
	case a.Curve != nil:
		return "ECDSA " + a.Curve.Params().Name
	case a.MaxRSABits > 0:
		return fmt.Sprintf("RSA %d-%d", a.MinRSABits, a.MaxRSABits)
	default:
		return a.KeyType.String()
	}
}

func ecdsaAlg(name string, curve elliptic.Curve, sig x509.SignatureAlgorithm, h crypto.Hash) SignatureAlgorithm {
	return SignatureAlgorithm{Name: name, Signature: sig, KeyType: x509.ECDSA, Hash: h, Curve: curve}
}

func rsaAlg(name string, minBits int, sig x509.SignatureAlgorithm, h crypto.Hash, pss bool) SignatureAlgorithm {
	return SignatureAlgorithm{Name: name, Signature: sig, KeyType: x509.RSA, Hash: h, MinRSABits: minBits, MaxRSABits: 8192, PSS: pss}
}

// Registered algorithms. RSA-PSS entries expect a legacy rsaEncryption issuer
// key, not an id-RSASSA-PSS one.
var (
	ECDSAP256SHA256 = ecdsaAlg("ECDSA_P256_SHA256", elliptic.P256(), x509.ECDSAWithSHA256, crypto.SHA256)
	ECDSAP256SHA384 = ecdsaAlg("ECDSA_P256_SHA384", elliptic.P256(), x509.ECDSAWithSHA384, crypto.SHA384)
	ECDSAP384SHA256 = ecdsaAlg("ECDSA_P384_SHA256", elliptic.P384(), x509.ECDSAWithSHA256, crypto.SHA256)
	ECDSAP384SHA384 = ecdsaAlg("ECDSA_P384_SHA384", elliptic.P384(), x509.ECDSAWithSHA384, crypto.SHA384)
	ECDSAP521SHA256 = ecdsaAlg("ECDSA_P521_SHA256", elliptic.P521(), x509.ECDSAWithSHA256, crypto.SHA256)
	ECDSAP521SHA384 = ecdsaAlg("ECDSA_P521_SHA384", elliptic.P521(), x509.ECDSAWithSHA384, crypto.SHA384)
	ECDSAP521SHA512 = ecdsaAlg("ECDSA_P521_SHA512", elliptic.P521(), x509.ECDSAWithSHA512, crypto.SHA512)

	ED25519 = SignatureAlgorithm{Name: "ED25519", Signature: x509.PureEd25519, KeyType: x509.Ed25519}

	RSAPSS2048SHA256LegacyKey = rsaAlg("RSA_PSS_2048_8192_SHA256_LEGACY_KEY", 2048, x509.SHA256WithRSAPSS, crypto.SHA256, true)
	RSAPSS2048SHA384LegacyKey = rsaAlg("RSA_PSS_2048_8192_SHA384_LEGACY_KEY", 2048, x509.SHA384WithRSAPSS, crypto.SHA384, true)
	RSAPSS2048SHA512LegacyKey = rsaAlg("RSA_PSS_2048_8192_SHA512_LEGACY_KEY", 2048, x509.SHA512WithRSAPSS, crypto.SHA512, true)

	RSAPKCS12048SHA256 = rsaAlg("RSA_PKCS1_2048_8192_SHA256", 2048, x509.SHA256WithRSA, crypto.SHA256, false)
	RSAPKCS12048SHA384 = rsaAlg("RSA_PKCS1_2048_8192_SHA384", 2048, x509.SHA384WithRSA, crypto.SHA384, false)
	RSAPKCS12048SHA512 = rsaAlg("RSA_PKCS1_2048_8192_SHA512", 2048, x509.SHA512WithRSA, crypto.SHA512, false)
	RSAPKCS13072SHA384 = rsaAlg("RSA_PKCS1_3072_8192_SHA384", 3072, x509.SHA384WithRSA, crypto.SHA384, false)
)

var registry = []SignatureAlgorithm{
	ECDSAP256SHA256, ECDSAP256SHA384,
	ECDSAP384SHA256, ECDSAP384SHA384,
	ECDSAP521SHA256, ECDSAP521SHA384, ECDSAP521SHA512,
	ED25519,
	RSAPSS2048SHA256LegacyKey, RSAPSS2048SHA384LegacyKey, RSAPSS2048SHA512LegacyKey,
	RSAPKCS12048SHA256, RSAPKCS12048SHA384, RSAPKCS12048SHA512,
	RSAPKCS13072SHA384,
}

// SupportedAlgorithms returns every registered algorithm.
func SupportedAlgorithms() Allowlist {
	return append(Allowlist(nil), registry...)
}

// LookupAlgorithm finds a registered algorithm by name, ignoring case.
func LookupAlgorithm(name string) (SignatureAlgorithm, bool) {
	name = strings.TrimSpace(name)
	for _, alg := range registry {
		if strings.EqualFold(alg.Name, name) {
			return alg, true
		}
	}
	return SignatureAlgorithm{}, false
}

// Allowlist is the set of signature algorithms a verifier accepts. Order is
// advisory; any matching entry suffices.
type Allowlist []SignatureAlgorithm

// DefaultAllowlist returns the general-purpose web PKI allowlist.
func DefaultAllowlist() Allowlist {
	return Allowlist{
		ECDSAP256SHA256,
		ECDSAP256SHA384,
		ECDSAP384SHA256,
		ECDSAP384SHA384,
		ECDSAP521SHA512,
		ED25519,
		RSAPSS2048SHA256LegacyKey,
		RSAPSS2048SHA384LegacyKey,
		RSAPSS2048SHA512LegacyKey,
		RSAPKCS12048SHA256,
		RSAPKCS12048SHA384,
		RSAPKCS12048SHA512,
		RSAPKCS13072SHA384,
	}
}

// ParseAllowlist resolves registry names into an Allowlist, dropping duplicates.
func ParseAllowlist(names []string) (Allowlist, error) {
	var out Allowlist
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		alg, ok := LookupAlgorithm(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
		}
		if seen[alg.Name] {
			continue
		}
		seen[alg.Name] = true
		out = append(out, alg)
	}
	return out, nil
}

// Permits reports whether any entry admits the certificate signature algorithm sig.
func (l Allowlist) Permits(sig x509.SignatureAlgorithm) bool {
	for _, alg := range l {
		if alg.Signature == sig {
			return true
		}
	}
	return false
}

// Compatible returns the entries that admit sig with an issuer key pub.
func (l Allowlist) Compatible(sig x509.SignatureAlgorithm, pub crypto.PublicKey) []SignatureAlgorithm {
	var out []SignatureAlgorithm
	for _, alg := range l {
		if alg.Signature == sig && alg.AcceptsKey(pub) {
			out = append(out, alg)
		}
	}
	return out
}

// Without returns a copy of l minus the named entries.
func (l Allowlist) Without(names ...string) Allowlist {
	out := make(Allowlist, 0, len(l))
next:
	for _, alg := range l {
		for _, name := range names {
			if strings.EqualFold(alg.Name, strings.TrimSpace(name)) {
				continue next
			}
		}
		out = append(out, alg)
	}
	return out
}

// Names returns the registry names of the entries, in order.
func (l Allowlist) Names() []string {
	names := make([]string, len(l))
	for i, alg := range l {
		names[i] = alg.Name
	}
	return names
}
