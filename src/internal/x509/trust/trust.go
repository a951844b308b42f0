// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"net"
	"time"

	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
)

// ErrParse indicates that an input could not be turned into a trust anchor.
var ErrParse = errors.New("x509trust: failed to parse trust anchor")

// Parser decodes certificate bytes. [x509certs.Certificate] satisfies it.
type Parser interface {
	DecodeMultiple(data []byte) ([]*x509.Certificate, error)
}

// TrustAnchor is the subset of a root certificate needed to verify a
// signature over a child certificate.
type TrustAnchor struct {
	Subject    pkix.Name
	RawSubject []byte
	PublicKey  crypto.PublicKey
	KeyType    x509.PublicKeyAlgorithm
	NotBefore  time.Time
	NotAfter   time.Time

	PermittedDNSDomains []string
	ExcludedDNSDomains  []string
	PermittedIPRanges   []*net.IPNet
	ExcludedIPRanges    []*net.IPNet

	// Fingerprint is the SHA-256 of the source certificate, hex encoded.
	Fingerprint string
}

// HasNameConstraints reports whether the anchor restricts the names of the
// certificates it vouches for.
func (a *TrustAnchor) HasNameConstraints() bool {
	return len(a.PermittedDNSDomains) > 0 || len(a.ExcludedDNSDomains) > 0 ||
		len(a.PermittedIPRanges) > 0 || len(a.ExcludedIPRanges) > 0
}

// KeyDescription names the anchor key type and size, e.g. "ECDSA P-256".
func (a *TrustAnchor) KeyDescription() string {
	switch k := a.PublicKey.(type) {
	case *ecdsa.PublicKey:
		return "ECDSA " + k.Curve.Params().Name
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA %d", k.N.BitLen())
	case ed25519.PublicKey:
		return "Ed25519"
	default:
		return a.KeyType.String()
	}
}

// Store is an ordered, immutable set of trust anchors.
type Store struct {
	anchors []TrustAnchor
	byName  map[string][]int
}

// newAnchor extracts a TrustAnchor from cert.
func newAnchor(cert *x509.Certificate) (TrustAnchor, error) {
	if cert == nil {
		return TrustAnchor{}, fmt.Errorf("%w: nil certificate", ErrParse)
	}
	if cert.PublicKey == nil || cert.PublicKeyAlgorithm == x509.UnknownPublicKeyAlgorithm {
		return TrustAnchor{}, fmt.Errorf("%w: %q has no usable public key", ErrParse, cert.Subject.String())
	}
	if len(cert.RawSubject) == 0 {
		return TrustAnchor{}, fmt.Errorf("%w: certificate has an empty subject", ErrParse)
	}

	return TrustAnchor{
		Subject:             cert.Subject,
		RawSubject:          append([]byte(nil), cert.RawSubject...),
		PublicKey:           cert.PublicKey,
		KeyType:             cert.PublicKeyAlgorithm,
		NotBefore:           cert.NotBefore,
		NotAfter:            cert.NotAfter,
		PermittedDNSDomains: append([]string(nil), cert.PermittedDNSDomains...),
		ExcludedDNSDomains:  append([]string(nil), cert.ExcludedDNSDomains...),
		PermittedIPRanges:   append([]*net.IPNet(nil), cert.PermittedIPRanges...),
		ExcludedIPRanges:    append([]*net.IPNet(nil), cert.ExcludedIPRanges...),
		Fingerprint:         x509certs.Fingerprint(cert),
	}, nil
}

// Build creates a Store from root certificates, preserving their order.
//
// Parameters:
//   - certs: Trust anchor certificates
//
// Returns:
//   - *Store: The immutable store
//   - error: [ErrParse] if any entry is nil or has no usable public key
func Build(certs []*x509.Certificate) (*Store, error) {
	s := &Store{
		anchors: make([]TrustAnchor, 0, len(certs)),
		byName:  make(map[string][]int, len(certs)),
	}

	for i, cert := range certs {
		anchor, err := newAnchor(cert)
		if err != nil {
			return nil, fmt.Errorf("anchor %d: %w", i, err)
		}
		key := string(anchor.RawSubject)
		s.byName[key] = append(s.byName[key], len(s.anchors))
		s.anchors = append(s.anchors, anchor)
	}

	return s, nil
}

// BuildFromBytes decodes each input with p and builds a Store from every
// certificate found, in input order.
func BuildFromBytes(p Parser, inputs ...[]byte) (*Store, error) {
	var certs []*x509.Certificate
	for i, data := range inputs {
		decoded, err := p.DecodeMultiple(data)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d: %w", ErrParse, i, err)
		}
		certs = append(certs, decoded...)
	}
	return Build(certs)
}

// Lookup returns every anchor whose raw subject equals rawIssuer, in store
// order. The returned slice is freshly allocated.
func (s *Store) Lookup(rawIssuer []byte) []TrustAnchor {
	idx := s.byName[string(rawIssuer)]
	if len(idx) == 0 {
		return nil
	}

	out := make([]TrustAnchor, len(idx))
	for i, j := range idx {
		out[i] = s.anchors[j]
	}
	return out
}

// Anchors returns a copy of all anchors in store order.
func (s *Store) Anchors() []TrustAnchor {
	return append([]TrustAnchor(nil), s.anchors...)
}

// Len returns the number of anchors.
func (s *Store) Len() int { return len(s.anchors) }
