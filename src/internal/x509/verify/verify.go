// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"crypto/x509"
	"sync"
	"time"

	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
)

// CertificateParser decodes a single certificate. [x509certs.Certificate]
// satisfies it.
type CertificateParser interface {
	Decode(data []byte) (*x509.Certificate, error)
}

// Verifier checks end-entity certificates against a trust store.
//
// A Verifier holds no per-call state and is safe for concurrent use.
type Verifier struct {
	primitives SignaturePrimitives
	parser     CertificateParser
}

// Option configures a [Verifier].
type Option func(*Verifier)

// WithPrimitives replaces the signature primitives.
func WithPrimitives(p SignaturePrimitives) Option {
	return func(v *Verifier) { v.primitives = p }
}

// WithParser replaces the certificate parser used by [Verifier.VerifyBytes].
func WithParser(p CertificateParser) Option {
	return func(v *Verifier) { v.parser = p }
}

// New returns a Verifier backed by the standard library primitives and the
// x509certs parser unless overridden.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		primitives: StdPrimitives{},
		parser:     x509certs.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify decides whether cert is acceptable for usage at time at, issued
// directly by an anchor in store and signed with an algorithm in allowed.
// Checks run in a fixed order and the first failure is returned.
//
// Parameters:
//   - cert: End-entity certificate
//   - store: Trust anchors; nil behaves as an empty store
//   - allowed: Acceptable signature algorithms
//   - usage: Intended purpose
//   - at: Reference time
//
// Returns:
//   - Result: Accepted, or the first reject reason encountered
func (v *Verifier) Verify(cert *x509.Certificate, store *x509trust.Store, allowed Allowlist, usage KeyUsage, at time.Time) Result {
	if cert == nil {
		return reject(MalformedCertificate, "no certificate")
	}
	if cert.PublicKey == nil {
		return reject(MalformedCertificate, "unsupported or missing subject public key")
	}
	if len(cert.RawTBSCertificate) == 0 || len(cert.Signature) == 0 {
		return reject(MalformedCertificate, "missing signed data or signature")
	}

	if at.Before(cert.NotBefore) {
		return reject(NotYetValid, "valid from %s, checked at %s", cert.NotBefore.UTC().Format(time.RFC3339), at.UTC().Format(time.RFC3339))
	}
	if at.After(cert.NotAfter) {
		return reject(Expired, "valid until %s, checked at %s", cert.NotAfter.UTC().Format(time.RFC3339), at.UTC().Format(time.RFC3339))
	}

	if reason, detail := usage.check(cert); reason != Accepted {
		return Result{Reason: reason, Detail: detail}
	}

	if cert.SignatureAlgorithm == x509.UnknownSignatureAlgorithm {
		oid, err := x509certs.SignatureAlgorithmOID(cert.Raw)
		if err != nil {
			return reject(DisallowedAlgorithm, "unrecognised signature algorithm")
		}
		return reject(DisallowedAlgorithm, "unrecognised signature algorithm %s", oid)
	}
	if !allowed.Permits(cert.SignatureAlgorithm) {
		return reject(DisallowedAlgorithm, "%s is not in the allowlist", cert.SignatureAlgorithm)
	}

	if store == nil {
		return reject(UnknownIssuer, "empty trust store")
	}
	anchors := store.Lookup(cert.RawIssuer)
	if len(anchors) == 0 {
		return reject(UnknownIssuer, "no trust anchor named %q", cert.Issuer.String())
	}

	var (
		compatible bool
		violation  error
	)
	for i := range anchors {
		anchor := &anchors[i]
		for _, alg := range allowed.Compatible(cert.SignatureAlgorithm, anchor.PublicKey) {
			compatible = true
			if err := v.primitives.VerifySignature(alg, anchor.PublicKey, cert.RawTBSCertificate, cert.Signature); err != nil {
				continue
			}
			if err := checkNameConstraints(cert, anchor); err != nil {
				if violation == nil {
					violation = err
				}
				break
			}
			return Result{Reason: Accepted, Anchor: anchor, Algorithm: &alg}
		}
	}

	switch {
	case violation != nil:
		return reject(NameConstraintViolation, "%v", violation)
	case !compatible:
		return reject(DisallowedAlgorithm, "no allowed algorithm matches %s with the issuer key", cert.SignatureAlgorithm)
	default:
		return reject(SignatureInvalid, "signature does not verify under %d matching anchor(s)", len(anchors))
	}
}

// VerifyBytes parses data with the configured parser and verifies the first
// certificate it contains. Parse failures yield [MalformedCertificate].
func (v *Verifier) VerifyBytes(data []byte, store *x509trust.Store, allowed Allowlist, usage KeyUsage, at time.Time) Result {
	cert, err := v.parser.Decode(data)
	if err != nil {
		return reject(MalformedCertificate, "%v", err)
	}
	return v.Verify(cert, store, allowed, usage, at)
}

// VerifyEach verifies independent certificates concurrently, one goroutine
// per certificate, and returns the results in input order.
func (v *Verifier) VerifyEach(certs []*x509.Certificate, store *x509trust.Store, allowed Allowlist, usage KeyUsage, at time.Time) []Result {
	results := make([]Result, len(certs))

	var wg sync.WaitGroup
	for i, cert := range certs {
		wg.Go(func() {
			results[i] = v.Verify(cert, store, allowed, usage, at)
		})
	}
	wg.Wait()

	return results
}
