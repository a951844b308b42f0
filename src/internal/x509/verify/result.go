// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"encoding/json"
	"errors"
	"fmt"

	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
)

// Reason classifies a verification outcome.
type Reason int

const (
	// Accepted means every check passed.
	Accepted Reason = iota
	// MalformedCertificate means the input is not a structurally usable certificate.
	MalformedCertificate
	// NotYetValid means the reference time precedes NotBefore.
	NotYetValid
	// Expired means the reference time follows NotAfter.
	Expired
	// CAUsedAsEndEntity means basic constraints mark the certificate as a CA.
	CAUsedAsEndEntity
	// UsageMismatch means the certificate's usages exclude the required one.
	UsageMismatch
	// DisallowedAlgorithm means no allowlist entry admits the signature.
	DisallowedAlgorithm
	// UnknownIssuer means no anchor subject equals the certificate issuer.
	UnknownIssuer
	// SignatureInvalid means a name-matched anchor failed to verify the signature.
	SignatureInvalid
	// NameConstraintViolation means the verifying anchor's name constraints exclude the certificate.
	NameConstraintViolation
)

var (
	ErrMalformedCertificate    = errors.New("x509verify: malformed certificate")
	ErrNotYetValid             = errors.New("x509verify: certificate not yet valid")
	ErrExpired                 = errors.New("x509verify: certificate expired")
	ErrCAUsedAsEndEntity       = errors.New("x509verify: CA certificate used as end entity")
	ErrUsageMismatch           = errors.New("x509verify: key usage mismatch")
	ErrDisallowedAlgorithm     = errors.New("x509verify: signature algorithm not allowed")
	ErrUnknownIssuer           = errors.New("x509verify: unknown issuer")
	ErrSignatureInvalid        = errors.New("x509verify: invalid signature")
	ErrNameConstraintViolation = errors.New("x509verify: name constraint violation")
)

var reasonNames = [...]string{
	Accepted:                "Accepted",
	MalformedCertificate:    "MalformedCertificate",
	NotYetValid:             "NotYetValid",
	Expired:                 "Expired",
	CAUsedAsEndEntity:       "CAUsedAsEndEntity",
	UsageMismatch:           "UsageMismatch",
	DisallowedAlgorithm:     "DisallowedAlgorithm",
	UnknownIssuer:           "UnknownIssuer",
	SignatureInvalid:        "SignatureInvalid",
	NameConstraintViolation: "NameConstraintViolation",
}

var reasonErrors = [...]error{
	MalformedCertificate:    ErrMalformedCertificate,
	NotYetValid:             ErrNotYetValid,
	Expired:                 ErrExpired,
	CAUsedAsEndEntity:       ErrCAUsedAsEndEntity,
	UsageMismatch:           ErrUsageMismatch,
	DisallowedAlgorithm:     ErrDisallowedAlgorithm,
	UnknownIssuer:           ErrUnknownIssuer,
	SignatureInvalid:        ErrSignatureInvalid,
	NameConstraintViolation: ErrNameConstraintViolation,
}

// String returns the reason's name.
func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("Reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Sentinel returns the package error matching r, or nil for [Accepted].
func (r Reason) Sentinel() error {
	if r <= Accepted || int(r) >= len(reasonErrors) {
		return nil
	}
	return reasonErrors[r]
}

// MarshalJSON encodes the reason by name.
func (r Reason) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// RejectError describes why a certificate was rejected.
type RejectError struct {
	Reason Reason
	Detail string
}

// Error implements the error interface.
func (e *RejectError) Error() string {
	if e.Detail == "" {
		return e.Reason.Sentinel().Error()
	}
	return fmt.Sprintf("%v: %s", e.Reason.Sentinel(), e.Detail)
}

// Unwrap returns the reason's sentinel so that errors.Is works.
func (e *RejectError) Unwrap() error { return e.Reason.Sentinel() }

// Result is the outcome of one verification.
type Result struct {
	Reason Reason
	Detail string

	// Anchor and Algorithm are set on accept: the anchor whose key verified
	// the signature and the allowlist entry it was verified under.
	Anchor    *x509trust.TrustAnchor
	Algorithm *SignatureAlgorithm
}

// OK reports whether the certificate was accepted.
func (r Result) OK() bool { return r.Reason == Accepted }

// Err returns nil on accept, otherwise a *RejectError.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &RejectError{Reason: r.Reason, Detail: r.Detail}
}

// String renders the result for humans.
func (r Result) String() string {
	if r.OK() {
		return "accepted"
	}
	if r.Detail == "" {
		return r.Reason.String()
	}
	return fmt.Sprintf("%s (%s)", r.Reason, r.Detail)
}

func reject(reason Reason, format string, args ...any) Result {
	return Result{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
