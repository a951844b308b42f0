// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"

	// Register the digests used by the registry.
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// ErrBadSignature is returned by [StdPrimitives] when a signature does not verify.
var ErrBadSignature = errors.New("x509verify: signature verification failed")

// SignaturePrimitives verifies a raw signature over message with pub under alg.
// Implementations must be safe for concurrent use.
type SignaturePrimitives interface {
	VerifySignature(alg SignatureAlgorithm, pub crypto.PublicKey, message, signature []byte) error
}

// StdPrimitives implements [SignaturePrimitives] with the standard library.
type StdPrimitives struct{}

// VerifySignature implements [SignaturePrimitives].
func (StdPrimitives) VerifySignature(alg SignatureAlgorithm, pub crypto.PublicKey, message, signature []byte) error {
	if !alg.AcceptsKey(pub) {
		return fmt.Errorf("%w: %T key is not usable with %s", ErrBadSignature, pub, alg.Name)
	}

	var digest []byte
	if alg.Hash != 0 {
		if !alg.Hash.Available() {
			return fmt.Errorf("%w: hash %v unavailable", ErrBadSignature, alg.Hash)
		}
		h := alg.Hash.New()
		h.Write(message)
		digest = h.Sum(nil)
	}

	switch key := pub.(type) {
	case *ecdsa.PublicKey:
		if !ecdsa.VerifyASN1(key, digest, signature) {
			return ErrBadSignature
		}
	case *rsa.PublicKey:
		var err error
		if alg.PSS {
			err = rsa.VerifyPSS(key, alg.Hash, digest, signature, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
		} else {
			err = rsa.VerifyPKCS1v15(key, alg.Hash, digest, signature)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadSignature, err)
		}
	case ed25519.PublicKey:
		if !ed25519.Verify(key, message, signature) {
			return ErrBadSignature
		}
	default:
		return fmt.Errorf("%w: unsupported key type %T", ErrBadSignature, pub)
	}
	return nil
}
