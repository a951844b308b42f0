// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package certtest mints throwaway trust anchors and end-entity certificates
// for tests. Everything is generated in memory with fixed validity windows so
// that tests never depend on fixtures that expire or on network access.
package certtest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
)

var (
	// NotBefore is the default start of every leaf validity window.
	NotBefore = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	// NotAfter is the default end of every leaf validity window.
	NotAfter = time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	// Now is a reference time inside the default validity window.
	Now = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
)

var serial atomic.Int64

func nextSerial() *big.Int { return big.NewInt(serial.Add(1) + 1000) }

var (
	keyMu    sync.Mutex
	keyCache = map[string]crypto.Signer{}
)

// cachedKey returns a process-wide key for name, generating it on first use.
// RSA generation dominates test time otherwise.
func cachedKey(tb testing.TB, name string, gen func() (crypto.Signer, error)) crypto.Signer {
	tb.Helper()

	keyMu.Lock()
	defer keyMu.Unlock()

	if k, ok := keyCache[name]; ok {
		return k
	}
	k, err := gen()
	if err != nil {
		tb.Fatalf("generate %s key: %v", name, err)
	}
	keyCache[name] = k
	return k
}

// P256Key returns a shared ECDSA P-256 key.
func P256Key(tb testing.TB) crypto.Signer {
	return cachedKey(tb, "p256", func() (crypto.Signer, error) { return ecdsa.GenerateKey(elliptic.P256(), rand.Reader) })
}

// P384Key returns a shared ECDSA P-384 key.
func P384Key(tb testing.TB) crypto.Signer {
	return cachedKey(tb, "p384", func() (crypto.Signer, error) { return ecdsa.GenerateKey(elliptic.P384(), rand.Reader) })
}

// P521Key returns a shared ECDSA P-521 key.
func P521Key(tb testing.TB) crypto.Signer {
	return cachedKey(tb, "p521", func() (crypto.Signer, error) { return ecdsa.GenerateKey(elliptic.P521(), rand.Reader) })
}

// RSA2048Key returns a shared 2048-bit RSA key.
func RSA2048Key(tb testing.TB) crypto.Signer {
	return cachedKey(tb, "rsa2048", func() (crypto.Signer, error) { return rsa.GenerateKey(rand.Reader, 2048) })
}

// Ed25519Key returns a shared Ed25519 key.
func Ed25519Key(tb testing.TB) crypto.Signer {
	return cachedKey(tb, "ed25519", func() (crypto.Signer, error) {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		return priv, err
	})
}

// Authority is a self-signed trust anchor together with its signing key.
type Authority struct {
	Cert *x509.Certificate
	Key  crypto.Signer
}

// NewRoot creates a self-signed CA certificate named cn. Modifiers run on the
// template before signing.
func NewRoot(tb testing.TB, cn string, key crypto.Signer, mods ...func(*x509.Certificate)) *Authority {
	tb.Helper()

	tmpl := &x509.Certificate{
		SerialNumber:          nextSerial(),
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"Verifier Test PKI"}},
		NotBefore:             time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:              time.Date(2035, time.January, 1, 0, 0, 0, 0, time.UTC),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	for _, mod := range mods {
		mod(tmpl)
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	if err != nil {
		tb.Fatalf("create root %q: %v", cn, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("parse root %q: %v", cn, err)
	}

	return &Authority{Cert: cert, Key: key}
}

// Issue signs a server-authentication end-entity certificate with sig. The
// leaf carries digitalSignature, serverAuth and a single DNS name; modifiers
// may override any of it before signing.
func (a *Authority) Issue(tb testing.TB, sig x509.SignatureAlgorithm, mods ...func(*x509.Certificate)) *x509.Certificate {
	tb.Helper()

	tmpl := &x509.Certificate{
		SerialNumber:          nextSerial(),
		Subject:               pkix.Name{CommonName: "server.example.com"},
		DNSNames:              []string{"server.example.com"},
		NotBefore:             NotBefore,
		NotAfter:              NotAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		SignatureAlgorithm:    sig,
	}
	for _, mod := range mods {
		mod(tmpl)
	}

	leafKey := P256Key(tb)
	der, err := x509.CreateCertificate(rand.Reader, tmpl, a.Cert, leafKey.Public(), a.Key)
	if err != nil {
		tb.Fatalf("issue leaf with %v: %v", sig, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("parse leaf: %v", err)
	}
	return cert
}

// WritePEM writes certs as a PEM bundle named name inside dir and returns the path.
func WritePEM(tb testing.TB, dir, name string, certs ...*x509.Certificate) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, x509certs.New().EncodeMultiplePEM(certs), 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
