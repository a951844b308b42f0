// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509store

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
)

// ErrNoAnchors is returned when no anchor source yields a certificate.
var ErrNoAnchors = errors.New("x509store: no trust anchors loaded")

// OpenTimeout bounds the wait for another process holding the database lock.
const OpenTimeout = 2 * time.Second

// LoadTrustStore builds a trust store from anchor files, read in order, followed
// by the contents of the database at dbPath when it is not empty. The
// database is opened read-only.
func LoadTrustStore(ctx context.Context, files []string, dbPath string) (*x509trust.Store, error) {
	decoder := x509certs.New()

	var anchors []*x509.Certificate
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		certs, err := decoder.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", x509trust.ErrParse, err)
		}
		anchors = append(anchors, certs...)
	}

	if dbPath != "" {
		db, err := Open(dbPath, &bbolt.Options{ReadOnly: true, Timeout: OpenTimeout})
		if err != nil {
			return nil, err
		}
		defer db.Close()

		certs, err := db.Certificates(ctx)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, certs...)
	}

	if len(anchors) == 0 {
		return nil, ErrNoAnchors
	}
	return x509trust.Build(anchors)
}
