// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509store

import (
	"context"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"go.etcd.io/bbolt"

	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
)

var (
	bucketAnchors      = []byte("anchors")
	bucketFingerprints = []byte("fingerprints")
)

// ErrNilCertificate is returned when inserting a nil certificate.
var ErrNilCertificate = errors.New("x509store: nil certificate")

// DB is a persistent anchor collection. It is safe for concurrent use; bbolt
// serialises writers and isolates readers.
type DB struct {
	db *bbolt.DB
}

// Open opens or creates the database at path. With opts.ReadOnly the file
// must already exist and is never modified.
func Open(path string, opts *bbolt.Options) (*DB, error) {
	db, err := bbolt.Open(path, 0o600, opts)
	if err != nil {
		return nil, fmt.Errorf("x509store: open %s: %w", path, err)
	}
	if opts != nil && opts.ReadOnly {
		return &DB{db: db}, nil
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAnchors, bucketFingerprints} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("x509store: init %s: %w", path, err)
	}

	return &DB{db: db}, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.db.Path() }

// Insert stores cert unless an identical certificate is already present.
// It reports whether the certificate was added.
func (d *DB) Insert(ctx context.Context, cert *x509.Certificate) (bool, error) {
	if cert == nil {
		return false, ErrNilCertificate
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fp := []byte(x509certs.Fingerprint(cert))

	var added bool
	err := d.db.Update(func(tx *bbolt.Tx) error {
		fps := tx.Bucket(bucketFingerprints)
		if fps.Get(fp) != nil {
			return nil
		}

		anchors := tx.Bucket(bucketAnchors)
		seq, err := anchors.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)

		if err := anchors.Put(key[:], cert.Raw); err != nil {
			return err
		}
		added = true
		return fps.Put(fp, key[:])
	})
	if err != nil {
		return false, fmt.Errorf("x509store: insert %q: %w", cert.Subject.String(), err)
	}
	return added, nil
}

// InsertAll inserts certs in order and returns how many were new.
func (d *DB) InsertAll(ctx context.Context, certs []*x509.Certificate) (int, error) {
	n := 0
	for _, cert := range certs {
		added, err := d.Insert(ctx, cert)
		if err != nil {
			return n, err
		}
		if added {
			n++
		}
	}
	return n, nil
}

// Certificates returns every stored certificate in insertion order.
func (d *DB) Certificates(ctx context.Context) ([]*x509.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	err := d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAnchors)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			// v is only valid for the life of the transaction.
			cert, err := x509.ParseCertificate(slices.Clone(v))
			if err != nil {
				return fmt.Errorf("anchor %x: %w", k, err)
			}
			certs = append(certs, cert)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("x509store: read anchors: %w", err)
	}
	return certs, nil
}

// Len returns the number of stored certificates.
func (d *DB) Len() (int, error) {
	var n int
	err := d.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketAnchors); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// TrustStore builds an immutable [x509trust.Store] snapshot of the database.
func (d *DB) TrustStore(ctx context.Context) (*x509trust.Store, error) {
	certs, err := d.Certificates(ctx)
	if err != nil {
		return nil, err
	}
	return x509trust.Build(certs)
}

// Close releases the database file lock.
func (d *DB) Close() error { return d.db.Close() }
