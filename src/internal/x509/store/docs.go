// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509store persists trust anchor certificates in a [bbolt] database.
//
// Anchors are deduplicated by SHA-256 fingerprint and kept in insertion order,
// so a [x509trust.Store] snapshot built from the database tries anchors in the
// order they were imported.
//
// [bbolt]: https://pkg.go.dev/go.etcd.io/bbolt
package x509store
