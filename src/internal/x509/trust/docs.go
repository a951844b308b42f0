// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509trust holds the immutable set of trust anchors that end-entity
// certificates are verified against.
//
// A [Store] is built once from root certificates and never changes afterwards.
// Only what is needed to check a child signature is kept per anchor: the raw
// subject name, the public key, the validity interval and any name constraints.
// Lookups match the child's raw issuer name byte for byte and return candidates
// in the order the anchors were supplied.
//
// Because a Store is read-only after [Build] returns, it may be shared by
// reference across goroutines without locking.
package x509trust
