// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// tls-cert-verifier verifies end-entity X.509 certificates against a set of
// trust anchors under an explicit signature algorithm allowlist, key usage
// and reference time.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/tls-cert-verifier/cmd/tls-cert-verifier@latest
//
// # Usage
//
//	tls-cert-verifier [FLAGS] CERT...
//	tls-cert-verifier anchors import --db DB FILE...
//	tls-cert-verifier anchors list --db DB
//	tls-cert-verifier algorithms
//
// # Flags
//
//	-c, --config              Configuration file (JSON or YAML)
//	    --ca                  Trust anchor file (PEM, DER or PKCS#7); repeatable
//	    --anchors-db          Anchor database created by "anchors import"
//	-a, --algorithms          Allowlist entry names, replacing the default allowlist
//	-x, --exclude-algorithm   Allowlist entry names to remove
//	-u, --usage               server-auth (default) or client-auth
//	    --at                  Reference time in RFC 3339 (default: now)
//	-o, --output              text (default), table or json
//
// # Environment Variables
//
//	TLS_CERT_VERIFIER_CONFIG  Path to configuration file (alternative to --config)
//
// # Exit Status
//
// 0 when every certificate is accepted, 1 when any is rejected or an input
// cannot be used, 130 when interrupted.
//
// # Examples
//
// Verify two certificates against a root bundle:
//
//	tls-cert-verifier --ca roots.pem server.pem client.pem
//
// Verify without RSA PKCS#1 v1.5 signatures at a fixed time:
//
//	tls-cert-verifier --ca roots.pem \
//	  -x RSA_PKCS1_2048_8192_SHA256 -x RSA_PKCS1_2048_8192_SHA384 \
//	  --at 2026-06-01T00:00:00Z server.pem
package main
