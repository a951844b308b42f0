// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// x509-cert-verifier is a Model Context Protocol (MCP) server that exposes
// end-entity X.509 certificate verification to AI assistants and automation
// clients over stdio.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/tls-cert-verifier/cmd/x509-cert-verifier@latest
//
// # Usage
//
//	x509-cert-verifier [--config FILE]
//
// # Environment Variables
//
//	TLS_CERT_VERIFIER_CONFIG  Path to configuration file (alternative to --config)
//	X509_VERIFIER_DEBUG       Non-empty enables JSON log lines on stderr
//
// # MCP Tools
//
//   - verify_certificate: Verify a certificate (PEM, file path or base64 DER)
//   - list_signature_algorithms: List the algorithm registry and active allowlist
//   - describe_trust_store: Summarise the trust anchors in use
//
// # MCP Resources
//
//   - config://template: Active configuration as JSON
//   - info://version: Version, tools and algorithm registry
package main
