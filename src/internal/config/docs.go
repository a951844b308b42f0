// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the verification policy shared by the CLI and the MCP
// server.
//
// Configuration files may be JSON (.json) or YAML (.yaml, .yml). Every
// document is checked against an embedded JSON Schema before it is decoded,
// so unknown keys and wrongly typed values are reported instead of ignored.
//
// Example YAML:
//
//	verification:
//	  algorithms: [ECDSA_P256_SHA256, ED25519]
//	  excludeAlgorithms: [RSA_PKCS1_2048_8192_SHA256]
//	  usage: server-auth
//	  at: "2026-06-01T12:00:00Z"
//	anchors:
//	  files: [roots.pem]
//	  database: anchors.db
//	output:
//	  format: table
package config
