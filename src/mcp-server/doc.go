// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes [X509] end-entity certificate verification over the
// Model Context Protocol ([MCP]) on stdio.
//
// Tools:
//   - verify_certificate: verify one certificate against the configured or
//     supplied trust anchors
//   - list_signature_algorithms: list the algorithm registry and the
//     configured allowlist
//   - describe_trust_store: summarise the anchors a verification would use
//
// Resources:
//   - config://template: example configuration document
//   - info://version: server name, version and tool names
//
// The server is assembled with [ServerBuilder] so that tests can inject the
// configuration, verifier and trust store.
//
// [X509]: https://grokipedia.com/page/X.509
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
