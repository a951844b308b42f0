// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
)

// Tool names exposed by the server.
const (
	ToolVerifyCertificate       = "verify_certificate"
	ToolListSignatureAlgorithms = "list_signature_algorithms"
	ToolDescribeTrustStore      = "describe_trust_store"
)

const certificateInputHelp = "PEM text, a file path, or base64-encoded DER"

// createTools builds the built-in tool definitions bound to h.
func createTools(h *toolHandlers) []ToolDefinition {
	return []ToolDefinition{
		{
			Tool: mcp.NewTool(ToolVerifyCertificate,
				mcp.WithDescription("Verify an end-entity certificate against trust anchors under a signature algorithm allowlist, key usage and reference time. The certificate must be issued directly by an anchor."),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Certificate to verify: "+certificateInputHelp),
				),
				mcp.WithString("anchors",
					mcp.Description("Trust anchors for this call only ("+certificateInputHelp+"; PEM may hold several). Defaults to the server's configured anchors."),
				),
				mcp.WithString("usage",
					mcp.Description("Intended key usage: server-auth or client-auth. Defaults to the configured usage."),
				),
				mcp.WithString("algorithms",
					mcp.Description("Comma-separated allowlist entry names replacing the configured allowlist"),
				),
				mcp.WithString("exclude_algorithms",
					mcp.Description("Comma-separated allowlist entry names to remove"),
				),
				mcp.WithString("at",
					mcp.Description("Reference time in RFC 3339. Defaults to the configured time or now."),
				),
				mcp.WithString("format",
					mcp.Description("Output format: text, json or table. Defaults to the configured output format."),
					mcp.Enum(config.FormatText, config.FormatJSON, config.FormatTable),
				),
			),
			Handler: h.verifyCertificate,
		},
		{
			Tool: mcp.NewTool(ToolListSignatureAlgorithms,
				mcp.WithDescription("List every known signature algorithm allowlist entry and whether it is enabled by the server's configuration"),
			),
			Handler: h.listSignatureAlgorithms,
		},
		{
			Tool: mcp.NewTool(ToolDescribeTrustStore,
				mcp.WithDescription("Describe the trust anchors a verification would use"),
				mcp.WithString("anchors",
					mcp.Description("Trust anchors to describe instead of the configured ones ("+certificateInputHelp+")"),
				),
			),
			Handler: h.describeTrustStore,
		},
	}
}
