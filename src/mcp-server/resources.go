// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
)

// Resource URIs exposed by the server.
const (
	ResourceConfigTemplate = "config://template"
	ResourceVersion        = "info://version"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// createResources builds the built-in resources. The configuration template
// reflects cfg, falling back to the defaults when cfg is nil.
func createResources(cfg *config.Config, version string) []server.ServerResource {
	if cfg == nil {
		cfg = config.Default()
	}

	return []server.ServerResource{
		{
			Resource: mcp.NewResource(
				ResourceConfigTemplate,
				"Configuration Template",
				mcp.WithResourceDescription("Configuration document accepted by the server, with the active values filled in"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return jsonContents(ResourceConfigTemplate, cfg)
			},
		},
		{
			Resource: mcp.NewResource(
				ResourceVersion,
				"Version Information",
				mcp.WithResourceDescription("Server name, version, tools and the signature algorithm registry"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return jsonContents(ResourceVersion, map[string]any{
					"name":    serverName,
					"version": version,
					"type":    "MCP Server",
					"tools": []string{
						ToolVerifyCertificate,
						ToolListSignatureAlgorithms,
						ToolDescribeTrustStore,
					},
					"signatureAlgorithms": x509verify.SupportedAlgorithms().Names(),
					"defaultAllowlist":    x509verify.DefaultAllowlist().Names(),
					"keyUsages": []string{
						x509verify.ServerAuth.Name,
						x509verify.ClientAuth.Name,
					},
				})
			},
		},
	}
}
