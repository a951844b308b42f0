// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certtest"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Verification.At = certtest.Now.Format(time.RFC3339)
	return cfg
}

// startServer runs the built-in tools over an in-process MCP transport.
func startServer(t *testing.T, store *x509trust.Store) *mcptest.Server {
	t.Helper()

	tools, err := NewServerBuilder().
		WithConfig(testConfig()).
		WithVersion("test").
		WithTrustStore(store).
		WithLogger(logger.NewMCPLogger(nil, true)).
		ServerTools()
	require.NoError(t, err)

	srv := mcptest.NewUnstartedServer(t)
	srv.AddTools(tools...)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Close)
	return srv
}

func callTool(t *testing.T, srv *mcptest.Server, name string, args map[string]any) (string, bool) {
	t.Helper()

	result, err := srv.Client().CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestServerBuilder(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Missing Config",
			testFunc: func(t *testing.T) {
				_, err := NewServerBuilder().WithVersion("test").Build()
				assert.ErrorIs(t, err, ErrConfigRequired)
			},
		},
		{
			name: "Build",
			testFunc: func(t *testing.T) {
				s, err := NewServerBuilder().WithConfig(config.Default()).WithVersion("test").Build()
				require.NoError(t, err)
				assert.NotNil(t, s)
			},
		},
		{
			name: "Format Default Follows Configuration",
			testFunc: func(t *testing.T) {
				cfg := testConfig()
				cfg.Output.Format = config.FormatJSON
				tools, err := NewServerBuilder().WithConfig(cfg).ServerTools()
				require.NoError(t, err)

				format, ok := tools[0].Tool.InputSchema.Properties["format"].(map[string]any)
				require.True(t, ok)
				assert.NotContains(t, format, "default", "the schema must not advertise a fixed default")
				assert.ElementsMatch(t, []string{config.FormatText, config.FormatJSON, config.FormatTable}, format["enum"])

				var h ToolHandler = tools[0].Handler
				root := certtest.NewRoot(t, "Configured Format Root", certtest.P256Key(t))
				leafPEM := string(x509certs.New().EncodePEM(root.Issue(t, x509.ECDSAWithSHA256)))
				res, err := h(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{
					Arguments: map[string]any{
						"certificate": leafPEM,
						"anchors":     string(x509certs.New().EncodePEM(root.Cert)),
					},
				}})
				require.NoError(t, err)
				require.False(t, res.IsError)
				text, ok := res.Content[0].(mcp.TextContent)
				require.True(t, ok)
				assert.True(t, json.Valid([]byte(text.Text)), "configured json format applies when format is omitted")
			},
		},
		{
			name: "Extra Tools Appended",
			testFunc: func(t *testing.T) {
				extra := ToolDefinition{
					Tool: mcp.NewTool("ping"),
					Handler: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
						return mcp.NewToolResultText("pong"), nil
					},
				}
				tools, err := NewServerBuilder().WithConfig(config.Default()).WithTools(extra).ServerTools()
				require.NoError(t, err)

				names := make([]string, len(tools))
				for i, tool := range tools {
					names[i] = tool.Tool.Name
				}
				assert.Equal(t, []string{
					ToolVerifyCertificate,
					ToolListSignatureAlgorithms,
					ToolDescribeTrustStore,
					"ping",
				}, names)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestVerifyCertificateTool(t *testing.T) {
	root := certtest.NewRoot(t, "MCP Root", certtest.P256Key(t))
	other := certtest.NewRoot(t, "Other Root", certtest.P384Key(t))
	leaf := root.Issue(t, x509.ECDSAWithSHA256)
	store, err := x509trust.Build([]*x509.Certificate{root.Cert})
	require.NoError(t, err)

	codec := x509certs.New()
	leafPEM := string(codec.EncodePEM(leaf))
	leafPath := certtest.WritePEM(t, t.TempDir(), "leaf.pem", leaf)
	leafB64 := base64.StdEncoding.EncodeToString(leaf.Raw)

	srv := startServer(t, store)

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "PEM Input Accepted",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{"certificate": leafPEM})
				assert.False(t, isErr)
				assert.Equal(t, "Server certificate server.example.com verified successfully\n", out)
			},
		},
		{
			name: "File Path Input Accepted",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{"certificate": leafPath})
				assert.False(t, isErr)
				assert.Contains(t, out, "verified successfully")
			},
		},
		{
			name: "Base64 DER Input Accepted",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{"certificate": leafB64})
				assert.False(t, isErr)
				assert.Contains(t, out, "verified successfully")
			},
		},
		{
			name: "JSON Format",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"format":      config.FormatJSON,
				})
				require.False(t, isErr)

				var doc struct {
					Total   int `json:"total"`
					Results []struct {
						Accepted  bool   `json:"accepted"`
						Reason    string `json:"reason"`
						Algorithm string `json:"algorithm"`
					} `json:"results"`
				}
				require.NoError(t, json.Unmarshal([]byte(out), &doc))
				assert.Equal(t, 1, doc.Total)
				require.Len(t, doc.Results, 1)
				assert.True(t, doc.Results[0].Accepted)
				assert.Equal(t, "Accepted", doc.Results[0].Reason)
				assert.Equal(t, "ECDSA_P256_SHA256", doc.Results[0].Algorithm)
			},
		},
		{
			name: "Table Format",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"format":      config.FormatTable,
				})
				assert.False(t, isErr)
				assert.Contains(t, out, "server.example.com")
				assert.Contains(t, out, "MCP Root")
			},
		},
		{
			name: "Per Call Anchors Unknown Issuer",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"anchors":     string(codec.EncodePEM(other.Cert)),
				})
				assert.False(t, isErr, "a rejection is a normal result")
				assert.Contains(t, out, "failed to be verified: UnknownIssuer")
			},
		},
		{
			name: "Algorithms Argument Replaces Allowlist",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"algorithms":  "ED25519, RSA_PKCS1_2048_8192_SHA256",
				})
				assert.False(t, isErr)
				assert.Contains(t, out, "DisallowedAlgorithm")
			},
		},
		{
			name: "Excluded Algorithm",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate":        leafPEM,
					"exclude_algorithms": "ECDSA_P256_SHA256",
				})
				assert.False(t, isErr)
				assert.Contains(t, out, "DisallowedAlgorithm")
			},
		},
		{
			name: "Client Usage Mismatch",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"usage":       "client-auth",
				})
				assert.False(t, isErr)
				assert.Contains(t, out, "Client certificate server.example.com failed to be verified: UsageMismatch")
			},
		},
		{
			name: "Reference Time After Expiry",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"at":          "2030-01-01T00:00:00Z",
				})
				assert.False(t, isErr)
				assert.Contains(t, out, "Expired")
			},
		},
		{
			name: "Garbage Certificate Malformed",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{"certificate": "not a certificate!"})
				assert.False(t, isErr)
				assert.Contains(t, out, "MalformedCertificate")
			},
		},
		{
			name: "Missing Certificate",
			testFunc: func(t *testing.T) {
				_, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{})
				assert.True(t, isErr)
			},
		},
		{
			name: "Unknown Format",
			testFunc: func(t *testing.T) {
				out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"format":      "xml",
				})
				assert.True(t, isErr)
				assert.Contains(t, out, "unknown format")
			},
		},
		{
			name: "Unknown Algorithm Name",
			testFunc: func(t *testing.T) {
				_, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"algorithms":  "MD5_RSA",
				})
				assert.True(t, isErr)
			},
		},
		{
			name: "Invalid Reference Time",
			testFunc: func(t *testing.T) {
				_, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{
					"certificate": leafPEM,
					"at":          "yesterday",
				})
				assert.True(t, isErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestVerifyCertificateTool_NoAnchors(t *testing.T) {
	root := certtest.NewRoot(t, "MCP Root", certtest.Ed25519Key(t))
	leafPEM := string(x509certs.New().EncodePEM(root.Issue(t, x509.PureEd25519)))
	srv := startServer(t, nil)

	out, isErr := callTool(t, srv, ToolVerifyCertificate, map[string]any{"certificate": leafPEM})
	assert.True(t, isErr)
	assert.Contains(t, out, "no trust anchors configured")

	out, isErr = callTool(t, srv, ToolVerifyCertificate, map[string]any{
		"certificate": leafPEM,
		"anchors":     string(x509certs.New().EncodePEM(root.Cert)),
	})
	assert.False(t, isErr)
	assert.Contains(t, out, "verified successfully")
}

func TestTrustStore_CachesAnchorArgument(t *testing.T) {
	root := certtest.NewRoot(t, "Cached Root", certtest.P256Key(t))
	h := NewServerBuilder().WithConfig(testConfig()).handlers()

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{
		Arguments: map[string]any{"anchors": string(x509certs.New().EncodePEM(root.Cert))},
	}}
	first, err := h.trustStore(req)
	require.NoError(t, err)
	second, err := h.trustStore(req)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, h.anchors.ItemCount())
}

func TestListSignatureAlgorithmsTool(t *testing.T) {
	srv := startServer(t, nil)

	out, isErr := callTool(t, srv, ToolListSignatureAlgorithms, nil)
	require.False(t, isErr)
	assert.Contains(t, out, "ECDSA_P521_SHA256")
	assert.Contains(t, out, "RSA_PKCS1_3072_8192_SHA384")

	_, allowed, ok := strings.Cut(out, "Configured allowlist: ")
	require.True(t, ok)
	assert.Contains(t, allowed, "ECDSA_P256_SHA256")
	assert.NotContains(t, allowed, "ECDSA_P521_SHA256")
}

func TestDescribeTrustStoreTool(t *testing.T) {
	root := certtest.NewRoot(t, "Described Root", certtest.P384Key(t))
	store, err := x509trust.Build([]*x509.Certificate{root.Cert})
	require.NoError(t, err)
	srv := startServer(t, store)

	out, isErr := callTool(t, srv, ToolDescribeTrustStore, nil)
	require.False(t, isErr)
	assert.True(t, strings.HasPrefix(out, "1 trust anchor(s)"))
	assert.Contains(t, out, "Described Root")
	assert.Contains(t, out, "ECDSA P-384")

	out, isErr = callTool(t, srv, ToolDescribeTrustStore, map[string]any{"anchors": "%%%"})
	assert.True(t, isErr)
	assert.Contains(t, out, "anchors")
}

func TestResources(t *testing.T) {
	cfg := testConfig()
	resources := NewServerBuilder().WithConfig(cfg).WithVersion("1.2.3").ServerResources()
	require.Len(t, resources, 2)

	read := func(t *testing.T, uri string) string {
		t.Helper()
		for _, r := range resources {
			if r.Resource.URI != uri {
				continue
			}
			contents, err := r.Handler(context.Background(), mcp.ReadResourceRequest{})
			require.NoError(t, err)
			require.Len(t, contents, 1)
			text, ok := contents[0].(mcp.TextResourceContents)
			require.True(t, ok)
			assert.Equal(t, "application/json", text.MIMEType)
			return text.Text
		}
		t.Fatalf("resource %s not found", uri)
		return ""
	}

	t.Run("Config Template", func(t *testing.T) {
		parsed, err := config.Parse([]byte(read(t, ResourceConfigTemplate)), false)
		require.NoError(t, err)
		assert.Equal(t, cfg.Verification.At, parsed.Verification.At)
		assert.Equal(t, config.FormatText, parsed.Output.Format)
	})

	t.Run("Version", func(t *testing.T) {
		var info map[string]any
		require.NoError(t, json.Unmarshal([]byte(read(t, ResourceVersion)), &info))
		assert.Equal(t, "1.2.3", info["version"])
		assert.Equal(t, serverName, info["name"])
		assert.Len(t, info["signatureAlgorithms"], 15)
	})
}
