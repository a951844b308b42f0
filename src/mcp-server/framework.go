// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/patrickmn/go-cache"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

// serverName is advertised to MCP clients during initialization.
const serverName = "X509 Certificate Verifier"

// ErrConfigRequired is returned by [ServerBuilder.Build] without a configuration.
var ErrConfigRequired = errors.New("mcpserver: configuration is required")

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolDefinition pairs a tool schema with its handler.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
}

// ServerDependencies holds everything a server instance needs.
type ServerDependencies struct {
	Config   *config.Config
	Version  string
	Verifier *x509verify.Verifier
	// TrustStore may be nil, in which case tools require an anchors argument.
	TrustStore *x509trust.Store
	Logger     logger.Logger
	Tools      []ToolDefinition
	Resources  []server.ServerResource
}

// ServerBuilder assembles an MCP server with a fluent interface.
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a builder with empty dependencies.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the verification policy defaults.
func (b *ServerBuilder) WithConfig(cfg *config.Config) *ServerBuilder {
	b.deps.Config = cfg
	return b
}

// WithVersion sets the advertised server version.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithVerifier replaces the default verifier.
func (b *ServerBuilder) WithVerifier(v *x509verify.Verifier) *ServerBuilder {
	b.deps.Verifier = v
	return b
}

// WithTrustStore sets the anchors used when a call supplies none.
func (b *ServerBuilder) WithTrustStore(store *x509trust.Store) *ServerBuilder {
	b.deps.TrustStore = store
	return b
}

// WithLogger sets the logger used by tool handlers.
func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.deps.Logger = log
	return b
}

// WithTools appends extra tools.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithResources appends extra resources.
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// handlers returns the tool handler set bound to the builder's dependencies,
// filling in defaults for the optional ones.
func (b *ServerBuilder) handlers() *toolHandlers {
	h := &toolHandlers{
		cfg:      b.deps.Config,
		verifier: b.deps.Verifier,
		store:    b.deps.TrustStore,
		log:      b.deps.Logger,
		anchors:  cache.New(anchorCacheTTL, anchorCacheCleanup),
	}
	if h.verifier == nil {
		h.verifier = x509verify.New()
	}
	if h.log == nil {
		h.log = logger.NewMCPLogger(nil, true)
	}
	return h
}

// ServerTools returns the built-in tools followed by any extra ones.
func (b *ServerBuilder) ServerTools() ([]server.ServerTool, error) {
	if b.deps.Config == nil {
		return nil, ErrConfigRequired
	}

	defs := append(createTools(b.handlers()), b.deps.Tools...)
	tools := make([]server.ServerTool, len(defs))
	for i, d := range defs {
		tools[i] = server.ServerTool{Tool: d.Tool, Handler: d.Handler}
	}
	return tools, nil
}

// ServerResources returns the built-in resources followed by any extra ones.
func (b *ServerBuilder) ServerResources() []server.ServerResource {
	return append(createResources(b.deps.Config, b.deps.Version), b.deps.Resources...)
}

// Build creates the MCP server.
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	tools, err := b.ServerTools()
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		serverName,
		b.deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)
	s.AddTools(tools...)
	for _, r := range b.ServerResources() {
		s.AddResource(r.Resource, r.Handler)
	}
	return s, nil
}
