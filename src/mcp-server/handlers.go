// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/patrickmn/go-cache"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

var (
	// ErrNoTrustAnchors is returned when a call supplies no anchors and none are configured.
	ErrNoTrustAnchors = errors.New("mcpserver: no trust anchors configured; pass the anchors argument")
	// ErrEmptyInput is returned for a blank certificate or anchors argument.
	ErrEmptyInput = errors.New("mcpserver: empty certificate input")
)

// Per-call anchor bundles are parsed once and kept for anchorCacheTTL after
// their last build.
const (
	anchorCacheTTL     = 10 * time.Minute
	anchorCacheCleanup = 15 * time.Minute
)

// toolHandlers holds the dependencies shared by every tool call.
type toolHandlers struct {
	cfg      *config.Config
	verifier *x509verify.Verifier
	store    *x509trust.Store
	log      logger.Logger
	// anchors maps the SHA-256 of an anchors argument to its *x509trust.Store
	anchors *cache.Cache
}

// readInput turns a tool argument into certificate bytes. PEM text is used
// as is, an existing path is read from disk and anything else is decoded as
// base64 DER.
func readInput(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptyInput
	}
	if strings.Contains(value, "-----BEGIN") {
		return []byte(value), nil
	}
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		return gc.ReadFile(value)
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("input is neither PEM, an existing file nor base64: %w", err)
	}
	return data, nil
}

// trustStore returns the anchors for a call: the anchors argument when given,
// otherwise the configured store.
func (h *toolHandlers) trustStore(request mcp.CallToolRequest) (*x509trust.Store, error) {
	arg := request.GetString("anchors", "")
	if strings.TrimSpace(arg) == "" {
		if h.store == nil || h.store.Len() == 0 {
			return nil, ErrNoTrustAnchors
		}
		return h.store, nil
	}

	data, err := readInput(arg)
	if err != nil {
		return nil, fmt.Errorf("anchors: %w", err)
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if cached, ok := h.anchors.Get(key); ok {
		return cached.(*x509trust.Store), nil
	}

	store, err := x509trust.BuildFromBytes(x509certs.New(), data)
	if err != nil {
		return nil, err
	}
	h.anchors.SetDefault(key, store)
	return store, nil
}

func splitNames(s string) []string {
	var names []string
	for n := range strings.SplitSeq(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// policy resolves the allowlist, usage and reference time for a call. Call
// arguments override the configuration.
func (h *toolHandlers) policy(request mcp.CallToolRequest) (x509verify.Allowlist, x509verify.KeyUsage, time.Time, error) {
	cfg := *h.cfg
	if names := splitNames(request.GetString("algorithms", "")); len(names) > 0 {
		cfg.Verification.Algorithms = names
	}
	if names := splitNames(request.GetString("exclude_algorithms", "")); len(names) > 0 {
		cfg.Verification.ExcludeAlgorithms = append(append([]string(nil), cfg.Verification.ExcludeAlgorithms...), names...)
	}
	if at := request.GetString("at", ""); at != "" {
		cfg.Verification.At = at
	}

	allowed, err := cfg.Allowlist()
	if err != nil {
		return nil, x509verify.KeyUsage{}, time.Time{}, err
	}

	usage := cfg.KeyUsage()
	if name := request.GetString("usage", ""); name != "" {
		if usage, err = x509verify.ParseKeyUsage(name); err != nil {
			return nil, x509verify.KeyUsage{}, time.Time{}, err
		}
	}

	at, err := cfg.ReferenceTime(time.Now())
	if err != nil {
		return nil, x509verify.KeyUsage{}, time.Time{}, err
	}
	return allowed, usage, at, nil
}

// verifyCertificate handles the verify_certificate tool. A rejection is a
// normal result; only unusable arguments produce a tool error.
func (h *toolHandlers) verifyCertificate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := request.GetString("format", h.cfg.Output.Format)
	switch format {
	case config.FormatText, config.FormatTable, config.FormatJSON:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: use text, json or table", format)), nil
	}

	allowed, usage, at, err := h.policy(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	store, err := h.trustStore(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var res x509verify.Result
	name := "input"
	data, err := readInput(input)
	if err != nil {
		res = x509verify.Result{Reason: x509verify.MalformedCertificate, Detail: err.Error()}
	} else {
		res = h.verifier.VerifyBytes(data, store, allowed, usage, at)
		if cert, err := x509certs.New().Decode(data); err == nil && cert.Subject.CommonName != "" {
			name = cert.Subject.CommonName
		}
	}
	h.log.Printf("verify %s as %s: %s", name, usage, res)

	report := &x509verify.Report{CheckedAt: at}
	report.Add(name, usage, res)
	return renderReport(report, format)
}

func renderReport(report *x509verify.Report, format string) (*mcp.CallToolResult, error) {
	switch format {
	case config.FormatJSON:
		data, err := report.ToJSON()
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(data)), nil
	case config.FormatTable:
		return mcp.NewToolResultText(report.RenderTable()), nil
	default:
		var sb strings.Builder
		if err := report.RenderText(&sb); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// listSignatureAlgorithms handles the list_signature_algorithms tool.
func (h *toolHandlers) listSignatureAlgorithms(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	allowed, err := h.cfg.Allowlist()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(x509verify.AlgorithmsTable())
	sb.WriteString("\n\nConfigured allowlist: ")
	if len(allowed) == 0 {
		sb.WriteString("(empty)")
	} else {
		sb.WriteString(strings.Join(allowed.Names(), ", "))
	}
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// describeTrustStore handles the describe_trust_store tool.
func (h *toolHandlers) describeTrustStore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.trustStore(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d trust anchor(s)\n\n%s", store.Len(), store.RenderTable())), nil
}
