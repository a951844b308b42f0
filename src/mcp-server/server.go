// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/helper/posix"
	x509store "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/store"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the version the server advertises.
func GetVersion() string {
	return appVersion
}

// Run loads the configuration and anchors, then serves MCP on stdio until
// the client disconnects or SIGINT/SIGTERM arrives.
//
// A missing anchor set is not fatal: tools then require the anchors
// argument on every call.
func Run(version, configPath string) error {
	appVersion = version
	log := logger.NewMCPLogger(os.Stderr, os.Getenv("X509_VERIFIER_DEBUG") == "")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := x509store.LoadTrustStore(ctx, cfg.Anchors.Files, cfg.Anchors.Database)
	switch {
	case errors.Is(err, x509store.ErrNoAnchors):
		log.Println("no trust anchors configured; calls must pass anchors")
		store = nil
	case err != nil:
		return fmt.Errorf("failed to load trust anchors: %w", err)
	default:
		log.Printf("loaded %d trust anchor(s)", store.Len())
	}

	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithVersion(version).
		WithTrustStore(store).
		WithLogger(log.WithComponent("tools")).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	if err := server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// NewCommand returns the x509-cert-verifier command, which runs the server.
func NewCommand(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   posix.ExecutableName("x509-cert-verifier"),
		Short: "MCP server for end-entity X.509 certificate verification",
		Long: `Serve end-entity certificate verification over the Model Context Protocol
on stdio. Trust anchors, the algorithm allowlist and the key usage come from
the configuration file; tool calls may override them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(version, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (JSON or YAML); defaults to $"+config.EnvConfigFile)
	return cmd
}
