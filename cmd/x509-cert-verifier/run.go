// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"os"

	mcpserver "github.com/H0llyW00dzZ/tls-cert-verifier/src/mcp-server"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = mcpserver.GetVersion()
	}
}

func main() {
	if err := mcpserver.NewCommand(version).Execute(); err != nil {
		logger.NewCLILogger().Printf("MCP server failed: %v", err)
		os.Exit(1)
	}
}
