// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides the logging abstraction shared by the verifier
// binaries. [CLILogger] prints human-readable lines for the command line;
// [MCPLogger] emits one JSON object per line and stays silent by default so
// that it never corrupts an MCP stdio stream.
package logger
