// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix derives command names from the invoked executable so usage
// text matches how the binary was actually called, including renamed or
// Windows builds.
//
//	rootCmd := &cobra.Command{
//	    Use: posix.ExecutableName("tls-cert-verifier") + " [flags] CERT...",
//	}
package posix
