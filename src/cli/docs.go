// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the Cobra command tree for tls-cert-verifier.
//
// The root command loads trust anchors from files and an optional anchor
// database, then verifies every certificate file given as an argument and
// prints a report as text, a markdown table or JSON. Subcommands manage the
// anchor database and list the supported signature algorithms.
package cli
