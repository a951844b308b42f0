// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"strings"
)

// BaseName returns the last path component of argv0 with any .exe suffix
// removed. Both slash and backslash separate components regardless of the
// host OS. It returns fallback when nothing usable remains.
func BaseName(argv0, fallback string) string {
	parts := strings.FieldsFunc(argv0, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return fallback
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".exe")
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}

// ExecutableName returns the name the current process was invoked as, or
// fallback when os.Args is empty.
func ExecutableName(fallback string) string {
	if len(os.Args) == 0 {
		return fallback
	}
	return BaseName(os.Args[0], fallback)
}
