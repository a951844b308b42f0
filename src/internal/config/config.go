// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/helper/gc"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
)

// EnvConfigFile names the environment variable consulted when no
// configuration path is given.
const EnvConfigFile = "TLS_CERT_VERIFIER_CONFIG"

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

const defaultUsage = "server-auth"

// ErrInvalidConfig is returned when a document does not match the schema.
var ErrInvalidConfig = errors.New("config: invalid configuration")

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// format represents supported configuration file formats.
type format int

const (
	formatJSON format = iota
	formatYAML
)

// Config is the verification policy and its inputs.
type Config struct {
	Verification struct {
		// Algorithms: allowlist entry names; empty selects the default allowlist
		Algorithms []string `json:"algorithms,omitempty" yaml:"algorithms,omitempty"`
		// ExcludeAlgorithms: names removed from the allowlist
		ExcludeAlgorithms []string `json:"excludeAlgorithms,omitempty" yaml:"excludeAlgorithms,omitempty"`
		// Usage: server-auth or client-auth
		Usage string `json:"usage" yaml:"usage"`
		// At: RFC 3339 reference time; empty means the current time
		At string `json:"at,omitempty" yaml:"at,omitempty"`
	} `json:"verification" yaml:"verification"`

	Anchors struct {
		// Files: PEM, DER or PKCS#7 files holding trust anchors
		Files []string `json:"files,omitempty" yaml:"files,omitempty"`
		// Database: bbolt anchor database path
		Database string `json:"database,omitempty" yaml:"database,omitempty"`
	} `json:"anchors" yaml:"anchors"`

	Output struct {
		// Format: text, table or json
		Format string `json:"format" yaml:"format"`
	} `json:"output" yaml:"output"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.Verification.Usage = defaultUsage
	c.Output.Format = FormatText
	return c
}

func detectFormat(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// validate checks the generic document against the embedded schema.
func validate(doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Parse validates data against the embedded schema and decodes it on top of
// the defaults.
func Parse(data []byte, yamlFormat bool) (*Config, error) {
	var doc any
	if yamlFormat {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	// Round-trip the validated document so both formats share one decoder.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(normalized, c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// Load reads the configuration at path, or at $TLS_CERT_VERIFIER_CONFIG when
// path is empty. Without either, defaults are returned.
//
// Configuration Priority:
//  1. Default values are set
//  2. File values override defaults
//  3. Invalid values are reset to their defaults
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := gc.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, detectFormat(path) == formatYAML)
}

func (c *Config) applyDefaults() {
	if _, err := x509verify.ParseKeyUsage(c.Verification.Usage); err != nil {
		c.Verification.Usage = defaultUsage
	}
	switch c.Output.Format {
	case FormatText, FormatTable, FormatJSON:
	default:
		c.Output.Format = FormatText
	}
}

// Allowlist resolves the configured algorithm names.
func (c *Config) Allowlist() (x509verify.Allowlist, error) {
	allowed := x509verify.DefaultAllowlist()
	if len(c.Verification.Algorithms) > 0 {
		var err error
		if allowed, err = x509verify.ParseAllowlist(c.Verification.Algorithms); err != nil {
			return nil, err
		}
	}

	if len(c.Verification.ExcludeAlgorithms) > 0 {
		if _, err := x509verify.ParseAllowlist(c.Verification.ExcludeAlgorithms); err != nil {
			return nil, err
		}
		allowed = allowed.Without(c.Verification.ExcludeAlgorithms...)
	}
	return allowed, nil
}

// KeyUsage resolves the configured usage, falling back to server-auth.
func (c *Config) KeyUsage() x509verify.KeyUsage {
	u, err := x509verify.ParseKeyUsage(c.Verification.Usage)
	if err != nil {
		return x509verify.ServerAuth
	}
	return u
}

// ReferenceTime returns the configured time, or now when unset.
func (c *Config) ReferenceTime(now time.Time) (time.Time, error) {
	if c.Verification.At == "" {
		return now, nil
	}
	at, err := time.Parse(time.RFC3339, c.Verification.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: verification.at: %w", err)
	}
	return at, nil
}
