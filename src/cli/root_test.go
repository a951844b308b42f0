// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/cli"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certtest"
	x509store "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/store"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

const (
	version = "1.3.3.7-testing"
	at      = "2026-06-01T12:00:00Z"
)

// run executes the command tree with args and returns stdout and the error.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	log := logger.NewCLILogger()
	log.SetOutput(io.Discard)

	var out bytes.Buffer
	cmd := cli.NewRootCommand(version, log)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

type fixture struct {
	dir     string
	rootPEM string
	leafPEM string
	rsaPEM  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")

	dir := t.TempDir()
	ec := certtest.NewRoot(t, "CLI Root", certtest.P256Key(t))
	rsaRoot := certtest.NewRoot(t, "CLI Root", certtest.RSA2048Key(t))

	return fixture{
		dir:     dir,
		rootPEM: certtest.WritePEM(t, dir, "roots.pem", ec.Cert, rsaRoot.Cert),
		leafPEM: certtest.WritePEM(t, dir, "leaf.pem", ec.Issue(t, x509.ECDSAWithSHA256)),
		rsaPEM:  certtest.WritePEM(t, dir, "rsa.pem", rsaRoot.Issue(t, x509.SHA256WithRSA)),
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, f fixture)
	}{
		{
			name: "No Input File",
			testFunc: func(t *testing.T, f fixture) {
				_, err := run(t, "--ca", f.rootPEM)
				assert.ErrorIs(t, err, cli.ErrInputFileRequired)
			},
		},
		{
			name: "No Anchors",
			testFunc: func(t *testing.T, f fixture) {
				_, err := run(t, f.leafPEM)
				assert.ErrorIs(t, err, x509store.ErrNoAnchors)
			},
		},
		{
			name: "Accepts Both Leaves",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", at, f.leafPEM, f.rsaPEM)
				require.NoError(t, err)
				assert.Contains(t, out, "Server certificate "+f.leafPEM+" verified successfully")
				assert.Contains(t, out, "Server certificate "+f.rsaPEM+" verified successfully")
				assert.True(t, cli.OperationPerformed)
			},
		},
		{
			name: "Excluded Algorithm Rejects Only RSA",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", at, "-x", "RSA_PKCS1_2048_8192_SHA256", f.leafPEM, f.rsaPEM)
				assert.ErrorIs(t, err, cli.ErrRejected)
				assert.Contains(t, out, f.leafPEM+" verified successfully")
				assert.Contains(t, out, f.rsaPEM+" failed to be verified: DisallowedAlgorithm")
			},
		},
		{
			name: "Malformed File Reported",
			testFunc: func(t *testing.T, f fixture) {
				junk := filepath.Join(f.dir, "junk.pem")
				require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o600))

				out, err := run(t, "--ca", f.rootPEM, "--at", at, junk, f.leafPEM)
				assert.ErrorIs(t, err, cli.ErrRejected)
				assert.Contains(t, out, junk+" failed to be verified: MalformedCertificate")
				assert.Contains(t, out, f.leafPEM+" verified successfully")
			},
		},
		{
			name: "Multi Certificate File Reported Malformed",
			testFunc: func(t *testing.T, f fixture) {
				leafData, err := os.ReadFile(f.leafPEM)
				require.NoError(t, err)
				rsaData, err := os.ReadFile(f.rsaPEM)
				require.NoError(t, err)
				bundle := filepath.Join(f.dir, "bundle.pem")
				require.NoError(t, os.WriteFile(bundle, append(leafData, rsaData...), 0o600))

				out, err := run(t, "--ca", f.rootPEM, "--at", at, bundle)
				assert.ErrorIs(t, err, cli.ErrRejected)
				assert.Contains(t, out, bundle+" failed to be verified: MalformedCertificate")
				assert.Contains(t, out, "exactly one certificate")
			},
		},
		{
			name: "Single Positional Argument Runs Verification",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", at, f.leafPEM)
				require.NoError(t, err, "a certificate path must not be treated as a subcommand")
				assert.Equal(t, "Server certificate "+f.leafPEM+" verified successfully\n", out)
			},
		},
		{
			name: "Expired At Reference Time",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", "2030-01-01T00:00:00Z", f.leafPEM)
				assert.ErrorIs(t, err, cli.ErrRejected)
				assert.Contains(t, out, "Expired")
			},
		},
		{
			name: "Client Usage",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", at, "--usage", "client-auth", f.leafPEM)
				assert.ErrorIs(t, err, cli.ErrRejected)
				assert.Contains(t, out, "Client certificate "+f.leafPEM+" failed to be verified: UsageMismatch")
			},
		},
		{
			name: "JSON Output",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", at, "-o", "json", f.leafPEM)
				require.NoError(t, err)

				var decoded struct {
					Total   int `json:"total"`
					Results []struct {
						Reason    string `json:"reason"`
						Algorithm string `json:"algorithm"`
					} `json:"results"`
				}
				require.NoError(t, json.Unmarshal([]byte(out), &decoded))
				assert.Equal(t, 1, decoded.Total)
				assert.Equal(t, "Accepted", decoded.Results[0].Reason)
				assert.Equal(t, "ECDSA_P256_SHA256", decoded.Results[0].Algorithm)
			},
		},
		{
			name: "Table Output",
			testFunc: func(t *testing.T, f fixture) {
				out, err := run(t, "--ca", f.rootPEM, "--at", at, "--output", "table", f.leafPEM)
				require.NoError(t, err)
				assert.Contains(t, out, "|")
				assert.Contains(t, out, "CLI Root")
			},
		},
		{
			name: "Unknown Output",
			testFunc: func(t *testing.T, f fixture) {
				_, err := run(t, "--ca", f.rootPEM, "-o", "xml", f.leafPEM)
				assert.ErrorIs(t, err, cli.ErrUnknownOutput)
			},
		},
		{
			name: "Unknown Algorithm",
			testFunc: func(t *testing.T, f fixture) {
				_, err := run(t, "--ca", f.rootPEM, "--algorithms", "ECDSA_P256_SHA256,MD5", f.leafPEM)
				assert.ErrorIs(t, err, x509verify.ErrUnknownAlgorithm)
			},
		},
		{
			name: "Unknown Usage",
			testFunc: func(t *testing.T, f fixture) {
				_, err := run(t, "--ca", f.rootPEM, "--usage", "email", f.leafPEM)
				assert.ErrorIs(t, err, x509verify.ErrUnknownKeyUsage)
			},
		},
		{
			name: "Config File",
			testFunc: func(t *testing.T, f fixture) {
				cfg := filepath.Join(f.dir, "policy.yaml")
				require.NoError(t, os.WriteFile(cfg, []byte(
					"verification:\n  algorithms: [RSA_PKCS1_2048_8192_SHA256]\n  at: \""+at+"\"\n"+
						"anchors:\n  files: [\""+f.rootPEM+"\"]\n"), 0o600))

				out, err := run(t, "--config", cfg, f.leafPEM, f.rsaPEM)
				assert.ErrorIs(t, err, cli.ErrRejected)
				assert.Contains(t, out, f.leafPEM+" failed to be verified: DisallowedAlgorithm")
				assert.Contains(t, out, f.rsaPEM+" verified successfully")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, newFixture(t))
		})
	}
}

func TestAnchorsCommand(t *testing.T) {
	f := newFixture(t)
	db := filepath.Join(f.dir, "anchors.db")

	out, err := run(t, "anchors", "import", "--db", db, f.rootPEM)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 new anchor(s), 0 already present")

	out, err = run(t, "anchors", "import", "--db", db, f.rootPEM)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 new anchor(s), 2 already present")

	out, err = run(t, "anchors", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ECDSA P-256")
	assert.Contains(t, out, "RSA 2048")

	out, err = run(t, "--anchors-db", db, "--at", at, f.leafPEM, f.rsaPEM)
	require.NoError(t, err)
	assert.Contains(t, out, f.rsaPEM+" verified successfully")

	_, err = run(t, "anchors", "list")
	assert.ErrorIs(t, err, cli.ErrDatabaseRequired)

	_, err = run(t, "anchors", "list", "--db", filepath.Join(f.dir, "absent.db"))
	assert.Error(t, err)
}

func TestAlgorithmsCommand(t *testing.T) {
	out, err := run(t, "algorithms")
	require.NoError(t, err)

	for _, alg := range x509verify.SupportedAlgorithms() {
		assert.Contains(t, out, alg.Name)
	}
	assert.Contains(t, out, "RSA 3072-8192")
}
