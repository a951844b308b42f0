// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/config"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/helper/posix"
	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	x509store "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/store"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

var (
	// ErrInputFileRequired is returned when no certificate file is given.
	ErrInputFileRequired = errors.New("cli: at least one certificate file is required")
	// ErrRejected is returned after reporting when any certificate was rejected.
	ErrRejected = errors.New("cli: certificate rejected")
	// ErrUnknownOutput is returned for an unsupported --output value.
	ErrUnknownOutput = errors.New("cli: unknown output format")
)

// OperationPerformed reports whether the last run verified at least one
// certificate.
var OperationPerformed bool

type rootOptions struct {
	configPath string
	caFiles    []string
	anchorsDB  string
	algorithms []string
	exclude    []string
	usage      string
	at         string
	output     string
}

// Execute runs the command tree with the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

// NewRootCommand builds the tls-cert-verifier command tree.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   posix.ExecutableName("tls-cert-verifier") + " [flags] CERT...",
		Short: "Verify end-entity certificates against trust anchors",
		Long: `Verify end-entity certificates against a set of trust anchors under an
explicit signature algorithm allowlist, key usage and reference time.

Each certificate must be issued directly by one of the anchors. The exit
status is non-zero when any certificate is rejected.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Positional arguments are certificate files, not subcommand names.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return ErrInputFileRequired
			}
			return runVerify(cmd, opts, args, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (JSON or YAML); defaults to $"+config.EnvConfigFile)
	flags.StringArrayVar(&opts.caFiles, "ca", nil, "trust anchor file (PEM, DER or PKCS#7); repeatable")
	flags.StringVar(&opts.anchorsDB, "anchors-db", "", "anchor database created with 'anchors import'")
	flags.StringSliceVarP(&opts.algorithms, "algorithms", "a", nil, "comma-separated allowlist (default: built-in allowlist)")
	flags.StringSliceVarP(&opts.exclude, "exclude-algorithm", "x", nil, "algorithm to remove from the allowlist; repeatable")
	flags.StringVarP(&opts.usage, "usage", "u", "", "key usage: server-auth or client-auth (default server-auth)")
	flags.StringVar(&opts.at, "at", "", "reference time in RFC 3339 (default: now)")
	flags.StringVarP(&opts.output, "output", "o", "", "report format: text, table or json (default text)")

	cmd.AddCommand(newAnchorsCommand(log), newAlgorithmsCommand())
	return cmd
}

// policy is the resolved verification input.
type policy struct {
	allowed x509verify.Allowlist
	usage   x509verify.KeyUsage
	at      time.Time
	output  string
	store   *x509trust.Store
}

// resolvePolicy merges the configuration file with flags. Flags that were set
// explicitly take precedence.
func resolvePolicy(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*policy, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("algorithms") {
		cfg.Verification.Algorithms = opts.algorithms
	}
	if flags.Changed("exclude-algorithm") {
		cfg.Verification.ExcludeAlgorithms = append(cfg.Verification.ExcludeAlgorithms, opts.exclude...)
	}
	if flags.Changed("at") {
		cfg.Verification.At = opts.at
	}
	if flags.Changed("anchors-db") {
		cfg.Anchors.Database = opts.anchorsDB
	}
	cfg.Anchors.Files = append(cfg.Anchors.Files, opts.caFiles...)

	p := &policy{output: cfg.Output.Format}
	if flags.Changed("output") {
		p.output = opts.output
	}
	switch p.output {
	case config.FormatText, config.FormatTable, config.FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, p.output)
	}

	if p.allowed, err = cfg.Allowlist(); err != nil {
		return nil, err
	}

	p.usage = cfg.KeyUsage()
	if flags.Changed("usage") {
		if p.usage, err = x509verify.ParseKeyUsage(opts.usage); err != nil {
			return nil, err
		}
	}

	if p.at, err = cfg.ReferenceTime(time.Now()); err != nil {
		return nil, err
	}

	if p.store, err = x509store.LoadTrustStore(ctx, cfg.Anchors.Files, cfg.Anchors.Database); err != nil {
		return nil, err
	}
	return p, nil
}

func runVerify(cmd *cobra.Command, opts *rootOptions, files []string, log logger.Logger) error {
	ctx := cmd.Context()

	p, err := resolvePolicy(ctx, cmd, opts)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d trust anchor(s); %d algorithm(s) allowed for %s", p.store.Len(), len(p.allowed), p.usage)

	decoder := x509certs.New()
	certs := make([]*x509.Certificate, len(files))
	parseErrs := make([]error, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		decoded, err := decoder.ReadFile(path)
		switch {
		case err != nil:
			parseErrs[i] = err
		case len(decoded) > 1:
			parseErrs[i] = fmt.Errorf("%w: found %d", x509certs.ErrMultipleCertificates, len(decoded))
		default:
			certs[i] = decoded[0]
		}
	}

	results := x509verify.New().VerifyEach(certs, p.store, p.allowed, p.usage, p.at)

	report := &x509verify.Report{CheckedAt: p.at}
	for i, res := range results {
		if parseErrs[i] != nil {
			res = x509verify.Result{Reason: x509verify.MalformedCertificate, Detail: parseErrs[i].Error()}
		}
		report.Add(files[i], p.usage, res)
	}
	OperationPerformed = true

	if err := writeReport(cmd.OutOrStdout(), report, p.output); err != nil {
		return err
	}

	if n := report.Rejected(); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejected, n, len(report.Entries))
	}
	return nil
}

func writeReport(w io.Writer, report *x509verify.Report, format string) error {
	switch format {
	case config.FormatTable:
		_, err := fmt.Fprintln(w, report.RenderTable())
		return err
	case config.FormatJSON:
		data, err := report.ToJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return report.RenderText(w)
	}
}
