// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.etcd.io/bbolt"

	x509certs "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/certs"
	x509store "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/store"
	x509trust "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/trust"
	x509verify "github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/x509/verify"
	"github.com/H0llyW00dzZ/tls-cert-verifier/src/logger"
)

// ErrDatabaseRequired is returned when an anchors subcommand runs without --db.
var ErrDatabaseRequired = errors.New("cli: --db is required")

func newAnchorsCommand(log logger.Logger) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "anchors",
		Short: "Manage the trust anchor database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "anchor database path")

	importCmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import anchor certificates, skipping ones already present",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return ErrDatabaseRequired
			}

			db, err := x509store.Open(dbPath, &bbolt.Options{Timeout: x509store.OpenTimeout})
			if err != nil {
				return err
			}
			defer db.Close()

			decoder := x509certs.New()
			for _, path := range args {
				certs, err := decoder.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%w: %w", x509trust.ErrParse, err)
				}
				// Unusable anchors never reach the database.
				if _, err := x509trust.Build(certs); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				added, err := db.InsertAll(cmd.Context(), certs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %d new anchor(s), %d already present\n", path, added, len(certs)-added)
			}
			OperationPerformed = true
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored anchors in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return ErrDatabaseRequired
			}

			store, err := x509store.LoadTrustStore(cmd.Context(), nil, dbPath)
			if errors.Is(err, x509store.ErrNoAnchors) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No trust anchors")
				return err
			}
			if err != nil {
				return err
			}
			log.Printf("%s holds %d anchor(s)", dbPath, store.Len())
			_, err = fmt.Fprint(cmd.OutOrStdout(), store.RenderTable())
			return err
		},
	}

	cmd.AddCommand(importCmd, listCmd)
	return cmd
}

func newAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported signature algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), x509verify.AlgorithmsTable())
			return err
		},
	}
}
