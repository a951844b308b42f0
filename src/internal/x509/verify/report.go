// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509verify

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Entry is one named verification outcome.
type Entry struct {
	Name   string
	Usage  KeyUsage
	Result Result
}

// Report collects the outcomes of a verification run.
type Report struct {
	CheckedAt time.Time
	Entries   []Entry
}

// Add appends an outcome.
func (r *Report) Add(name string, usage KeyUsage, res Result) {
	r.Entries = append(r.Entries, Entry{Name: name, Usage: usage, Result: res})
}

// Rejected returns the number of rejected entries.
func (r *Report) Rejected() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Result.OK() {
			n++
		}
	}
	return n
}

func role(u KeyUsage) string {
	if u.Role != "" {
		return u.Role
	}
	return "End-entity"
}

// Line renders e as a single human-readable sentence.
func (e Entry) Line() string {
	if e.Result.OK() {
		return fmt.Sprintf("%s certificate %s verified successfully", role(e.Usage), e.Name)
	}
	return fmt.Sprintf("%s certificate %s failed to be verified: %s", role(e.Usage), e.Name, e.Result)
}

// RenderText writes one line per entry to w.
func (r *Report) RenderText(w io.Writer) error {
	for _, e := range r.Entries {
		if _, err := fmt.Fprintln(w, e.Line()); err != nil {
			return err
		}
	}
	return nil
}

// RenderTable renders the report as a markdown table.
func (r *Report) RenderTable() string {
	if len(r.Entries) == 0 {
		return "No certificates verified"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Certificate", "Usage", "Result", "Algorithm", "Anchor", "Detail"})

	rows := make([][]string, 0, len(r.Entries))
	for i, e := range r.Entries {
		alg, anchor := "-", "-"
		if e.Result.Algorithm != nil {
			alg = e.Result.Algorithm.Name
		}
		if e.Result.Anchor != nil {
			anchor = e.Result.Anchor.Subject.CommonName
		}
		detail := e.Result.Detail
		if detail == "" {
			detail = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Name,
			e.Usage.Name,
			e.Result.Reason.String(),
			alg,
			anchor,
			detail,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ToJSON encodes the report for programmatic consumers.
func (r *Report) ToJSON() ([]byte, error) {
	type entryJSON struct {
		Name              string `json:"name"`
		Usage             string `json:"usage"`
		Accepted          bool   `json:"accepted"`
		Reason            Reason `json:"reason"`
		Detail            string `json:"detail,omitempty"`
		Algorithm         string `json:"algorithm,omitempty"`
		Anchor            string `json:"anchor,omitempty"`
		AnchorFingerprint string `json:"anchorFingerprint,omitempty"`
	}

	type reportJSON struct {
		CheckedAt string      `json:"checkedAt"`
		Total     int         `json:"total"`
		Rejected  int         `json:"rejected"`
		Results   []entryJSON `json:"results"`
	}

	out := reportJSON{
		CheckedAt: r.CheckedAt.UTC().Format(time.RFC3339),
		Total:     len(r.Entries),
		Rejected:  r.Rejected(),
		Results:   make([]entryJSON, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		ej := entryJSON{
			Name:     e.Name,
			Usage:    e.Usage.Name,
			Accepted: e.Result.OK(),
			Reason:   e.Result.Reason,
			Detail:   e.Result.Detail,
		}
		if e.Result.Algorithm != nil {
			ej.Algorithm = e.Result.Algorithm.Name
		}
		if e.Result.Anchor != nil {
			ej.Anchor = e.Result.Anchor.Subject.String()
			ej.AnchorFingerprint = e.Result.Anchor.Fingerprint
		}
		out.Results = append(out.Results, ej)
	}

	return json.MarshalIndent(out, "", "  ")
}

// AlgorithmsTable renders the registry as a markdown table, marking the
// entries of [DefaultAllowlist].
func AlgorithmsTable() string {
	defaults := DefaultAllowlist().Names()

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Name", "Signature", "Issuer Key", "Default"})

	rows := make([][]string, 0, len(registry))
	for _, alg := range registry {
		def := "no"
		if slices.Contains(defaults, alg.Name) {
			def = "yes"
		}
		rows = append(rows, []string{alg.Name, alg.Signature.String(), alg.issuerKey(), def})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}
