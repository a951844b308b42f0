// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509trust

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTable renders the anchors in lookup order as a markdown table.
func (s *Store) RenderTable() string {
	if s.Len() == 0 {
		return "No trust anchors"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Subject", "Key", "Valid Until", "Name Constraints", "SHA-256"})

	rows := make([][]string, 0, s.Len())
	for i := range s.anchors {
		a := &s.anchors[i]
		constrained := "no"
		if a.HasNameConstraints() {
			constrained = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			a.Subject.String(),
			a.KeyDescription(),
			a.NotAfter.Format("2006-01-02"),
			constrained,
			a.Fingerprint,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}
