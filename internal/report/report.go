// Package report prints what a seeding run did or would do.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/store"
)

// PrintOps renders up to limit operations as a table. A limit of zero or less prints them all.
func PrintOps(w io.Writer, ops []store.Op, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Op", "Document", "Fields"})
	for i, op := range ops {
		if limit > 0 && i >= limit {
			t.AppendFooter(table.Row{"", "", fmt.Sprintf("... %d more", len(ops)-limit), ""})
			break
		}
		t.AppendRow(table.Row{i + 1, op.Kind, op.Path(), summarize(op.Payload)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// summarize lists the scalar fields of a payload that identify a document to a human.
func summarize(payload map[string]interface{}) string {
	keys := make([]string, 0, len(payload))
	for k, v := range payload {
		switch v.(type) {
		case string, int, int64:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
		if len(parts) == 4 {
			break
		}
	}
	return strings.Join(parts, " ")
}

// PrintSession renders the committed batches of a session.
func PrintSession(w io.Writer, s *batch.Session) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Batch", "Operations", "Committed"})
	total := 0
	for i, n := range s.Batches {
		total += n
		t.AppendRow(table.Row{i + 1, n, total})
	}
	t.AppendFooter(table.Row{"", s.Total, s.Committed})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// NewProgress returns a bar over total operations. A hidden bar still counts but draws nothing.
func NewProgress(total int, description string, hidden bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetVisibility(!hidden),
		progressbar.OptionShowCount(),
	)
}

// Advance returns a batch.Writer OnCommit callback that moves bar forward by each committed batch.
func Advance(bar *progressbar.ProgressBar) func(batch.Result) {
	return func(r batch.Result) {
		bar.Add(r.Size)
	}
}
