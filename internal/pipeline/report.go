package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dgallion1/regsplit/internal/metrics"
)

// Report summarizes a run.
type Report struct {
	Documents []DocumentResult
	Durations metrics.Snapshot
}

// Count returns how many documents ended with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == status {
			n++
		}
	}
	return n
}

// Warnings lists every document warning and failure, prefixed with its
// language code.
func (r *Report) Warnings() []string {
	var out []string
	for _, d := range r.Documents {
		for _, w := range d.Warnings {
			out = append(out, fmt.Sprintf("%s (%s): %s", d.Lang, d.File, w))
		}
		if d.Status == StatusFailed && d.Err != nil {
			out = append(out, fmt.Sprintf("%s (%s): %s failed: %v", d.Lang, d.File, d.Phase, d.Err))
		}
	}
	return out
}

// Render writes the summary table followed by the warnings.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Lang", "File", "Status", "Rows", "Dropped", "Trigger", "Output"})

	rows := 0
	for _, d := range r.Documents {
		trigger := string(d.Stats.Trigger)
		if trigger == "" && d.Stats.Annex {
			trigger = "annex"
		}
		out := ""
		if d.Output != "" {
			out = filepath.Base(d.Output)
		}
		t.AppendRow(table.Row{d.Lang, d.File, d.Status, d.Rows, d.Stats.Dropped, trigger, out})
		rows += d.Rows
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d documents", len(r.Documents)),
		fmt.Sprintf("%d failed", r.Count(StatusFailed)), rows, "", "", ""})
	t.Render()

	if r.Durations.Count > 0 {
		fmt.Fprintf(w, "segment time: avg %.0fms, p95 %.0fms, max %dms\n",
			r.Durations.AvgMs, r.Durations.P95Ms, r.Durations.MaxMs)
	}
	if warnings := r.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(w, "\n%d warning(s):\n", len(warnings))
		for _, warning := range warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}
