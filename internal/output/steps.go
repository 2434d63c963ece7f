package output

import (
	"fmt"
	"io"

	"github.com/TobiSchelling/hotelreport/internal/pipeline"
)

// Steps prints every step of a pipeline run, followed by the files it wrote.
func Steps(w io.Writer, r *pipeline.Result) {
	st := newStyles()
	if r.Target != "" {
		fmt.Fprintln(w, st.header.Render(r.Target))
	}
	for i, step := range r.Steps {
		fmt.Fprintf(w, "\nStep %d/%d: %s\n", i+1, len(r.Steps), step.Name)
		if step.Err != nil {
			fmt.Fprintf(w, "  %s %v\n", st.bad.Render("Error:"), step.Err)
			continue
		}
		fmt.Fprintf(w, "  %s\n", step.Summary)
	}
	if len(r.Files) > 0 {
		fmt.Fprintln(w)
		for _, f := range r.Files {
			fmt.Fprintf(w, "  %s %s\n", st.good.Render("✓"), f)
		}
	}
}

// BatchTotals prints how many reports of a batch run succeeded.
func BatchTotals(w io.Writer, results []*pipeline.Result) {
	st := newStyles()
	failed := 0
	for _, r := range results {
		if r.Err() != nil {
			failed++
		}
	}
	fmt.Fprintln(w)
	line := fmt.Sprintf("%d reports, %d failed", len(results), failed)
	if failed > 0 {
		fmt.Fprintln(w, st.bad.Render(line))
		return
	}
	fmt.Fprintln(w, st.good.Render(line))
}
