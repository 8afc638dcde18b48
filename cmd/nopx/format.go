package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/yunfengsa/stylelint-nopx/lint"
)

// formatters maps output format names to their implementation.
var formatters = map[string]func(w io.Writer, results []*lint.Result) error{
	"text": formatText,
	"json": formatJSON,
}

// jsonResult is the JSON form of a result.
type jsonResult struct {
	Source   string         `json:"source"`
	Errored  bool           `json:"errored"`
	Warnings []lint.Warning `json:"warnings"`
}

// formatJSON writes results as a JSON array, one element per source.
func formatJSON(w io.Writer, results []*lint.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		out = append(out, jsonResult{Source: r.Source, Errored: r.HasErrors(), Warnings: r.Warnings})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatText writes the warnings of each source, sorted by position,
// followed by a summary line. Nothing is written when there are no warnings.
func formatText(w io.Writer, results []*lint.Result) error {
	st := newStyles(w)

	var errs, warns int
	for _, r := range results {
		if len(r.Warnings) == 0 {
			continue
		}

		warnings := append([]lint.Warning(nil), r.Warnings...)
		sort.SliceStable(warnings, func(i, j int) bool {
			if warnings[i].Line != warnings[j].Line {
				return warnings[i].Line < warnings[j].Line
			}
			return warnings[i].Column < warnings[j].Column
		})

		if _, err := fmt.Fprintf(w, "\n%s\n", st.Title.Render(r.Source)); err != nil {
			return err
		}
		for _, wn := range warnings {
			symbol := st.Warning.Render("⚠")
			if wn.Severity == lint.SeverityError {
				symbol = st.Error.Render("✖")
				errs++
			} else {
				warns++
			}
			pos := fmt.Sprintf("%d:%d", wn.Line, wn.Column)
			if _, err := fmt.Fprintf(w, "  %s  %s  %s  %s\n", st.Muted.Render(fmt.Sprintf("%-7s", pos)), symbol, wn.Text, st.Muted.Render(wn.Node)); err != nil {
				return err
			}
		}
	}

	if errs+warns == 0 {
		return nil
	}
	summary := fmt.Sprintf("%d %s (%d %s, %d %s)",
		errs+warns, plural(errs+warns, "problem"),
		errs, plural(errs, "error"),
		warns, plural(warns, "warning"))
	style := st.Warning
	if errs > 0 {
		style = st.Error
	}
	_, err := fmt.Fprintf(w, "\n%s\n", style.Render(summary))
	return err
}

func plural(n int, s string) string {
	if n == 1 {
		return s
	}
	return s + "s"
}
