package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rgefryer/planner/internal/view"
)

func render(rows []view.Row, format string, w io.Writer) error {
	switch format {
	case "json":
		return renderJSON(rows, w)
	default:
		return renderText(rows, w)
	}
}

func renderJSON(rows []view.Row, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// renderText prints one line per row: name, weekly day counts, and
// who/plan/left summary, with notes picked out in a profile-aware
// warning color so redirected or non-TTY output still degrades to
// plain, readable text.
func renderText(rows []view.Row, w io.Writer) error {
	profile := termenv.ColorProfile()

	for _, r := range rows {
		name := r.Name
		if !r.IsResource {
			name = strings.Repeat("  ", r.Level) + name
		}
		label := fmt.Sprintf("%-30s", name)
		if profile == termenv.Ascii {
			fmt.Fprint(w, label)
		} else {
			fmt.Fprint(w, termenv.String(label).Bold())
		}

		for _, d := range r.Weekly {
			if d == 0 {
				fmt.Fprint(w, "     ")
			} else {
				fmt.Fprintf(w, "%5.1f", d)
			}
		}

		if !r.IsResource {
			fmt.Fprintf(w, "   who=%-10s plan=%-6.1f left=%-6.1f", r.Who, r.Plan, r.Left)
		}
		fmt.Fprintln(w)

		for _, note := range r.Notes {
			warned := termenv.String("! " + note).Foreground(profile.Color("3"))
			fmt.Fprintf(w, "  %s\n", warned)
		}
	}

	return nil
}
