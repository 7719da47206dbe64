package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bataudit/dashboard/internal/pagination"
)

func validateOutputFormat(output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// windowText renders controls as "‹ 1 … [3] … 5 ›" with the active page in
// brackets.
func windowText(controls []pagination.Control) string {
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		switch c.Kind {
		case pagination.KindPrevious:
			parts = append(parts, "‹")
		case pagination.KindNext:
			parts = append(parts, "›")
		case pagination.KindEllipsis:
			parts = append(parts, "…")
		default:
			if c.Active {
				parts = append(parts, "["+c.Label+"]")
			} else {
				parts = append(parts, c.Label)
			}
		}
	}
	return strings.Join(parts, " ")
}
