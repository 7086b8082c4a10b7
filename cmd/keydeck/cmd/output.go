package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ssargent/keydeck/pkg/deck"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// printSummary prints keyword counts sorted by name.
func printSummary(out io.Writer, summary map[string]int) {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	w := newTable(out)
	defer w.Flush()
	fmt.Fprintln(w, "KEYWORD\tBLOCKS")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%d\n", name, summary[name])
	}
}

// printIssues prints one issue per line, prefixed by its severity.
func printIssues(out io.Writer, issues []deck.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "%-7s %s\n", issue.Severity, issue.Error())
	}
}

func formatPoint(p [3]float64) string {
	return fmt.Sprintf("(%g, %g, %g)", p[0], p[1], p[2])
}
