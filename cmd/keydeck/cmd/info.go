package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <deck>",
		Short: "Summarize a deck",
		Long: `Read a deck and print its title, format, keyword counts and any
issues found while reading.

Example:
  keydeck info model.k`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, r, err := a.read(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			w := newTable(out)
			fmt.Fprintf(w, "Path:\t%s\n", m.Path)
			if m.Title != "" {
				fmt.Fprintf(w, "Title:\t%s\n", m.Title)
			}
			fmt.Fprintf(w, "Format:\t%s\n", m.Format)
			fmt.Fprintf(w, "Files:\t%d\n", len(r.Files()))
			fmt.Fprintf(w, "Keywords:\t%d\n", m.Len())
			fmt.Fprintf(w, "Nodes:\t%d\n", m.NodeCount())
			fmt.Fprintf(w, "Elements:\t%d\n", m.ElementCount())
			fmt.Fprintf(w, "Parts:\t%d\n", m.PartCount())
			if err := w.Flush(); err != nil {
				return err
			}

			if m.Len() > 0 {
				fmt.Fprintln(out)
				printSummary(out, m.Summary())
			}
			if issues := r.Issues(); len(issues) > 0 {
				fmt.Fprintln(out)
				printIssues(out, issues)
			}
			if r.HasErrors() {
				return errDeckErrors
			}
			return nil
		},
	}
}
