package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/keydeck/pkg/deck"
)

type checkResult struct {
	path     string
	keywords int
	issues   []deck.Issue
	failed   bool
}

func newCheckCmd(a *app) *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "check <deck>...",
		Short: "Validate one or more decks",
		Long: `Read every deck concurrently and report its issues. The command
fails when any deck has an error-severity issue.

Example:
  keydeck check --metrics front.k rear.k`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.check(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range results {
				status := "ok"
				if res.failed {
					status = "FAIL"
					failed++
				}
				fmt.Fprintf(out, "%-4s  %s (%d keywords, %d issues)\n", status, res.path, res.keywords, len(res.issues))
				printIssues(out, res.issues)
			}

			if showMetrics {
				fmt.Fprintln(out)
				if err := a.container.Metrics().WriteText(out); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d decks: %w", failed, len(results), errDeckErrors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print read metrics in Prometheus text format")
	return cmd
}

// check reads every path with its own reader, at most GOMAXPROCS at a time.
// Results keep the order of paths.
func (a *app) check(cmd *cobra.Command, paths []string) ([]checkResult, error) {
	results := make([]checkResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, r, err := a.read(path)
			if r == nil {
				return err
			}
			results[i] = checkResult{
				path:     path,
				keywords: m.Len(),
				issues:   r.Issues(),
				failed:   err != nil || r.HasErrors(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
