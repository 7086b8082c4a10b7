package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/keydeck/pkg/codec"
	"github.com/ssargent/keydeck/pkg/deck"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		to      string
		flatten bool
	)

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a deck, optionally in another format",
		Long: `Read a deck and write it back out. Without --to the output keeps
the format the input declared. Without --flatten include directives are
written as they were read.

Example:
  keydeck convert model.k model_long.k --to large --flatten`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.container.Config()
			rcfg, err := cfg.Reader.DeckConfig()
			if err != nil {
				return err
			}
			rcfg.FollowIncludes = flatten
			rcfg.Registry = a.container.Registry()
			rcfg.Logger = a.container.Logger().Named("reader")
			rcfg.Recorder = a.container.Metrics()

			r := deck.NewReader(rcfg)
			m, err := r.ReadFile(args[0])
			if err != nil {
				return err
			}
			printIssues(cmd.ErrOrStderr(), r.Issues())
			if r.HasErrors() {
				return fmt.Errorf("%s: %w", args[0], errDeckErrors)
			}

			wcfg, err := a.container.WriterConfig()
			if err != nil {
				return err
			}
			wcfg.Format = m.Format
			if to != "" {
				if wcfg.Format, err = codec.ParseFormat(to); err != nil {
					return err
				}
			}
			if err := deck.NewWriter(wcfg).WriteFile(m, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d keywords to %s (%s)\n", m.Len(), args[1], wcfg.Format)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "output format: standard or large")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "merge included files into the output")
	return cmd
}
