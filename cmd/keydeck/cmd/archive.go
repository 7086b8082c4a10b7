package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/keydeck/pkg/storage"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve decks in the local archive",
		Long: `The archive keeps snapshots of decks under time-ordered ids.

Examples:
  keydeck archive put model.k --flatten
  keydeck archive list
  keydeck archive get 2QbVd3qiAnNC1sN1Mh0f0Sa4Tn5 --out restored.k`,
	}
	cmd.AddCommand(
		newArchivePutCmd(a),
		newArchiveGetCmd(a),
		newArchiveListCmd(a),
		newArchiveDeleteCmd(a),
	)
	return cmd
}

// withArchive opens the archive for the duration of fn.
func (a *app) withArchive(fn func(*storage.Archive) error) error {
	archive, err := a.container.OpenArchive()
	if err != nil {
		return err
	}
	if err := fn(archive); err != nil {
		_ = archive.Close()
		return err
	}
	return archive.Close()
}

func newArchivePutCmd(a *app) *cobra.Command {
	var (
		name    string
		flatten bool
	)

	cmd := &cobra.Command{
		Use:   "put <deck>",
		Short: "Archive a deck",
		Long: `Store a deck in the archive. With --flatten the deck is read with
its includes and the merged model is stored; otherwise the file is stored
byte for byte.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(args[0])
			}
			return a.withArchive(func(archive *storage.Archive) error {
				var (
					id  ksuid.KSUID
					err error
				)
				if flatten {
					m, r, rerr := a.read(args[0])
					if rerr != nil {
						return rerr
					}
					if r.HasErrors() {
						printIssues(cmd.ErrOrStderr(), r.Issues())
						return fmt.Errorf("%s: %w", args[0], errDeckErrors)
					}
					w, werr := a.container.NewWriter()
					if werr != nil {
						return werr
					}
					id, err = archive.PutModel(name, m, w)
				} else {
					data, rerr := os.ReadFile(args[0]) // #nosec G304 -- path given on the command line
					if rerr != nil {
						return rerr
					}
					id, err = archive.Put(name, data)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "entry name (default: the file name)")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "store the deck with its includes merged")
	return cmd
}

func newArchiveGetCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print or restore an archived deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			return a.withArchive(func(archive *storage.Archive) error {
				entry, err := archive.Get(id)
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(entry.Deck)
					return err
				}
				if err := os.MkdirAll(filepath.Dir(out), 0750); err != nil {
					return err
				}
				// #nosec G306 -- decks are shared input files
				return os.WriteFile(out, entry.Deck, 0644)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the deck to a file instead of stdout")
	return cmd
}

func newArchiveListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived decks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withArchive(func(archive *storage.Archive) error {
				entries, err := archive.List()
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No archived decks")
					return nil
				}
				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "ID\tNAME\tCREATED\tBYTES")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.ID, e.Name, e.Created.Format(time.RFC3339), len(e.Deck))
				}
				return w.Flush()
			})
		},
	}
}

func newArchiveDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an archived deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			return a.withArchive(func(archive *storage.Archive) error {
				if err := archive.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
				return nil
			})
		},
	}
}
