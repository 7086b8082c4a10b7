package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/keydeck/pkg/config"
	"github.com/ssargent/keydeck/pkg/deck"
	"github.com/ssargent/keydeck/pkg/di"
	"github.com/ssargent/keydeck/pkg/logging"
	"github.com/ssargent/keydeck/pkg/model"
)

// Set with -ldflags "-X github.com/ssargent/keydeck/cmd/keydeck/cmd.version=..."
var version = "dev"

var errDeckErrors = errors.New("deck has errors")

type globalFlags struct {
	configPath  string
	logLevel    string
	format      string
	baseDir     string
	archiveDir  string
	noIncludes  bool
	stopOnError bool
}

// app carries global state from the root command to its subcommands.
type app struct {
	flags     globalFlags
	container *di.Container
}

// Execute builds the command tree and runs it with os.Args.
func Execute() error {
	return NewRootCmd(nil).Execute()
}

// NewRootCmd builds the command tree. A non-nil container is used as is;
// otherwise one is built from the configuration file and global flags.
func NewRootCmd(container *di.Container) *cobra.Command {
	a := &app{container: container}

	rootCmd := &cobra.Command{
		Use:   "keydeck",
		Short: "keydeck - read, check and rewrite keyword input decks",
		Long: `keydeck reads fixed-column keyword input decks, follows their
includes, and reports what it finds.

Examples:
  keydeck info model.k
  keydeck check --metrics a.k b.k
  keydeck convert model.k model_long.k --to large --flatten`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.container != nil {
				_ = a.container.Logger().Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.config/keydeck/config.yaml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.flags.format, "format", "", "format assumed until *KEYWORD declares one: standard or large")
	pf.StringVar(&a.flags.baseDir, "base-dir", "", "directory relative includes resolve against")
	pf.BoolVar(&a.flags.noIncludes, "no-includes", false, "keep *INCLUDE directives instead of reading the files")
	pf.BoolVar(&a.flags.stopOnError, "stop-on-error", false, "stop reading at the first error")
	pf.StringVar(&a.flags.archiveDir, "archive-dir", "", "deck archive directory")

	rootCmd.AddCommand(
		newInfoCmd(a),
		newCheckCmd(a),
		newConvertCmd(a),
		newNodesCmd(a),
		newElementsCmd(a),
		newPartsCmd(a),
		newArchiveCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.container != nil {
		return nil
	}

	cfg, err := config.LoadOrDefault(a.flags.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.flags.logLevel
	}
	if flags.Changed("format") {
		cfg.Reader.Format = a.flags.format
	}
	if flags.Changed("base-dir") {
		cfg.Reader.BaseDir = a.flags.baseDir
	}
	if flags.Changed("no-includes") {
		cfg.Reader.FollowIncludes = !a.flags.noIncludes
	}
	if flags.Changed("stop-on-error") {
		cfg.Reader.StopOnError = a.flags.stopOnError
	}
	if flags.Changed("archive-dir") {
		cfg.Archive.Dir = a.flags.archiveDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.container = di.NewContainer(cfg, logger)
	return nil
}

// read parses the deck at path. The error is non-nil only when the read was
// stopped; issues are left on the returned reader.
func (a *app) read(path string) (*model.Model, *deck.Reader, error) {
	r, err := a.container.NewReader()
	if err != nil {
		return nil, nil, err
	}
	m, err := r.ReadFile(path)
	return m, r, err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the keydeck version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keydeck %s\n", version)
		},
	}
}
