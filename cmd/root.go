package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/go-arrower/keeper"
	"github.com/go-arrower/keeper/report"
)

// cli holds what all commands share.
type cli struct {
	vip        *keeper.Viper
	configFile string
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "keeper",
		Short: "keeper keeps entities in memory and shows how a repository behaves",
		Long: `Run small demonstration programs on top of an in-memory repository:
an inventory, bank accounts, a pharmacy, and student records.
Snapshots are written to the configured store.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file, e.g. keeper.yaml")
	flags.String("data-dir", "", "directory of the snapshots")
	flags.String("driver", "", "store driver: json, yaml, toml, sqlite, or memory")
	flags.String("log-level", "", "log level: trace, debug, info, warn, or error")
	flags.Int64("seed", 0, "seed of the generated sample data, 0 is random")

	_ = c.vip.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = c.vip.BindPFlag("store.driver", flags.Lookup("driver"))
	_ = c.vip.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.vip.BindPFlag("seed", flags.Lookup("seed"))

	return root
}

// NewKeeperCLI initialises the complete keeper cli with its commands and returns the root command.
func NewKeeperCLI() *cobra.Command {
	c := &cli{vip: keeper.DefaultViper()}

	rootCmd := newRootCmd(c)
	rootCmd.AddCommand(Version("keeper"))
	rootCmd.AddCommand(newRunCmd(c))
	rootCmd.AddCommand(newImportCmd(c))

	return rootCmd
}

// Execute runs the keeper cli.
func Execute() {
	if err := NewKeeperCLI().Execute(); err != nil {
		os.Exit(1)
	}
}

// session loads the configuration and prepares the shared parts of a command.
func (c *cli) session(cmd *cobra.Command) (keeper.Config, *slog.Logger, *report.Console, error) {
	conf, err := c.vip.Load(c.configFile)
	if err != nil {
		return keeper.Config{}, nil, nil, err
	}

	level, err := keeper.ParseLevel(conf.Log.Level)
	if err != nil {
		return keeper.Config{}, nil, nil, err
	}

	logger := keeper.NewLogger(cmd.ErrOrStderr(), level)

	lang, err := language.Parse(conf.Language)
	if err != nil {
		return keeper.Config{}, nil, nil, fmt.Errorf("%w: language: %w", keeper.ErrConfigLoadFailed, err)
	}

	return conf, logger, report.NewConsole(cmd.OutOrStdout(), lang), nil
}

func printf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
