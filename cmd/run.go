package cmd

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/go-arrower/keeper/demo"
)

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run [program...]",
		Short: "Run demonstration programs",
		Long: `Run the given programs in order: inventory, bank, pharmacy, students, persistence.
Without arguments, the programs of the configuration run, or all of them.
Failing steps are part of the demonstration and do not fail the command.`,
		ValidArgs: demo.Programs(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, console, err := c.session(cmd)
			if err != nil {
				return err
			}

			store, err := conf.NewStore()
			if err != nil {
				return err
			}

			programs := args
			if len(programs) == 0 {
				programs = conf.Programs
			}

			logger.Debug("start", slog.Any("programs", programs), slog.String("driver", string(conf.Store.Driver)))

			runner := demo.NewRunner(store, console,
				demo.WithSeed(conf.Seed),
				demo.WithLogger(logger),
			)

			failed, err := runner.Run(cmd.Context(), programs...)
			if err != nil {
				return err
			}

			yellow := color.New(color.FgYellow).FprintfFunc()
			yellow(cmd.OutOrStdout(), "%s failing steps were expected\n", console.Number(int64(failed)))

			return nil
		},
	}
}
