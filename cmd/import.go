package cmd

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/go-arrower/keeper/app"
	"github.com/go-arrower/keeper/demo"
)

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import students from a flat file",
		Long: `Import students from a file with one student per line: id;name;score
Lines starting with # are ignored. The students are added to the stored
students and saved again. Lines that can not be imported are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, console, err := c.session(cmd)
			if err != nil {
				return err
			}

			store, err := conf.NewStore()
			if err != nil {
				return err
			}

			importStudents := app.NewInstrumentedRequest(logger, validator.New(), demo.NewImportHandler(store, console))

			res, err := importStudents.H(cmd.Context(), demo.ImportRequest{File: args[0]})
			if err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "imported %s students\n", console.Number(int64(res.Added)))

			return nil
		},
	}
}
