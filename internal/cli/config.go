package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(app.cfg.Files) == 0 {
				fmt.Fprintln(out, "# no config file found; defaults, env and flags only")
			}
			for _, f := range app.cfg.Files {
				fmt.Fprintf(out, "# loaded from %s\n", f)
			}
			if err := app.cfg.Encode(out); err != nil {
				return failed(err)
			}
			return nil
		},
	}
}
