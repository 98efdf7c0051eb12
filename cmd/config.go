package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nibzard/task-tracker/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	var example bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show every setting with its value and where the value came from:
default, user file, project file, environment or flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if example {
				fmt.Fprint(a.stdout, config.ExampleConfig())
				return nil
			}
			cws, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
			for _, e := range cws.Entries() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.Source)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if len(cws.Files) > 0 {
				fmt.Fprintln(a.stdout, "\nConfig files:")
				for _, f := range cws.Files {
					fmt.Fprintf(a.stdout, "  %s\n", f)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "Print an example config file")
	return cmd
}
