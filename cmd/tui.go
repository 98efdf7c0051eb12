package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/task-tracker/internal/ui"
)

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and update tasks in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			return ui.Run(cmd.Context(), s, ui.WithOutput(a.stdout))
		},
	}
}
