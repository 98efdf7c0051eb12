package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibzard/task-tracker/internal/render"
	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
	"github.com/nibzard/task-tracker/internal/utils"
)

const noTasksMessage = "You do not have any tasks"

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <words...>",
		Short: "Add a new task",
		Long: `Add a new task with status todo. All arguments are joined with single
spaces to form the description.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			added, err := s.Add(utils.JoinWords(args))
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			fmt.Fprintf(a.stdout, "Successfully created a new task with description: %s (ID: %d)\n", added.Description, added.ID)
			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			result, err := s.Delete(id)
			if err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			switch result {
			case store.ResultDeleted:
				fmt.Fprintf(a.stdout, "Successfully deleted the Task ID: %d\n", id)
			case store.ResultEmpty:
				fmt.Fprintln(a.stdout, noTasksMessage)
			default:
				a.reportNotFound(id)
			}
			return nil
		},
	}
}

func newUpdateCommand(a *app) *cobra.Command {
	var newDesc, newStatus string

	cmd := &cobra.Command{
		Use:   "update <id> [--new_desc words...] [--new_status todo|in-progress|done]",
		Short: "Update a task",
		Long: `Update the description and/or status of a task. Words following
--new_desc that are not flags are joined into the new description.
The update time is refreshed even when no field changes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var changes store.Changes
			if cmd.Flags().Changed("new_desc") {
				desc := utils.JoinWords(append([]string{newDesc}, args[1:]...))
				changes.Description = &desc
			} else if len(args) > 1 {
				return fmt.Errorf("unexpected arguments: %v", args[1:])
			}
			if cmd.Flags().Changed("new_status") {
				status, err := task.ParseStatus(newStatus)
				if err != nil {
					return err
				}
				changes.Status = &status
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			result, _, err := s.Update(id, changes)
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
			a.reportUpdate(id, result, changes)
			return nil
		},
	}
	cmd.Flags().StringVar(&newDesc, "new_desc", "", "New description for the task")
	cmd.Flags().StringVar(&newStatus, "new_status", "", "New status for the task (todo|in-progress|done)")
	_ = cmd.RegisterFlagCompletionFunc("new_status", completeStatus)
	return cmd
}

func newMarkCommand(a *app, use string, status task.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a task as %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			result, _, err := s.SetStatus(id, status)
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
			a.reportUpdate(id, result, store.Changes{Status: &status})
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var desc, status, format string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list [--status S] [--desc words...]",
		Short: "List tasks",
		Long: `List all tasks, or the tasks whose status and/or description match
exactly. Words following --desc that are not flags are joined into the
description filter.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// An empty --desc or --status value means no filter.
			var filter store.Filter
			if cmd.Flags().Changed("desc") {
				if d := utils.JoinWords(append([]string{desc}, args...)); d != "" {
					filter.Description = &d
				}
			} else if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if status != "" {
				st, err := task.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = &st
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			res, err := s.List(filter)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			if f == render.FormatText && !res.Filtered && len(res.Tasks) == 0 {
				fmt.Fprintln(a.stdout, noTasksMessage)
				return nil
			}
			if err := render.Tasks(a.stdout, res.Tasks, render.Options{Format: f, NoColor: noColor}); err != nil {
				return err
			}
			if f == render.FormatText && res.Filtered {
				fmt.Fprintln(a.stdout, render.Summary(res.Count, filter))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only list tasks with this status")
	cmd.Flags().StringVar(&desc, "desc", "", "Only list tasks with exactly this description")
	cmd.Flags().StringVarP(&format, "format", "o", string(render.FormatText), "Output format (text|json|yaml)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	_ = cmd.RegisterFlagCompletionFunc("status", completeStatus)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(render.Formats))
		for _, f := range render.Formats {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func completeStatus(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(task.Statuses))
	for _, s := range task.Statuses {
		names = append(names, string(s))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func (a *app) reportNotFound(id int) {
	fmt.Fprintf(a.stderr, "No task found with ID: %d\n", id)
}

func (a *app) reportUpdate(id int, result store.Result, changes store.Changes) {
	switch result {
	case store.ResultUpdated:
		if changes.Description != nil {
			fmt.Fprintln(a.stdout, "Changing description of the task")
		}
		if changes.Status != nil {
			fmt.Fprintln(a.stdout, "Changing status of the task")
		}
		fmt.Fprintf(a.stdout, "Successfully updated task id: %d\n", id)
	default:
		a.reportNotFound(id)
	}
}
