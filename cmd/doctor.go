package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibzard/task-tracker/internal/task"
)

func newDoctorCommand(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor [file]",
		Short: "Check config and task file validity",
		Long: `Check the effective configuration and validate the task file against
the JSON Schema. The task file is never modified.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cws, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg := cws.Config
			tasksPath := cfg.TasksFile
			if len(args) == 1 {
				tasksPath = args[0]
			}
			return runDoctor(a.stdout, doctorInput{
				configFiles: cws.Files,
				warnings:    cws.Warnings,
				tasksPath:   tasksPath,
				schemaPath:  cfg.SchemaFile,
				verbose:     verbose,
			})
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List the tasks in the file")
	return cmd
}

type doctorInput struct {
	configFiles []string
	warnings    []string
	tasksPath   string
	schemaPath  string
	verbose     bool
}

func runDoctor(w io.Writer, in doctorInput) error {
	fmt.Fprintln(w, "Task Tracker Doctor")
	fmt.Fprintln(w, "===================")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config:")
	if len(in.configFiles) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, f := range in.configFiles {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	for _, warning := range in.warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Task file: %s\n", in.tasksPath)
	data, err := os.ReadFile(in.tasksPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		result := task.Validate(data, task.ValidationOptions{SchemaPath: in.schemaPath})
		if result.SchemaUsed != "" {
			fmt.Fprintf(w, "  Schema: %s\n", result.SchemaUsed)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintln(w, "  ✅ Valid")
		} else {
			fmt.Fprintln(w, "  ❌ Invalid:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
		if in.verbose {
			if c, err := task.Decode(data); err == nil {
				fmt.Fprintf(w, "  Tasks: %d\n", c.Len())
				for _, t := range c.Tasks {
					fmt.Fprintf(w, "    - [%s] %d: %s\n", t.Status, t.ID, t.Description)
				}
			}
		}
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Run a task-tracker command to reset an unreadable file.")
	return fmt.Errorf("doctor checks failed")
}
