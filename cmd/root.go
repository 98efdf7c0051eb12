// Package cmd implements the CLI command structure for task-tracker.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/task-tracker/internal/config"
	"github.com/nibzard/task-tracker/internal/logging"
	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the task-tracker CLI with the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdout, os.Stderr)
}

// Execute runs the CLI writing command output to stdout and diagnostics to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(&app{stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app carries state shared by the commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg    *config.ConfigWithSources
	logger *log.Logger
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "task-tracker",
		Short: "Track tasks in a local JSON file",
		Long: `task-tracker keeps a list of tasks in a JSON file in the working directory.

Each task has an id, a description, a status (todo, in-progress or done)
and creation and update timestamps.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("task-tracker version {{.Version}}\n")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newAddCommand(a),
		newDeleteCommand(a),
		newUpdateCommand(a),
		newMarkCommand(a, "mark-in-progress", task.StatusInProgress),
		newMarkCommand(a, "mark-done", task.StatusDone),
		newListCommand(a),
		newTUICommand(a),
		newDoctorCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// loadConfig loads configuration once per invocation using the flags
// parsed for cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*config.ConfigWithSources, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cws, err := config.LoadWithSources(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cws
	a.logger = logging.FromConfig(cws.Config, a.stderr)
	for _, w := range cws.Warnings {
		a.logger.Warn("config", "warning", w)
	}
	return cws, nil
}

// openStore builds a store over the configured task file and makes sure
// the file exists and decodes.
func (a *app) openStore(cmd *cobra.Command) (*store.Store, error) {
	cws, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := newStore(cws.Config, a.logger)
	if _, err := s.Ensure(); err != nil {
		return nil, fmt.Errorf("prepare task file: %w", err)
	}
	return s, nil
}

func newStore(cfg *config.Config, logger *log.Logger) *store.Store {
	backend := store.NewFileBackend(cfg.TasksFile,
		store.WithAtomicWrite(cfg.AtomicWrite),
		store.WithLocking(cfg.Lock),
	)
	return store.New(backend,
		store.WithLogger(logger),
		store.WithBackupOnRepair(cfg.BackupOnRepair),
	)
}

// parseID parses a task id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: must be an integer", arg)
	}
	return id, nil
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "task-tracker version %s\n", Version)
			return nil
		},
	}
}
