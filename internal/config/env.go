package config

import (
	"fmt"
	"os"

	"github.com/nibzard/task-tracker/internal/utils"
)

// loadFromEnv overrides config from TASK_TRACKER_* environment variables
// and records them in sources.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setBool := func(env, field string, target *bool) error {
		v := os.Getenv(env)
		if v == "" {
			return nil
		}
		b, err := utils.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*target = b
		sources[field] = SourceEnv
		return nil
	}

	setString("TASK_TRACKER_FILE", "tasks_file", &cfg.TasksFile)
	setString("TASK_TRACKER_SCHEMA", "schema_file", &cfg.SchemaFile)
	setString("TASK_TRACKER_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("TASK_TRACKER_LOG_FORMAT", "log_format", &cfg.LogFormat)

	bools := []struct {
		env    string
		field  string
		target *bool
	}{
		{"TASK_TRACKER_LOCK", "lock", &cfg.Lock},
		{"TASK_TRACKER_ATOMIC_WRITE", "atomic_write", &cfg.AtomicWrite},
		{"TASK_TRACKER_BACKUP_ON_REPAIR", "backup_on_repair", &cfg.BackupOnRepair},
		{"TASK_TRACKER_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps},
		{"TASK_TRACKER_LOG_CALLER", "log_caller", &cfg.LogCaller},
	}
	for _, b := range bools {
		if err := setBool(b.env, b.field, b.target); err != nil {
			return err
		}
	}
	return nil
}
