package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagFile      = "file"
	FlagSchema    = "schema"
	FlagNoLock    = "no-lock"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
)

// RegisterFlags defines the flags that Load reads from fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagFile, "f", DefaultTasksFile, "Path to the task file")
	fs.String(FlagSchema, "", "JSON Schema file used by doctor (default: built-in schema)")
	fs.Bool(FlagNoLock, false, "Do not lock the task file")
	fs.String(FlagLogLevel, DefaultLogLevel, "Log level (debug|info|warn|error)")
	fs.String(FlagLogFormat, DefaultLogFormat, "Log format (text|json|logfmt)")
}

// applyFlags copies flags that were set explicitly on fs into cfg.
// Flags left at their default do not override file or environment values.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]ConfigSource) error {
	if fs == nil {
		return nil
	}

	stringFlags := []struct {
		flag   string
		field  string
		target *string
	}{
		{FlagFile, "tasks_file", &cfg.TasksFile},
		{FlagSchema, "schema_file", &cfg.SchemaFile},
		{FlagLogLevel, "log_level", &cfg.LogLevel},
		{FlagLogFormat, "log_format", &cfg.LogFormat},
	}
	for _, s := range stringFlags {
		if !fs.Changed(s.flag) {
			continue
		}
		v, err := fs.GetString(s.flag)
		if err != nil {
			return err
		}
		*s.target = v
		sources[s.field] = SourceFlag
	}

	if fs.Changed(FlagNoLock) {
		noLock, err := fs.GetBool(FlagNoLock)
		if err != nil {
			return err
		}
		cfg.Lock = !noLock
		sources["lock"] = SourceFlag
	}
	return nil
}
