package config

import (
	"fmt"
	"strconv"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultTasksFile      = "tasks.json"
	DefaultLock           = true
	DefaultAtomicWrite    = true
	DefaultBackupOnRepair = false
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
)

// Config holds the full configuration for task-tracker.
type Config struct {
	// Paths
	TasksFile  string `toml:"tasks_file"`
	SchemaFile string `toml:"schema_file"` // empty selects the embedded schema

	// Storage
	Lock           bool `toml:"lock"`
	AtomicWrite    bool `toml:"atomic_write"`
	BackupOnRepair bool `toml:"backup_on_repair"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings lists keys in config files that matched no setting.
	Warnings []string
}

// Entry is one configuration value with its origin.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// configFields returns the configurable field names in display order.
func configFields() []string {
	return []string{
		"tasks_file",
		"schema_file",
		"lock",
		"atomic_write",
		"backup_on_repair",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// value returns the field named by a TOML key as display text.
func (c *Config) value(key string) string {
	switch key {
	case "tasks_file":
		return c.TasksFile
	case "schema_file":
		if c.SchemaFile == "" {
			return "(embedded)"
		}
		return c.SchemaFile
	case "lock":
		return strconv.FormatBool(c.Lock)
	case "atomic_write":
		return strconv.FormatBool(c.AtomicWrite)
	case "backup_on_repair":
		return strconv.FormatBool(c.BackupOnRepair)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	default:
		return fmt.Sprintf("<unknown key %s>", key)
	}
}

// Entries returns every setting with its value and source, in display order.
func (cws *ConfigWithSources) Entries() []Entry {
	entries := make([]Entry, 0, len(configFields()))
	for _, key := range configFields() {
		source, ok := cws.Sources[key]
		if !ok {
			source = SourceDefault
		}
		entries = append(entries, Entry{Key: key, Value: cws.Config.value(key), Source: source})
	}
	return entries
}
