package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# task-tracker configuration file
# Values can be overridden by environment variables or CLI flags

# Task file (relative to the working directory)
tasks_file = "tasks.json"

# JSON Schema used by "task-tracker doctor" (empty uses the built-in schema)
# schema_file = "tasks.schema.json"

# Hold an exclusive lock on "<tasks_file>.lock" while reading and writing
lock = true

# Write to a temp file and rename it over the task file
atomic_write = true

# Copy unreadable contents to "<tasks_file>.bak" before resetting the file
backup_on_repair = false

# Logging: level is debug, info, warn or error; format is text, json or logfmt
log_level = "warn"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
