package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags

# Storage backend: file, sqlite, redis or memory
backend = "file"

# JSON store for the file backend (relative to the project root)
store_file = ".tasklist/tasks.json"

# Database for the sqlite backend
sqlite_file = ".tasklist/tasks.db"

# Redis backend
redis_addr = "localhost:6379"
redis_db = 0
# redis_password = ""

# Prefix added to the "tasks" and "taskIdCounter" keys
key_prefix = ""

# Storage quota in bytes (0 = unlimited); saves beyond it fail
quota_bytes = 5242880

# Message language: fr or en, or a preference list such as "de, en"
locale = "fr"

# How long error messages stay visible
error_timeout = "3s"

# Log directory for terminal UI sessions (supports ~ expansion)
log_dir = "~/.tasklist/logs"

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
