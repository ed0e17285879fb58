// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tasklist/tasklist.toml or OS-specific config directory)
// 3. Project config file (tasklist.toml, .tasklist.toml or .tasklist/tasklist.toml)
// 4. Environment variables (TASKLIST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tasklist/tasklist.toml (preferred)
// - Windows: %APPDATA%\tasklist\tasklist.toml
// - macOS: ~/Library/Application Support/tasklist/tasklist.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tasklist/tasklist.toml or ~/.config/tasklist/tasklist.toml
//
// Relative store paths resolve against the project root, which is the
// working directory unless set explicitly.
package config
