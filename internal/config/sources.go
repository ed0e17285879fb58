package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/statedir"
)

// projectConfigNames are checked in order in the current directory.
var projectConfigNames = []string{
	"tasklist.toml",
	".tasklist.toml",
	statedir.ConfigPath(""),
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasklist/tasklist.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, statedir.Dir, statedir.ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		path := filepath.Join(cfgDir, "tasklist", statedir.ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.StoreFile = DefaultStoreFile
	cfg.SQLiteFile = DefaultSQLiteFile
	cfg.RedisAddr = DefaultRedisAddr
	cfg.KeyPrefix = DefaultKeyPrefix
	cfg.QuotaBytes = DefaultQuotaBytes
	cfg.Locale = locale.Default
	cfg.ErrorTimeout = DefaultErrorTimeout

	// Logging defaults
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// ConfigFile returns the config file with the highest precedence that was
// read, or "".
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
