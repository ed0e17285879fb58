package config

import (
	"strconv"
	"time"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/statedir"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/utils"
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

// ConfigWithSources holds configuration along with the source of each key.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultBackend      = storage.BackendFile
	DefaultRedisAddr    = "localhost:6379"
	DefaultKeyPrefix    = ""
	DefaultQuotaBytes   = 5 * 1024 * 1024
	DefaultErrorTimeout = 3 * time.Second
	DefaultLogDir       = "~/.tasklist/logs"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// DefaultStoreFile and DefaultSQLiteFile are relative to the project root.
var (
	DefaultStoreFile  = statedir.StorePath("")
	DefaultSQLiteFile = statedir.SQLitePath("")
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	Backend       string `toml:"backend"`
	StoreFile     string `toml:"store_file"`
	SQLiteFile    string `toml:"sqlite_file"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	RedisPassword string `toml:"redis_password"`
	KeyPrefix     string `toml:"key_prefix"`
	QuotaBytes    int64  `toml:"quota_bytes"`

	// Interface
	Locale       string        `toml:"locale"`
	ErrorTimeout time.Duration `toml:"error_timeout"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the configurable keys for source tracking.
func configFields() []string {
	return []string{
		"backend",
		"store_file",
		"sqlite_file",
		"redis_addr",
		"redis_db",
		"redis_password",
		"key_prefix",
		"quota_bytes",
		"locale",
		"error_timeout",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Storage returns the backend settings for storage.Open.
func (c *Config) Storage() storage.BackendConfig {
	return storage.BackendConfig{
		Backend:       c.Backend,
		FilePath:      c.StoreFile,
		SQLitePath:    c.SQLiteFile,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		QuotaBytes:    c.QuotaBytes,
	}
}

// Logging returns logger options with the given prefix.
func (c *Config) Logging(prefix string) logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		Timestamps: c.LogTimestamps,
		Caller:     c.LogCaller,
		Prefix:     prefix,
	}
}

// Messages returns the message catalog for the configured locale. Locale
// may list several tags in order of preference, such as "de, en".
func (c *Config) Messages() locale.Messages {
	return locale.Lookup(utils.SplitAndTrim(c.Locale, ",")...)
}

// Values returns each configurable key with its current value as text.
// The Redis password is masked.
func (c *Config) Values() map[string]string {
	password := ""
	if c.RedisPassword != "" {
		password = "****"
	}
	return map[string]string{
		"backend":        c.Backend,
		"store_file":     c.StoreFile,
		"sqlite_file":    c.SQLiteFile,
		"redis_addr":     c.RedisAddr,
		"redis_db":       strconv.Itoa(c.RedisDB),
		"redis_password": password,
		"key_prefix":     c.KeyPrefix,
		"quota_bytes":    strconv.FormatInt(c.QuotaBytes, 10),
		"locale":         c.Locale,
		"error_timeout":  c.ErrorTimeout.String(),
		"log_dir":        c.LogDir,
		"log_level":      c.LogLevel,
		"log_format":     c.LogFormat,
		"log_timestamps": strconv.FormatBool(c.LogTimestamps),
		"log_caller":     strconv.FormatBool(c.LogCaller),
	}
}
