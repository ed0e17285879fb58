package config

import "flag"

// flagFields maps flag names to the config keys they set.
var flagFields = map[string]string{
	"backend":        "backend",
	"store":          "store_file",
	"sqlite":         "sqlite_file",
	"redis-addr":     "redis_addr",
	"redis-db":       "redis_db",
	"key-prefix":     "key_prefix",
	"quota-bytes":    "quota_bytes",
	"locale":         "locale",
	"error-timeout":  "error_timeout",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, parses args and applies only
// the flags that were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Bind to copies so unset flags never clobber file or env values.
	v := *cfg
	fs.StringVar(&v.Backend, "backend", cfg.Backend, "Storage backend (file|sqlite|redis|memory)")
	fs.StringVar(&v.StoreFile, "store", cfg.StoreFile, "Path to the JSON store file (file backend)")
	fs.StringVar(&v.SQLiteFile, "sqlite", cfg.SQLiteFile, "Path to the SQLite database (sqlite backend)")
	fs.StringVar(&v.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address (redis backend)")
	fs.IntVar(&v.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")
	fs.StringVar(&v.KeyPrefix, "key-prefix", cfg.KeyPrefix, "Prefix for storage keys")
	fs.Int64Var(&v.QuotaBytes, "quota-bytes", cfg.QuotaBytes, "Storage quota in bytes (0 = unlimited)")
	fs.StringVar(&v.Locale, "locale", cfg.Locale, "Message language (fr, en)")
	fs.DurationVar(&v.ErrorTimeout, "error-timeout", cfg.ErrorTimeout, "How long errors stay visible")
	fs.StringVar(&v.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		sources[field] = SourceFlag
		applyField(cfg, &v, field)
	})
	return nil
}

// applyField copies one config key from src to dst.
func applyField(dst, src *Config, field string) {
	switch field {
	case "backend":
		dst.Backend = src.Backend
	case "store_file":
		dst.StoreFile = src.StoreFile
	case "sqlite_file":
		dst.SQLiteFile = src.SQLiteFile
	case "redis_addr":
		dst.RedisAddr = src.RedisAddr
	case "redis_db":
		dst.RedisDB = src.RedisDB
	case "key_prefix":
		dst.KeyPrefix = src.KeyPrefix
	case "quota_bytes":
		dst.QuotaBytes = src.QuotaBytes
	case "locale":
		dst.Locale = src.Locale
	case "error_timeout":
		dst.ErrorTimeout = src.ErrorTimeout
	case "log_dir":
		dst.LogDir = src.LogDir
	case "log_level":
		dst.LogLevel = src.LogLevel
	case "log_format":
		dst.LogFormat = src.LogFormat
	case "log_timestamps":
		dst.LogTimestamps = src.LogTimestamps
	case "log_caller":
		dst.LogCaller = src.LogCaller
	}
}
