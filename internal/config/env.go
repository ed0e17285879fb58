package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nibzard/tasklist-go/internal/utils"
)

// EnvPrefix prefixes every environment variable read by loadFromEnv.
const EnvPrefix = "TASKLIST_"

// loadFromEnv overrides config from TASKLIST_* environment variables and
// records their source. Malformed numbers and durations are errors.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	lookup := func(field, name string) (string, bool) {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			return "", false
		}
		sources[field] = SourceEnv
		return v, true
	}

	if v, ok := lookup("backend", "BACKEND"); ok {
		cfg.Backend = v
	}
	if v, ok := lookup("store_file", "STORE"); ok {
		cfg.StoreFile = v
	}
	if v, ok := lookup("sqlite_file", "SQLITE"); ok {
		cfg.SQLiteFile = v
	}
	if v, ok := lookup("redis_addr", "REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := lookup("redis_db", "REDIS_DB"); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			return envError("REDIS_DB", v, err)
		}
		cfg.RedisDB = i
	}
	if v, ok := lookup("redis_password", "REDIS_PASSWORD"); ok {
		cfg.RedisPassword = v
	}
	if v, ok := lookup("key_prefix", "KEY_PREFIX"); ok {
		cfg.KeyPrefix = v
	}
	if v, ok := lookup("quota_bytes", "QUOTA_BYTES"); ok {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return envError("QUOTA_BYTES", v, err)
		}
		cfg.QuotaBytes = i
	}
	if v, ok := lookup("locale", "LOCALE"); ok {
		cfg.Locale = v
	}
	if v, ok := lookup("error_timeout", "ERROR_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("ERROR_TIMEOUT", v, err)
		}
		cfg.ErrorTimeout = d
	}

	// Logging configuration
	if v, ok := lookup("log_dir", "LOG_DIR"); ok {
		cfg.LogDir = v
	}
	if v, ok := lookup("log_level", "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("log_format", "LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup("log_timestamps", "LOG_TIMESTAMPS"); ok {
		cfg.LogTimestamps = utils.ParseBool(v)
	}
	if v, ok := lookup("log_caller", "LOG_CALLER"); ok {
		cfg.LogCaller = utils.ParseBool(v)
	}
	return nil
}

func envError(name, value string, err error) error {
	return fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, name, value, err)
}
