// Package storage persists the task list to a local key-value store.
//
// A KV holds string values under string keys, mirroring a browser profile's
// local storage. The Adapter serializes the task list and id counter into two
// keys and recovers from corrupted values on load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrQuotaExceeded is returned by a KV when a write would exceed its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrSaveFailed wraps any failure of Adapter.Save.
	ErrSaveFailed = errors.New("save tasks")
)

// KV is a synchronous string key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is missing.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// SetAll stores every entry or none of them.
	SetAll(ctx context.Context, entries map[string]string) error
	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// BackendConfig selects and configures a KV backend.
type BackendConfig struct {
	Backend       string
	FilePath      string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// QuotaBytes limits stored data; zero disables the limit.
	QuotaBytes int64
}

// Open creates the KV named by cfg.Backend.
func Open(ctx context.Context, cfg BackendConfig) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		kv, err := NewFileKV(cfg.FilePath, cfg.QuotaBytes)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendSQLite:
		kv, err := OpenSQLiteKV(cfg.SQLitePath, cfg.QuotaBytes)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendRedis:
		kv, err := OpenRedisKV(ctx, RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			QuotaBytes: cfg.QuotaBytes,
		})
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendMemory:
		return NewMemoryKV(cfg.QuotaBytes), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected file|sqlite|redis|memory)", cfg.Backend)
	}
}

// Backends returns the names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendRedis, BackendMemory}
}

func checkQuota(quota int64, size int) error {
	if quota > 0 && int64(size) > quota {
		return fmt.Errorf("%w: %d bytes over limit of %d", ErrQuotaExceeded, size, quota)
	}
	return nil
}

// sortedNames returns the keys of entries in a stable order.
func sortedNames(entries map[string]string) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
