package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. It is used for ephemeral
// sessions and tests.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
	quota   int64
}

// NewMemoryKV returns an empty MemoryKV. The quota bounds the sum of all
// key and value lengths.
func NewMemoryKV(quotaBytes int64) *MemoryKV {
	return &MemoryKV{
		entries: make(map[string]string),
		quota:   quotaBytes,
	}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	return m.SetAll(ctx, map[string]string{key: value})
}

// SetAll implements KV.
func (m *MemoryKV) SetAll(_ context.Context, updates map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := 0
	for k, v := range updates {
		size += len(k) + len(v)
	}
	for k, v := range m.entries {
		if _, ok := updates[k]; !ok {
			size += len(k) + len(v)
		}
	}
	if err := checkQuota(m.quota, size); err != nil {
		return err
	}
	for k, v := range updates {
		m.entries[k] = v
	}
	return nil
}

// Close implements KV.
func (m *MemoryKV) Close() error {
	return nil
}
