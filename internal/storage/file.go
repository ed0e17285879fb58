package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileKV stores all keys in a single JSON object file. Every Set rewrites
// the whole file through a temporary file and a rename.
type FileKV struct {
	path  string
	quota int64
}

// NewFileKV returns a FileKV backed by path. The file and its parent
// directory are created on the first Set.
func NewFileKV(path string, quotaBytes int64) (*FileKV, error) {
	if path == "" {
		return nil, fmt.Errorf("store file path is empty")
	}
	return &FileKV{path: path, quota: quotaBytes}, nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

// Get implements KV.
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	entries, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set implements KV.
func (f *FileKV) Set(ctx context.Context, key, value string) error {
	return f.SetAll(ctx, map[string]string{key: value})
}

// SetAll implements KV. All entries land in one document write, so the
// quota check and the rename cover them together.
func (f *FileKV) SetAll(_ context.Context, updates map[string]string) error {
	entries, err := f.read()
	if err != nil {
		// An unreadable document is replaced rather than blocking writes.
		entries = map[string]string{}
	}
	for key, value := range updates {
		entries[key] = value
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}
	data = append(data, '\n')
	if err := checkQuota(f.quota, len(data)); err != nil {
		return err
	}

	return writeFileAtomic(f.path, data)
}

// Close implements KV.
func (f *FileKV) Close() error {
	return nil
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
