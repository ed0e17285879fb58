package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// kvEntry is one row of the kv_entries table.
type kvEntry struct {
	Name  string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// TableName implements gorm's tabler interface.
func (kvEntry) TableName() string {
	return "kv_entries"
}

// SQLiteKV stores keys as rows of a SQLite table.
type SQLiteKV struct {
	db    *gorm.DB
	quota int64
}

// OpenSQLiteKV opens (creating if needed) the database at path and migrates
// the kv_entries table. Use ":memory:" for a throwaway database.
func OpenSQLiteKV(path string, quotaBytes int64) (*SQLiteKV, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return NewSQLiteKV(db, quotaBytes)
}

// NewSQLiteKV wraps an open gorm database.
func NewSQLiteKV(db *gorm.DB, quotaBytes int64) (*SQLiteKV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &SQLiteKV{db: db, quota: quotaBytes}, nil
}

// Get implements KV.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	if err := s.db.WithContext(ctx).First(&entry, "name = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set implements KV.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	return s.SetAll(ctx, map[string]string{key: value})
}

// SetAll implements KV. The quota check and the upserts share one
// transaction.
func (s *SQLiteKV) SetAll(ctx context.Context, updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}
	names := sortedNames(updates)
	rows := make([]kvEntry, 0, len(names))
	size := 0
	for _, name := range names {
		rows = append(rows, kvEntry{Name: name, Value: updates[name]})
		size += len(name) + len(updates[name])
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.quota > 0 {
			var others int64
			if err := tx.Model(&kvEntry{}).
				Where("name NOT IN ?", names).
				Select("COALESCE(SUM(LENGTH(name) + LENGTH(value)), 0)").
				Scan(&others).Error; err != nil {
				return fmt.Errorf("measure stored data: %w", err)
			}
			if err := checkQuota(s.quota, int(others)+size); err != nil {
				return err
			}
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("write keys %v: %w", names, err)
		}
		return nil
	})
}

// Close implements KV.
func (s *SQLiteKV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
