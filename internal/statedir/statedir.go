// Package statedir provides constants and helpers for the .tasklist
// directory that holds a project's task data and config.
package statedir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the project state directory.
	Dir = ".tasklist"

	// StoreFile is the default file backend store (inside .tasklist).
	StoreFile = "tasks.json"

	// SQLiteFile is the default SQLite database (inside .tasklist).
	SQLiteFile = "tasks.db"

	// ConfigFile is the project config file name (inside .tasklist).
	ConfigFile = "tasklist.toml"
)

// StorePath returns the default store file path within a work directory.
func StorePath(workDir string) string {
	return joinPath(workDir, StoreFile)
}

// SQLitePath returns the default database path within a work directory.
func SQLitePath(workDir string) string {
	return joinPath(workDir, SQLiteFile)
}

// ConfigPath returns the project config path within a work directory.
func ConfigPath(workDir string) string {
	return joinPath(workDir, ConfigFile)
}

// DirPath returns the state directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

// Ensure creates the state directory if needed and returns its path.
func Ensure(workDir string) (string, error) {
	dir := DirPath(workDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", Dir, err)
	}
	return dir, nil
}

func joinPath(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
