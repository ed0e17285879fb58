package statedir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name    string
		workDir string
		fn      func(string) string
		want    string
	}{
		{"store in cwd", "", StorePath, filepath.Join(".tasklist", "tasks.json")},
		{"store dot", ".", StorePath, filepath.Join(".tasklist", "tasks.json")},
		{"sqlite", "/srv/app", SQLitePath, filepath.Join("/srv/app", ".tasklist", "tasks.db")},
		{"config", "/srv/app", ConfigPath, filepath.Join("/srv/app", ".tasklist", "tasklist.toml")},
		{"dir", "/srv/app", DirPath, filepath.Join("/srv/app", ".tasklist")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.workDir); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsure(t *testing.T) {
	work := t.TempDir()
	dir, err := Ensure(work)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("state dir not created: %v", err)
	}
	if _, err := Ensure(work); err != nil {
		t.Errorf("second Ensure failed: %v", err)
	}
}
