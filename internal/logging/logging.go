// Package logging builds charmbracelet/log loggers and manages per-run log
// files for interactive sessions.
package logging

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogExt is the extension of run log files.
const LogExt = ".log"

// Options holds logger settings as loaded from configuration.
type Options struct {
	Level      string
	Format     string
	Timestamps bool
	Caller     bool
	Prefix     string
}

// New creates a logger that writes to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	})
}

// ParseLevel maps a level name to a log.Level. Unknown names mean info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a format name to a log.Formatter. Unknown names mean
// text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// RunLog is the log file of a single interactive session.
type RunLog struct {
	Dir   string
	RunID string
	Path  string
	file  *os.File
}

// OpenRunLog creates <baseDir>/<project-slug>/<run-id>.log. Relative base
// directories resolve against workDir.
func OpenRunLog(baseDir, workDir string) (*RunLog, error) {
	dir, err := ProjectLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID()
	path := filepath.Join(dir, id+LogExt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLog{
		Dir:   dir,
		RunID: id,
		Path:  path,
		file:  file,
	}, nil
}

// Writer returns the log file.
func (r *RunLog) Writer() io.Writer {
	return r.file
}

// Close closes the log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// ProjectLogDir returns the directory holding run logs for workDir.
func ProjectLogDir(baseDir, workDir string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if workDir == "" {
		workDir = "."
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(workDir, baseDir)
	}
	return filepath.Join(filepath.Clean(baseDir), projectSlug(workDir)), nil
}

func projectSlug(root string) string {
	sum := sha1.Sum([]byte(root))
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(root)), hex.EncodeToString(sum[:])[:8])
}

func slugify(input string) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "project"
	}
	return slug
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// Run describes one run log file.
type Run struct {
	RunID   string
	Path    string
	Size    int64
	ModTime time.Time
}

// FindRuns lists the run logs in logDir, newest first. A missing directory
// yields no runs.
func FindRuns(logDir string) ([]Run, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var runs []Run
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, LogExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, Run{
			RunID:   strings.TrimSuffix(name, LogExt),
			Path:    filepath.Join(logDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].RunID > runs[j].RunID
		}
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}

// FindLatestLog returns the newest run log in logDir, or "" if there is none.
func FindLatestLog(logDir string) (string, error) {
	runs, err := FindRuns(logDir)
	if err != nil || len(runs) == 0 {
		return "", err
	}
	return runs[0].Path, nil
}

// TailLog copies the last n lines of path to w (all lines when n <= 0). With
// follow set it keeps copying appended data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if err := writeLastLines(w, file, n); err != nil {
		return err
	}
	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file)
}

// writeLastLines keeps a ring of the last n lines and leaves file at EOF.
func writeLastLines(w io.Writer, file *os.File, n int) error {
	if n <= 0 {
		_, err := io.Copy(w, file)
		return err
	}

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	for _, line := range ring {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

const followInterval = 100 * time.Millisecond

func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
