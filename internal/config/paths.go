package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// inMemorySQLite is the SQLite DSN for a private in-memory database.
const inMemorySQLite = ":memory:"

// resolvePath expands p and makes it absolute against root.
func resolvePath(root, p string) string {
	p = expandPath(p)
	if p == "" || p == inMemorySQLite || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// expandPath replaces a leading ~ with the home directory and expands
// environment variables ($VAR everywhere, %VAR% on Windows).
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandWindowsEnv(p)
	}

	rest, ok := strings.CutPrefix(p, "~")
	if !ok || (rest != "" && !isHomeSeparator(rest[0])) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest[1:])
}

func isHomeSeparator(c byte) bool {
	return c == '/' || (runtime.GOOS == "windows" && c == '\\')
}

// expandWindowsEnv expands %VAR% references. Unknown variables and a lone
// % are left as written.
func expandWindowsEnv(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			break
		}
		name := p[start+1 : start+1+end]
		b.WriteString(p[:start])
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
			p = p[start+end+2:]
			continue
		}
		// Keep the opening % and rescan from the closing one.
		b.WriteString("%" + name)
		p = p[start+1+end:]
	}
	b.WriteString(p)
	return b.String()
}
