// Package utils provides shared string helpers used across packages.
package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// SplitAndTrim splits a string by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation path.
// For example, "#/foo/bar/0/baz" becomes "foo.bar[0].baz" and "/0/id"
// becomes "[0].id".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		// ~1 is "/" and ~0 is "~"; order matters.
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// TruncateRunes shortens s to at most limit runes, ending with an ellipsis
// when anything was cut.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// ParseBool accepts the usual spellings of true; anything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
