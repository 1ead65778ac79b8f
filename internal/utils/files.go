package utils

import "strings"

// SanitizeFilename reduces a client-supplied filename to a bare name
// safe to join under a base directory: path components are stripped
// (both separators, since browsers on Windows send backslashes) and
// characters that are problematic on common filesystems are removed.
// ok is false when nothing usable remains.
func SanitizeFilename(name string) (string, bool) {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "", false
	}
	return out, true
}
