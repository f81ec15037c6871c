// Package matcher proposes duplicate/variant groups over a library's
// FileRecords by filename similarity plus BPM and mtime signals.
package matcher

import (
	"path/filepath"
	"strings"
)

var noiseSuffixes = []string{
	"_final", "_old", "_backup", "_copy",
	" final", " old", " backup", " copy",
}

// Normalize reduces a path to a lowercase, noise-stripped, auto-numbering
// -stripped stem. It is idempotent: Normalize(Normalize(x))
// == Normalize(x).
func Normalize(path string) string {
	stem := fileStem(path)
	name := strings.ToLower(stem)

	for _, suffix := range noiseSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = name[:len(name)-len(suffix)]
			break // one pass is sufficient
		}
	}

	for {
		trimmed := strings.TrimRight(name, " ")
		withoutDigits := strings.TrimRight(trimmed, "0123456789")
		if len(withoutDigits) == len(trimmed) {
			name = trimmed
			break
		}
		withoutSep := strings.TrimRight(withoutDigits, "_ ")
		name = withoutSep
		if name == "" {
			break
		}
	}

	return strings.TrimSpace(name)
}

// fileStem returns the filename without its extension; if path has no
// usable stem, the original path is returned unchanged.
func fileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return path
	}
	return base
}
