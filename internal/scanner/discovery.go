package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// discoverFLPFiles recursively enumerates files under root whose extension
// is "flp" case-insensitively, skipping symlinks, then drops any path
// matching one of ignorePatterns (doublestar globs, relative to root).
// The full list is materialized before scanning starts so
// `scan:started{total}` can report an exact count.
func discoverFLPFiles(root string, ignorePatterns []string) ([]string, error) {
	var out []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry: skip, don't abort the whole walk
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil // never follow symlinks
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".flp") {
			return nil
		}
		if matchesIgnore(root, path, ignorePatterns) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func matchesIgnore(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
