package store

import (
	"os"
	"path/filepath"
)

// Setting keys stored in the `settings` table.
const (
	KeySourceFolder       = "source_folder"
	KeyOrganizedFolder    = "organized_folder"
	KeyOriginalsFolder    = "originals_folder"
	KeyGroupingThreshold  = "grouping_threshold"
	KeyScanIgnorePatterns = "scan_ignore_patterns"
)

// DefaultGroupingThreshold is τ when the setting is absent or unparsable.
const DefaultGroupingThreshold = 0.65

// documentsDir resolves a user's documents folder with a three-step
// fallback: documents dir, then home dir, then ".".
func documentsDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		docs := filepath.Join(home, "Documents")
		if info, err := os.Stat(docs); err == nil && info.IsDir() {
			return docs
		}
		return home
	}
	return "."
}

func defaultSourceFolder() string {
	return filepath.Join(documentsDir(), "Image-Line", "FL Studio", "Projects")
}

func defaultOrganizedFolder() string {
	return filepath.Join(documentsDir(), "FLP Vault")
}

func defaultOriginalsFolder() string {
	return filepath.Join(documentsDir(), "FLP Vault Originals")
}

// DefaultSourceFolder, DefaultOrganizedFolder and DefaultOriginalsFolder
// are exported so the facade can fill in missing settings.
var (
	DefaultSourceFolder    = defaultSourceFolder
	DefaultOrganizedFolder = defaultOrganizedFolder
	DefaultOriginalsFolder = defaultOriginalsFolder
)
