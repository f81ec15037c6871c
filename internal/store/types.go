package store

// FileRecord is one row of the `files` table: the persisted view of a
// unique content hash.
type FileRecord struct {
	Hash            string
	Path            string
	FileSize        int64
	Mtime           int64
	BPM             *float64
	TimeSigNum      *int64
	TimeSigDen      *int64
	ChannelCount    *int64
	PatternCount    *int64
	MixerTrackCount *int64
	Plugins         []string
	Warnings        []string
	FLVersion       *string
	ParsedAt        int64
}

// ConfirmedGroup is the aggregated view returned by ListConfirmedGroups,
// joined across song_groups and group_files.
type ConfirmedGroup struct {
	GroupID       string
	CanonicalName string
	FileHashes    []string
	IgnoredHashes []string
}

// GroupConfirmation is one caller-supplied group to persist via
// ConfirmGroups.
type GroupConfirmation struct {
	CanonicalName string
	FileHashes    []string
	IgnoredHashes []string
}

// Settings is the three user-facing folder paths, plus the matcher
// threshold and the supplemental ignore-pattern list.
type Settings struct {
	SourceFolder      string
	OrganizedFolder   string
	OriginalsFolder   string
	GroupingThreshold float64
	ScanIgnorePatterns []string
}
