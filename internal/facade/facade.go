// Package facade exposes the engine's command surface: the
// single entry point `cmd/flpvault` talks to. It owns the scan-running
// state and wires Store, Scanner and Matcher together.
package facade

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/wallybrain/flpvault/internal/matcher"
	"github.com/wallybrain/flpvault/internal/scanner"
	"github.com/wallybrain/flpvault/internal/store"
)

func newGroupID() string {
	return uuid.NewString()
}

// Engine is the facade. One Engine wraps one Store and serializes scan
// lifecycle operations.
type Engine struct {
	store   *store.Store
	scanner *scanner.Scanner

	mu         sync.Mutex
	scanStatus ScanStatus
}

// ScanStatus is the poll-based view of scan progress.
type ScanStatus struct {
	Total   int
	Done    int
	Running bool
}

// New wires an Engine around an already-open Store.
func New(s *store.Store) *Engine {
	return &Engine{
		store:   s,
		scanner: scanner.New(s),
	}
}

// trackingSink updates Engine.scanStatus as events arrive, then forwards
// them to the caller-supplied sink (if any).
func (e *Engine) trackingSink(forward scanner.ProgressSink) scanner.ProgressSink {
	return scanner.ProgressFunc(func(event any) {
		e.mu.Lock()
		switch ev := event.(type) {
		case scanner.ScanStarted:
			e.scanStatus = ScanStatus{Total: ev.Total, Running: true}
		case scanner.ScanProgress:
			e.scanStatus.Done = ev.Done
			e.scanStatus.Total = ev.Total
			e.scanStatus.Running = true
		case scanner.ScanComplete:
			e.scanStatus.Running = false
		case scanner.ScanCancelled:
			e.scanStatus.Done = ev.Done
			e.scanStatus.Running = false
		}
		e.mu.Unlock()

		if forward != nil {
			forward.Emit(event)
		}
	})
}

// ScanFolder starts a background scan over path and returns immediately
//. The caller-supplied sink receives every progress event;
// it may be nil.
func (e *Engine) ScanFolder(path string, sink scanner.ProgressSink) error {
	patterns, err := e.scanIgnorePatterns()
	if err != nil {
		return err
	}
	go func() {
		_, _ = e.scanner.Run(path, patterns, e.trackingSink(sink))
	}()
	return nil
}

// Watch starts ScanFolder's one-shot pass, then a live fsnotify watch
//, running until Cancel or stop fires.
func (e *Engine) Watch(path string, sink scanner.ProgressSink, stop <-chan struct{}) error {
	patterns, err := e.scanIgnorePatterns()
	if err != nil {
		return err
	}
	go func() {
		_ = e.scanner.Watch(path, patterns, e.trackingSink(sink), stop)
	}()
	return nil
}

// CancelScan sets running=false.
func (e *Engine) CancelScan() {
	e.scanner.Cancel()
}

// GetScanStatus returns the last-observed scan progress.
func (e *Engine) GetScanStatus() ScanStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scanStatus
}

// ListScannedFiles returns every persisted FileRecord ordered by path.
func (e *Engine) ListScannedFiles() ([]store.FileRecord, error) {
	return e.store.ListAllFiles()
}

// ProposeGroups reads the grouping_threshold setting (default 0.65) and
// runs the matcher over every persisted file.
func (e *Engine) ProposeGroups() ([]matcher.ProposedGroup, error) {
	files, err := e.store.ListAllFiles()
	if err != nil {
		return nil, err
	}
	threshold := e.groupingThreshold()
	return matcher.ProposeGroups(files, threshold), nil
}

// ConfirmGroups persists caller-approved groups transactionally.
func (e *Engine) ConfirmGroups(groups []store.GroupConfirmation) error {
	return e.store.ConfirmGroups(groups, newGroupID)
}

// ListGroups returns confirmed groups aggregated from both group tables.
func (e *Engine) ListGroups() ([]store.ConfirmedGroup, error) {
	return e.store.ListConfirmedGroups()
}

// ResetGroups clears both group tables.
func (e *Engine) ResetGroups() error {
	return e.store.ClearAllGroups()
}

// GetSettings returns the three folder paths, defaults filled in for
// missing keys.
func (e *Engine) GetSettings() (store.Settings, error) {
	source, err := e.settingOrDefault(store.KeySourceFolder, store.DefaultSourceFolder())
	if err != nil {
		return store.Settings{}, err
	}
	organized, err := e.settingOrDefault(store.KeyOrganizedFolder, store.DefaultOrganizedFolder())
	if err != nil {
		return store.Settings{}, err
	}
	originals, err := e.settingOrDefault(store.KeyOriginalsFolder, store.DefaultOriginalsFolder())
	if err != nil {
		return store.Settings{}, err
	}
	patterns, err := e.scanIgnorePatterns()
	if err != nil {
		return store.Settings{}, err
	}

	return store.Settings{
		SourceFolder:       source,
		OrganizedFolder:    organized,
		OriginalsFolder:    originals,
		GroupingThreshold:  e.groupingThreshold(),
		ScanIgnorePatterns: patterns,
	}, nil
}

// SaveSettings validates folder existence and uniqueness (warnings only,
// never an error) then upserts each key.
func (e *Engine) SaveSettings(s store.Settings) ([]string, error) {
	var warnings []string

	for _, check := range []struct{ label, path string }{
		{"Source folder", s.SourceFolder},
		{"Organized folder", s.OrganizedFolder},
		{"Originals folder", s.OriginalsFolder},
	} {
		if check.path == "" {
			continue
		}
		if _, err := os.Stat(check.path); err != nil {
			warnings = append(warnings, check.label+" does not exist: "+check.path)
		}
	}
	if s.SourceFolder != "" && s.SourceFolder == s.OrganizedFolder {
		warnings = append(warnings, "Source folder and Organized folder are the same path.")
	}
	if s.SourceFolder != "" && s.SourceFolder == s.OriginalsFolder {
		warnings = append(warnings, "Source folder and Originals folder are the same path.")
	}

	if err := e.store.SetSetting(store.KeySourceFolder, s.SourceFolder); err != nil {
		return warnings, err
	}
	if err := e.store.SetSetting(store.KeyOrganizedFolder, s.OrganizedFolder); err != nil {
		return warnings, err
	}
	if err := e.store.SetSetting(store.KeyOriginalsFolder, s.OriginalsFolder); err != nil {
		return warnings, err
	}
	return warnings, nil
}

func (e *Engine) settingOrDefault(key, fallback string) (string, error) {
	v, ok, err := e.store.GetSetting(key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}

// groupingThreshold parses the grouping_threshold setting (stored as TEXT
// like every other setting), falling back to store.DefaultGroupingThreshold
// on absence or parse failure rather than erroring (consistent with the
// facade's "validation never errors" rule for settings).
func (e *Engine) groupingThreshold() float64 {
	v, ok, err := e.store.GetSetting(store.KeyGroupingThreshold)
	if err != nil || !ok {
		return store.DefaultGroupingThreshold
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return store.DefaultGroupingThreshold
	}
	return parsed
}

// scanIgnorePatterns reads the scan_ignore_patterns setting, stored as a
// JSON array of doublestar globs; absence or a
// malformed value is treated as "no ignore patterns" rather than an error.
func (e *Engine) scanIgnorePatterns() ([]string, error) {
	v, ok, err := e.store.GetSetting(store.KeyScanIgnorePatterns)
	if err != nil {
		return nil, err
	}
	if !ok || v == "" {
		return nil, nil
	}
	var patterns []string
	if err := json.Unmarshal([]byte(v), &patterns); err != nil {
		return nil, nil
	}
	return patterns, nil
}

// SetGroupingThreshold persists the matcher's worst-link confidence cutoff
//, stored as TEXT like every other setting.
func (e *Engine) SetGroupingThreshold(threshold float64) error {
	return e.store.SetSetting(store.KeyGroupingThreshold, strconv.FormatFloat(threshold, 'g', -1, 64))
}

// SetScanIgnorePatterns persists the ignore-glob list.
func (e *Engine) SetScanIgnorePatterns(patterns []string) error {
	if patterns == nil {
		patterns = []string{}
	}
	b, err := json.Marshal(patterns)
	if err != nil {
		return err
	}
	return e.store.SetSetting(store.KeyScanIgnorePatterns, string(b))
}
