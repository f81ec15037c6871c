package scanner

import (
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/wallybrain/flpvault/internal/debug"
	"github.com/wallybrain/flpvault/internal/flp"
	"github.com/wallybrain/flpvault/internal/flptypes"
	"github.com/wallybrain/flpvault/internal/store"
)

// Scanner owns the cooperative cancellation flag (the running flag).
// Exactly one scan is expected in flight per process; the facade is
// responsible for not starting a second one concurrently.
type Scanner struct {
	store *store.Store

	mu      sync.Mutex
	running bool
}

// New builds a Scanner backed by s.
func New(s *store.Store) *Scanner {
	return &Scanner{store: s}
}

// Cancel clears the running flag. The scanner observes it between files,
// never mid-file.
func (sc *Scanner) Cancel() {
	sc.mu.Lock()
	sc.running = false
	sc.mu.Unlock()
}

// IsRunning reports whether a scan is currently marked in-flight.
func (sc *Scanner) IsRunning() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.running
}

func (sc *Scanner) setRunning(v bool) {
	sc.mu.Lock()
	sc.running = v
	sc.mu.Unlock()
}

func (sc *Scanner) checkRunning() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.running
}

// Run walks root, applies the cache/hash/parse pipeline to each discovered
// .flp file in order, and emits progress to sink. It blocks until the scan
// completes or is cancelled; callers that want scan_folder's
// "returns immediately" contract run this on their own goroutine
//. The returned bool is true iff the scan ended
// via cancellation rather than running to completion.
func (sc *Scanner) Run(root string, ignorePatterns []string, sink ProgressSink) (cancelled bool, err error) {
	sc.setRunning(true)
	defer sc.setRunning(false)

	files, err := discoverFLPFiles(root, ignorePatterns)
	if err != nil {
		return false, err
	}

	total := len(files)
	sink.Emit(ScanStarted{Total: total})

	done := 0
	for _, path := range files {
		if !sc.checkRunning() {
			sink.Emit(ScanCancelled{Done: done})
			return true, nil
		}

		warnings := sc.processFile(path)
		done++
		sink.Emit(ScanProgress{Done: done, Total: total, Path: path, Warnings: warnings})
	}

	sink.Emit(ScanComplete{Total: total})
	return false, nil
}

// processFile runs the per-file cache-check/hash/parse/persist pipeline
// and returns the warnings to attach to that file's progress event. Errors
// from the store are logged rather than aborting the scan; a failed upsert
// also adds a warning to the list — one bad file, including one that can't
// be persisted, must never stop a large scan.
func (sc *Scanner) processFile(path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		return []string{"Failed to read file metadata"}
	}
	size := info.Size()
	mtime := info.ModTime().Unix()

	fresh, err := sc.store.IsPathFresh(path, size, mtime)
	if err != nil {
		debug.LogStore("is_path_fresh failed for %s: %v", path, err)
	} else if fresh {
		return nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Failed to read file: %v", err)}
	}

	hash := fmt.Sprintf("%016x", xxhash.Sum64(bytes))

	known, err := sc.store.IsHashKnown(hash)
	if err != nil {
		debug.LogStore("is_hash_known failed for %s: %v", hash, err)
	} else if known {
		if err := sc.store.UpdatePathIndex(path, hash, size, mtime); err != nil {
			debug.LogStore("update_path_index failed for %s: %v", path, err)
		}
		return nil
	}

	meta, parseErr := flp.Parse(bytes)
	var warnings []string
	if parseErr != nil {
		warning := fmt.Sprintf("Parse error: %v", parseErr)
		meta = &flptypes.FileMetadata{Warnings: []string{warning}}
		warnings = []string{warning}
	} else {
		warnings = meta.Warnings
	}

	if err := sc.store.UpsertFile(hash, path, size, mtime, meta); err != nil {
		debug.LogStore("upsert_file failed for %s: %v", path, err)
		warnings = append(warnings, "Failed to persist parsed metadata")
	}

	return warnings
}
