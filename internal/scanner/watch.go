package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wallybrain/flpvault/internal/debug"
)

// debounceWindow coalesces bursts of filesystem events (editors often emit
// several writes for one save) before the fast-path pipeline re-runs for a
// changed path.
const debounceWindow = 300 * time.Millisecond

// Watch starts a live filesystem watch on root after an initial one-shot
// scan, re-running processFile for any .flp path that changes, until
// Cancel is called or stop is closed. It reuses the same progress sink and
// event shapes as Run.
func (sc *Scanner) Watch(root string, ignorePatterns []string, sink ProgressSink, stop <-chan struct{}) error {
	cancelled, err := sc.Run(root, ignorePatterns, sink)
	if err != nil {
		return err
	}
	if cancelled {
		return nil // cancelled during the initial scan; don't start watching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	sc.setRunning(true)
	pending := map[string]*time.Timer{}

	flush := func(path string) {
		if !sc.checkRunning() {
			return
		}
		if !strings.EqualFold(filepath.Ext(path), ".flp") {
			return
		}
		if matchesIgnore(root, path, ignorePatterns) {
			return
		}
		warnings := sc.processFile(path)
		sink.Emit(ScanProgress{Done: 1, Total: 1, Path: path, Warnings: warnings})
	}

	for {
		select {
		case <-stop:
			sc.Cancel()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sc.checkRunning() {
				return nil
			}
			path := event.Name
			if t, exists := pending[path]; exists {
				t.Stop()
			}
			pending[path] = time.AfterFunc(debounceWindow, func() { flush(path) })
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.LogScan("watcher error: %v", watchErr)
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
