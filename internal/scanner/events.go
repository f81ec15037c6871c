// Package scanner walks a root directory for .flp files, applying the
// two-level cache (path_index, files) before hashing and parsing, and
// emits progress events as it goes.
package scanner

// ScanStarted is emitted once discovery finishes, before any file is
// processed.
type ScanStarted struct {
	Total int
}

// ScanProgress is emitted once per file, in discovery order.
type ScanProgress struct {
	Done     int
	Total    int
	Path     string
	Warnings []string
}

// ScanComplete is emitted once the loop finishes without cancellation.
type ScanComplete struct {
	Total int
}

// ScanCancelled is emitted instead of ScanComplete when the running flag
// was observed unset mid-scan.
type ScanCancelled struct {
	Done int
}

// ProgressSink receives scan events non-blockingly; a dropped event must
// never stall the pipeline, so
// implementations are expected to be cheap (e.g. a buffered channel send
// with a default case) rather than something the scanner waits on.
type ProgressSink interface {
	Emit(event any)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(event any)

func (f ProgressFunc) Emit(event any) { f(event) }
