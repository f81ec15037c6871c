package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallybrain/flpvault/internal/store"
)

type recordingSink struct {
	events []any
}

func (r *recordingSink) Emit(event any) { r.events = append(r.events, event) }

func writeMinimalFLP(t *testing.T, path string) {
	t.Helper()
	buf := append([]byte{}, "FLhd"...)
	buf = append(buf, 6, 0, 0, 0) // header_size
	buf = append(buf, 0, 0)       // format
	buf = append(buf, 1, 0)       // channel_count
	buf = append(buf, 96, 0)      // ppq
	buf = append(buf, "FLdt"...)
	buf = append(buf, 0, 0, 0, 0) // data_size
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func TestDiscoverFLPFilesCaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.FLP"), []byte{}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte{}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.flp"), []byte{}, 0o644))

	files, err := discoverFLPFiles(dir, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverFLPFilesAppliesIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Backup"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Backup", "old.flp"), []byte{}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.flp"), []byte{}, 0o644))

	files, err := discoverFLPFiles(dir, []string{"**/Backup/**"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.flp"), files[0])
}

func TestScanProducesFileRowsAndSingleScanCompleteEvent(t *testing.T) {
	dir := t.TempDir()
	writeMinimalFLP(t, filepath.Join(dir, "song.flp"))

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	sc := New(s)
	sink := &recordingSink{}
	cancelled, err := sc.Run(dir, nil, sink)
	require.NoError(t, err)
	assert.False(t, cancelled)

	require.IsType(t, ScanStarted{}, sink.events[0])
	require.IsType(t, ScanComplete{}, sink.events[len(sink.events)-1])

	files, err := s.ListAllFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestScanIdempotentOnUnchangedTree(t *testing.T) {
	dir := t.TempDir()
	writeMinimalFLP(t, filepath.Join(dir, "song.flp"))

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	sc := New(s)
	_, err = sc.Run(dir, nil, &recordingSink{})
	require.NoError(t, err)

	before, err := s.ListAllFiles()
	require.NoError(t, err)

	sink2 := &recordingSink{}
	_, err = sc.Run(dir, nil, sink2)
	require.NoError(t, err)

	after, err := s.ListAllFiles()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	progressCount := 0
	for _, e := range sink2.events {
		if _, ok := e.(ScanProgress); ok {
			progressCount++
		}
	}
	assert.Equal(t, 1, progressCount)
}

func TestScanCancellationStopsBeforeComplete(t *testing.T) {
	dir := t.TempDir()
	writeMinimalFLP(t, filepath.Join(dir, "a.flp"))
	writeMinimalFLP(t, filepath.Join(dir, "b.flp"))

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	sc := New(s)
	sink := &recordingSink{}
	wrapped := ProgressFunc(func(event any) {
		sink.Emit(event)
		if _, ok := event.(ScanStarted); ok {
			sc.Cancel() // cancel right after discovery, before any file is processed
		}
	})

	cancelled, err := sc.Run(dir, nil, wrapped)
	require.NoError(t, err)
	assert.True(t, cancelled)

	last := sink.events[len(sink.events)-1]
	assert.IsType(t, ScanCancelled{}, last)
}

func TestScanSkipsSymlinkedDirectories(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	writeMinimalFLP(t, filepath.Join(other, "outside.flp"))

	link := filepath.Join(dir, "link")
	if err := os.Symlink(other, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := discoverFLPFiles(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
