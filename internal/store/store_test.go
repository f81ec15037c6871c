package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallybrain/flpvault/internal/flptypes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestOpenCreatesTables(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	assert.Contains(t, names, "files")
	assert.Contains(t, names, "path_index")
	assert.Contains(t, names, "settings")
	assert.Contains(t, names, "song_groups")
	assert.Contains(t, names, "group_files")
}

func TestIsPathFreshAndHashKnown(t *testing.T) {
	s := openTestStore(t)

	fresh, err := s.IsPathFresh("/a.flp", 100, 1000)
	require.NoError(t, err)
	assert.False(t, fresh)

	known, err := s.IsHashKnown("abc123")
	require.NoError(t, err)
	assert.False(t, known)

	meta := &flptypes.FileMetadata{ChannelCount: 1, BPM: floatPtr(128)}
	require.NoError(t, s.UpsertFile("abc123", "/a.flp", 100, 1000, meta))

	fresh, err = s.IsPathFresh("/a.flp", 100, 1000)
	require.NoError(t, err)
	assert.True(t, fresh)

	known, err = s.IsHashKnown("abc123")
	require.NoError(t, err)
	assert.True(t, known)
}

func TestUpsertFilePluginsCombinesGeneratorsAndEffects(t *testing.T) {
	s := openTestStore(t)

	meta := &flptypes.FileMetadata{
		ChannelCount: 2,
		Generators: []flptypes.ChannelInfo{
			{Name: "Kick", PluginName: strPtr("FPC")},
			{Name: "Bass"},
		},
		Effects: []string{"Fruity Reeverb 2"},
	}
	require.NoError(t, s.UpsertFile("h1", "/song.flp", 1, 1, meta))

	files, err := s.ListAllFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"FPC", "Bass", "Fruity Reeverb 2"}, files[0].Plugins)
}

func TestUpsertFileIsIdempotentByHash(t *testing.T) {
	s := openTestStore(t)

	meta := &flptypes.FileMetadata{ChannelCount: 1}
	require.NoError(t, s.UpsertFile("h1", "/a.flp", 1, 1, meta))
	require.NoError(t, s.UpsertFile("h1", "/b.flp", 2, 2, meta))

	files, err := s.ListAllFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/b.flp", files[0].Path)
}

func TestUpdatePathIndexMultiplePathsOneHash(t *testing.T) {
	s := openTestStore(t)

	meta := &flptypes.FileMetadata{ChannelCount: 1}
	require.NoError(t, s.UpsertFile("h1", "/a.flp", 1, 1, meta))
	require.NoError(t, s.UpdatePathIndex("/copy.flp", "h1", 1, 1))

	freshA, err := s.IsPathFresh("/a.flp", 1, 1)
	require.NoError(t, err)
	freshCopy, err := s.IsPathFresh("/copy.flp", 1, 1)
	require.NoError(t, err)
	assert.True(t, freshA)
	assert.True(t, freshCopy)
}

func TestListAllFilesOrderedByPath(t *testing.T) {
	s := openTestStore(t)

	meta := &flptypes.FileMetadata{ChannelCount: 1}
	require.NoError(t, s.UpsertFile("h2", "/zebra.flp", 1, 1, meta))
	require.NoError(t, s.UpsertFile("h1", "/alpha.flp", 1, 1, meta))

	files, err := s.ListAllFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/alpha.flp", files[0].Path)
	assert.Equal(t, "/zebra.flp", files[1].Path)
}

func TestConfirmAndListGroups(t *testing.T) {
	s := openTestStore(t)

	meta := &flptypes.FileMetadata{ChannelCount: 1}
	require.NoError(t, s.UpsertFile("h1", "/a.flp", 1, 1, meta))
	require.NoError(t, s.UpsertFile("h2", "/b.flp", 1, 1, meta))

	ids := []string{"group-1"}
	idx := 0
	next := func() string {
		id := ids[idx]
		idx++
		return id
	}

	err := s.ConfirmGroups([]GroupConfirmation{
		{CanonicalName: "X", FileHashes: []string{"h1", "h2"}, IgnoredHashes: []string{"h2"}},
	}, next)
	require.NoError(t, err)

	groups, err := s.ListConfirmedGroups()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "X", groups[0].CanonicalName)
	assert.Equal(t, []string{"h1"}, groups[0].FileHashes)
	assert.Equal(t, []string{"h2"}, groups[0].IgnoredHashes)
}

func TestClearAllGroups(t *testing.T) {
	s := openTestStore(t)

	meta := &flptypes.FileMetadata{ChannelCount: 1}
	require.NoError(t, s.UpsertFile("h1", "/a.flp", 1, 1, meta))

	n := 0
	next := func() string { n++; return "g1" }
	require.NoError(t, s.ConfirmGroups([]GroupConfirmation{
		{CanonicalName: "X", FileHashes: []string{"h1"}},
	}, next))

	groups, err := s.ListConfirmedGroups()
	require.NoError(t, err)
	require.Len(t, groups, 1)

	require.NoError(t, s.ClearAllGroups())

	groups, err = s.ListConfirmedGroups()
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetSetting("source_folder")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting("source_folder", "/music"))
	v, ok, err := s.GetSetting("source_folder")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/music", v)

	require.NoError(t, s.SetSetting("source_folder", "/music2"))
	v, ok, err = s.GetSetting("source_folder")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/music2", v)
}
