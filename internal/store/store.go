package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wallybrain/flpvault/internal/apperrors"
	"github.com/wallybrain/flpvault/internal/flptypes"
)

// DBFileName is the database filename inside the per-user application-data
// directory.
const DBFileName = "flp-vault.db"

// Store wraps a single SQLite connection behind a process-wide mutex. One
// connection under a mutex is the simplest correct design given WAL mode
// and the absence of long-running transactions.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates appDataDir if absent, opens (or creates) the database file
// inside it, applies the required pragmas, and runs the schema migration.
func Open(appDataDir string) (*Store, error) {
	if err := os.MkdirAll(appDataDir, 0o755); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeStore, "open", err).WithPath(appDataDir)
	}

	dbPath := filepath.Join(appDataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeStore, "open", err).WithPath(dbPath)
	}
	db.SetMaxOpenConns(1) // single connection, serialized by our own mutex too

	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, apperrors.New(apperrors.ErrorTypeStore, "pragmas", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.New(apperrors.ErrorTypeStore, "migrate", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsPathFresh reports whether path_index has an exact (path, size, mtime)
// match.
func (s *Store) IsPathFresh(path string, size, mtime int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM path_index WHERE path = ? AND file_size = ? AND mtime = ?`,
		path, size, mtime,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.New(apperrors.ErrorTypeStore, "is_path_fresh", err).WithPath(path)
	}
	return true, nil
}

// IsHashKnown reports whether `files` already has a row for hash.
func (s *Store) IsHashKnown(hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow(`SELECT 1 FROM files WHERE hash = ?`, hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.New(apperrors.ErrorTypeStore, "is_hash_known", err).WithHash(hash)
	}
	return true, nil
}

// UpsertFile inserts-or-updates the `files` row for hash, then refreshes
// path_index for path.
func (s *Store) UpsertFile(hash, path string, size, mtime int64, meta *flptypes.FileMetadata) error {
	plugins := make([]string, 0, len(meta.Generators)+len(meta.Effects))
	for _, g := range meta.Generators {
		if g.PluginName != nil {
			plugins = append(plugins, *g.PluginName)
		} else {
			plugins = append(plugins, g.Name)
		}
	}
	plugins = append(plugins, meta.Effects...)

	pluginsJSON := marshalOrEmpty(plugins)
	warningsJSON := marshalOrEmpty(meta.Warnings)
	parsedAt := time.Now().Unix()

	s.mu.Lock()
	_, err := s.db.Exec(
		`INSERT INTO files (hash, path, file_size, mtime, bpm, time_sig_num, time_sig_den,
			channel_count, pattern_count, mixer_track_count, plugins_json, warnings_json,
			fl_version, parsed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET
			path = excluded.path,
			file_size = excluded.file_size,
			mtime = excluded.mtime,
			bpm = excluded.bpm,
			time_sig_num = excluded.time_sig_num,
			time_sig_den = excluded.time_sig_den,
			channel_count = excluded.channel_count,
			pattern_count = excluded.pattern_count,
			mixer_track_count = excluded.mixer_track_count,
			plugins_json = excluded.plugins_json,
			warnings_json = excluded.warnings_json,
			fl_version = excluded.fl_version,
			parsed_at = excluded.parsed_at`,
		hash, path, size, mtime,
		nullableFloat(meta.BPM), nullableUint8(meta.TimeSigNum), nullableUint8(meta.TimeSigDen),
		int64(meta.ChannelCount), int64(meta.PatternCount), int64(meta.MixerTrackCount),
		pluginsJSON, warningsJSON, nullableString(meta.FLVersion), parsedAt,
	)
	s.mu.Unlock()
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "upsert_file", err).WithHash(hash).WithPath(path)
	}

	return s.UpdatePathIndex(path, hash, size, mtime)
}

// UpdatePathIndex upserts path_index keyed by path.
func (s *Store) UpdatePathIndex(path, hash string, size, mtime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO path_index (path, hash, file_size, mtime) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, file_size = excluded.file_size, mtime = excluded.mtime`,
		path, hash, size, mtime,
	)
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "update_path_index", err).WithPath(path).WithHash(hash)
	}
	return nil
}

// ListAllFiles returns every FileRecord ordered by path ascending.
func (s *Store) ListAllFiles() ([]FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT hash, path, file_size, mtime, bpm, time_sig_num, time_sig_den,
			channel_count, pattern_count, mixer_track_count, plugins_json,
			warnings_json, fl_version, parsed_at
		 FROM files ORDER BY path ASC`,
	)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeStore, "list_all_files", err)
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var rec FileRecord
		var pluginsJSON, warningsJSON sql.NullString
		if err := rows.Scan(
			&rec.Hash, &rec.Path, &rec.FileSize, &rec.Mtime, &rec.BPM,
			&rec.TimeSigNum, &rec.TimeSigDen, &rec.ChannelCount, &rec.PatternCount,
			&rec.MixerTrackCount, &pluginsJSON, &warningsJSON, &rec.FLVersion, &rec.ParsedAt,
		); err != nil {
			return nil, apperrors.New(apperrors.ErrorTypeStore, "list_all_files", err)
		}
		rec.Plugins = unmarshalOrEmpty(pluginsJSON)
		rec.Warnings = unmarshalOrEmpty(warningsJSON)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeStore, "list_all_files", err)
	}
	return out, nil
}

// ConfirmGroups persists confirmations in a single transaction: for each
// one, mint a group_id, insert the song_groups row, then insert one
// group_files row per file_hash (is_ignored reflecting membership in
// ignored_hashes), then `INSERT OR IGNORE` the ignored-only hashes.
func (s *Store) ConfirmGroups(groups []GroupConfirmation, newGroupID func() string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "confirm_groups", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	for _, g := range groups {
		groupID := newGroupID()

		if _, err := tx.Exec(
			`INSERT INTO song_groups (group_id, canonical_name, confirmed_at, is_ignored) VALUES (?, ?, ?, 0)`,
			groupID, g.CanonicalName, now,
		); err != nil {
			return apperrors.New(apperrors.ErrorTypeStore, "confirm_groups", err)
		}

		ignored := make(map[string]bool, len(g.IgnoredHashes))
		for _, h := range g.IgnoredHashes {
			ignored[h] = true
		}

		for _, hash := range g.FileHashes {
			isIgnored := 0
			if ignored[hash] {
				isIgnored = 1
			}
			if _, err := tx.Exec(
				`INSERT INTO group_files (hash, group_id, is_ignored, manually_assigned, assigned_at) VALUES (?, ?, ?, 0, ?)`,
				hash, groupID, isIgnored, now,
			); err != nil {
				return apperrors.New(apperrors.ErrorTypeStore, "confirm_groups", err).WithHash(hash)
			}
		}

		fileHashes := make(map[string]bool, len(g.FileHashes))
		for _, h := range g.FileHashes {
			fileHashes[h] = true
		}
		for _, hash := range g.IgnoredHashes {
			if fileHashes[hash] {
				continue
			}
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO group_files (hash, group_id, is_ignored, manually_assigned, assigned_at) VALUES (?, ?, 1, 0, ?)`,
				hash, groupID, now,
			); err != nil {
				return apperrors.New(apperrors.ErrorTypeStore, "confirm_groups", err).WithHash(hash)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "confirm_groups", err)
	}
	return nil
}

// ListConfirmedGroups joins song_groups and group_files, aggregated by
// group_id, sorted by canonical_name then group_id.
func (s *Store) ListConfirmedGroups() ([]ConfirmedGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT sg.group_id, sg.canonical_name, gf.hash, gf.is_ignored
		 FROM song_groups sg
		 JOIN group_files gf ON sg.group_id = gf.group_id
		 ORDER BY sg.canonical_name, sg.group_id, gf.hash`,
	)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeStore, "list_confirmed_groups", err)
	}
	defer rows.Close()

	order := []string{}
	byID := map[string]*ConfirmedGroup{}

	for rows.Next() {
		var groupID, canonicalName, hash string
		var isIgnored int
		if err := rows.Scan(&groupID, &canonicalName, &hash, &isIgnored); err != nil {
			return nil, apperrors.New(apperrors.ErrorTypeStore, "list_confirmed_groups", err)
		}
		g, ok := byID[groupID]
		if !ok {
			g = &ConfirmedGroup{GroupID: groupID, CanonicalName: canonicalName}
			byID[groupID] = g
			order = append(order, groupID)
		}
		if isIgnored == 1 {
			g.IgnoredHashes = append(g.IgnoredHashes, hash)
		} else {
			g.FileHashes = append(g.FileHashes, hash)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeStore, "list_confirmed_groups", err)
	}

	out := make([]ConfirmedGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

// ClearAllGroups deletes group_files then song_groups in one transaction.
func (s *Store) ClearAllGroups() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "clear_all_groups", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM group_files`); err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "clear_all_groups", err)
	}
	if _, err := tx.Exec(`DELETE FROM song_groups`); err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "clear_all_groups", err)
	}
	return tx.Commit()
}

// GetSetting returns the raw string value for key, or ok=false if unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.New(apperrors.ErrorTypeStore, "get_setting", err)
	}
	return value, true, nil
}

// SetSetting upserts key/value.
func (s *Store) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeStore, "set_setting", err)
	}
	return nil
}

func marshalOrEmpty(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalOrEmpty(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil
	}
	return out
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableUint8(v *uint8) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
