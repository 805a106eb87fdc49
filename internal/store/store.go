// Package store persists the goal list and shift records in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/pickplan/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const metaUpdatedAt = "updated_at"

// Store provides SQLite-backed snapshot persistence.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads every goal in list order and every record by date.
func (s *Store) LoadSnapshot() (model.Snapshot, error) {
	goals, err := s.loadGoals()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("loading goals: %w", err)
	}
	records, err := s.loadRecords()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("loading records: %w", err)
	}
	return model.Snapshot{Goals: goals, Records: records}, nil
}

func (s *Store) loadGoals() ([]model.Goal, error) {
	rows, err := s.db.Query(`SELECT
		id, completed,
		planned_amount, planned_rate, planned_picks, planned_hours,
		planned_date, planned_type, planned_status, planned_note,
		actual_amount, actual_rate, actual_picks, actual_hours,
		actual_date, actual_type, actual_status, actual_note
		FROM goals ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var g model.Goal
		var completed int
		var plannedNote, actualNote sql.NullString
		err := rows.Scan(
			&g.ID, &completed,
			&g.Planned.Amount, &g.Planned.Rate, &g.Planned.Picks, &g.Planned.Hours,
			&g.Planned.Date, &g.Planned.Type, &g.Planned.Status, &plannedNote,
			&g.Actual.Amount, &g.Actual.Rate, &g.Actual.Picks, &g.Actual.Hours,
			&g.Actual.Date, &g.Actual.Type, &g.Actual.Status, &actualNote,
		)
		if err != nil {
			return nil, err
		}
		g.Completed = completed != 0
		g.Planned.Note = plannedNote.String
		g.Actual.Note = actualNote.String
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) loadRecords() ([]model.ShiftRecord, error) {
	rows, err := s.db.Query("SELECT date, amount, picks, rate, shift_type FROM records ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.ShiftRecord
	for rows.Next() {
		var r model.ShiftRecord
		if err := rows.Scan(&r.Date, &r.Amount, &r.Picks, &r.Rate, &r.ShiftType); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveSnapshot replaces the stored goals and records with snap in a single
// transaction. It never merges with what was stored before.
func (s *Store) SaveSnapshot(snap model.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM goals"); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	seen := make(map[string]struct{}, len(snap.Goals))
	for i, g := range snap.Goals {
		if _, dup := seen[g.ID]; dup || g.ID == "" {
			g.ID = uuid.NewString()
		}
		seen[g.ID] = struct{}{}
		completed := 0
		if g.Completed {
			completed = 1
		}
		_, err = tx.Exec(`INSERT INTO goals
			(id, position, completed,
			 planned_amount, planned_rate, planned_picks, planned_hours,
			 planned_date, planned_type, planned_status, planned_note,
			 actual_amount, actual_rate, actual_picks, actual_hours,
			 actual_date, actual_type, actual_status, actual_note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, completed,
			g.Planned.Amount, g.Planned.Rate, g.Planned.Picks, g.Planned.Hours,
			g.Planned.Date, string(g.Planned.Type), string(g.Planned.Status), g.Planned.Note,
			g.Actual.Amount, g.Actual.Rate, g.Actual.Picks, g.Actual.Hours,
			g.Actual.Date, string(g.Actual.Type), string(g.Actual.Status), g.Actual.Note,
		)
		if err != nil {
			return fmt.Errorf("saving goal %d: %w", i+1, err)
		}
	}

	for _, r := range snap.Records {
		_, err = tx.Exec(`INSERT OR REPLACE INTO records (date, amount, picks, rate, shift_type)
			VALUES (?, ?, ?, ?, ?)`, r.Date, r.Amount, r.Picks, r.Rate, string(r.ShiftType))
		if err != nil {
			return fmt.Errorf("saving record %s: %w", r.Date, err)
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
		metaUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UpdatedAt returns when the snapshot was last saved, or the zero time if
// it never was.
func (s *Store) UpdatedAt() (time.Time, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaUpdatedAt).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, v)
}

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all imported files.
func (s *Store) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// TrackFile records that path was imported at the given mtime and size.
func (s *Store) TrackFile(path string, fi FileInfo) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes, imported_at)
		VALUES (?, ?, ?, ?)`, path, fi.MtimeNs, fi.SizeBytes, time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeleteFileTracker removes a file tracking entry.
func (s *Store) DeleteFileTracker(path string) error {
	_, err := s.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// Counts returns the number of stored goals and records.
func (s *Store) Counts() (goals, records int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM goals").Scan(&goals); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&records); err != nil {
		return 0, 0, err
	}
	return goals, records, nil
}
