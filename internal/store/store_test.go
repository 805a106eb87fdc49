package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "pickplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSnapshot() model.Snapshot {
	side := model.ShiftSnapshot{Amount: 2000, Rate: 1.5, Picks: 1334, Hours: 8, Date: "2024-01-08", Type: model.ShiftNight, Status: model.StatusRegular, Note: "first"}
	second := side
	second.Date = "2024-01-09"
	second.Note = ""
	return model.Snapshot{
		Goals: []model.Goal{
			{ID: "b", Planned: side, Actual: side, Completed: true},
			{ID: "a", Planned: second, Actual: second},
		},
		Records: []model.ShiftRecord{
			{Date: "2024-01-08", Amount: 2000, Picks: 1334, Rate: 1.5, ShiftType: model.ShiftNight},
		},
	}
}

func TestStore_EmptyDatabase(t *testing.T) {
	s := openTemp(t)
	snap, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Goals)
	assert.Empty(t, snap.Records)

	updated, err := s.UpdatedAt()
	require.NoError(t, err)
	assert.True(t, updated.IsZero())
}

func TestStore_SaveAndLoadKeepsGoalOrder(t *testing.T) {
	s := openTemp(t)
	want := sampleSnapshot()
	require.NoError(t, s.SaveSnapshot(want))

	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	updated, err := s.UpdatedAt()
	require.NoError(t, err)
	assert.False(t, updated.IsZero())
}

func TestStore_SaveOverwritesInsteadOfMerging(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SaveSnapshot(sampleSnapshot()))

	next := model.Snapshot{
		Records: []model.ShiftRecord{{Date: "2024-02-01", Amount: 10, Picks: 5, Rate: 2, ShiftType: model.ShiftDay}},
	}
	require.NoError(t, s.SaveSnapshot(next))

	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, got.Goals)
	assert.Equal(t, next.Records, got.Records)

	goals, records, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 0, goals)
	assert.Equal(t, 1, records)
}

func TestStore_DuplicateGoalIDsGetFreshIDs(t *testing.T) {
	s := openTemp(t)
	snap := sampleSnapshot()
	snap.Goals[1].ID = snap.Goals[0].ID
	require.NoError(t, s.SaveSnapshot(snap))

	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, got.Goals, 2)
	assert.NotEqual(t, got.Goals[0].ID, got.Goals[1].ID)
}

func TestStore_FileTracker(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.TrackFile("/tmp/a.json", FileInfo{MtimeNs: 10, SizeBytes: 20}))
	require.NoError(t, s.TrackFile("/tmp/a.json", FileInfo{MtimeNs: 11, SizeBytes: 21}))
	require.NoError(t, s.TrackFile("/tmp/b.json", FileInfo{MtimeNs: 1, SizeBytes: 2}))
	require.NoError(t, s.DeleteFileTracker("/tmp/b.json"))

	tracked, err := s.GetTrackedFiles()
	require.NoError(t, err)
	assert.Equal(t, map[string]FileInfo{"/tmp/a.json": {MtimeNs: 11, SizeBytes: 21}}, tracked)
}
