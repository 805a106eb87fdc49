package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/store"
)

// snapshotDB runs the app's loads and saves one at a time. Every save
// carries the version of the ledger it was taken from, and a save older
// than the last one written is dropped, so the stored snapshot always
// ends up as the newest in-memory state.
type snapshotDB struct {
	path    string
	taken   atomic.Int64
	mu      sync.Mutex
	written int64
}

func newSnapshotDB(path string) *snapshotDB {
	return &snapshotDB{path: path}
}

// loadCmd reads the stored snapshot in the background.
func (d *snapshotDB) loadCmd() tea.Cmd {
	return func() tea.Msg {
		d.mu.Lock()
		defer d.mu.Unlock()

		start := time.Now()
		st, err := store.Open(d.path)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		defer func() { _ = st.Close() }()

		snap, err := st.LoadSnapshot()
		return DataLoadedMsg{Snapshot: snap, Err: err, LoadTime: time.Since(start)}
	}
}

// saveCmd versions snap now and writes it in the background.
func (d *snapshotDB) saveCmd(snap model.Snapshot, what string) tea.Cmd {
	version := d.taken.Add(1)
	return func() tea.Msg {
		return SavedMsg{What: what, Err: d.save(snap, version)}
	}
}

func (d *snapshotDB) save(snap model.Snapshot, version int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if version <= d.written {
		return nil
	}

	st, err := store.Open(d.path)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.SaveSnapshot(snap); err != nil {
		return err
	}
	d.written = version
	return nil
}
