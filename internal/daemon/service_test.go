package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

type fakeLoader struct {
	snap model.Snapshot
	err  error
}

func (f *fakeLoader) LoadSnapshot() (model.Snapshot, error) {
	return f.snap, f.err
}

var fixedNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.Local)

func newTestService(loader SnapshotLoader, buffer int) *Service {
	return New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: buffer,
		Forecast:     pipeline.DefaultForecastOptions(),
		Now:          func() time.Time { return fixedNow },
	}, loader)
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Goals:         3,
		Records:       10,
		WeekEarnings:  500,
		WeekPicks:     250,
		MonthEarnings: 1500.5,
		YearEarnings:  9000,
	}
	curr := Snapshot{
		Goals:         4,
		Records:       11,
		WeekEarnings:  650,
		WeekPicks:     350,
		MonthEarnings: 1650.5,
		YearEarnings:  9150,
	}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, 1, delta.Goals)
	assert.Equal(t, 1, delta.Records)
	assert.Equal(t, 100, delta.WeekPicks)
	assert.InDelta(t, 150, delta.WeekEarnings, 1e-9)
	assert.False(t, delta.isZero())
	assert.True(t, diffSnapshots(curr, curr).isZero(), "identical snapshots diff to zero")
}

func TestEventLogKeepsNewest(t *testing.T) {
	l := newEventLog(2)
	for range 3 {
		l.emit(Event{Type: EventStatsDelta})
	}

	events := l.list()
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].ID)
	assert.Equal(t, int64(3), events[1].ID)
}

func TestEventLogSubscribers(t *testing.T) {
	l := newEventLog(5)
	ch, detach := l.subscribe()
	_, subs := l.counts()
	require.Equal(t, 1, subs)

	l.emit(Event{Type: EventSnapshot})
	select {
	case ev := <-ch:
		assert.Equal(t, int64(1), ev.ID)
	default:
		t.Fatal("event not delivered")
	}

	detach()
	_, subs = l.counts()
	assert.Zero(t, subs)
}

func TestPollOnce_EmitsSnapshotThenDeltas(t *testing.T) {
	loader := &fakeLoader{snap: model.Snapshot{
		Records: []model.ShiftRecord{{Date: "2024-01-08", Amount: 250, Picks: 200, Rate: 1.25}},
	}}
	s := newTestService(loader, 10)

	s.pollOnce()
	s.pollOnce() // unchanged, no event

	loader.snap.Records = append(loader.snap.Records, model.ShiftRecord{Date: "2024-01-09", Amount: 100, Picks: 80, Rate: 1.25})
	s.pollOnce()

	events := s.log.list()
	require.Len(t, events, 2)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, EventStatsDelta, events[1].Type)
	assert.Equal(t, 100.0, events[1].Delta.WeekEarnings)
	assert.Equal(t, 1, events[1].Delta.Records)
	assert.Equal(t, int64(3), s.Status().PollCount)
}

func TestPollOnce_RecordsLoadError(t *testing.T) {
	s := newTestService(&fakeLoader{err: errors.New("disk gone")}, 10)
	s.pollOnce()

	st := s.Status()
	assert.Equal(t, "disk gone", st.LastError)
	assert.Zero(t, st.EventCount)
	assert.Equal(t, int64(1), st.PollCount)
}

func TestSummarize(t *testing.T) {
	data := model.Snapshot{
		Goals: []model.Goal{{Completed: true}, {}},
		Records: []model.ShiftRecord{
			{Date: "2023-12-29", Amount: 100, Picks: 10},
			{Date: "2024-01-02", Amount: 110, Picks: 11},
			{Date: "2024-01-08", Amount: 120, Picks: 12},
		},
	}
	snap := Summarize(data, fixedNow, pipeline.DefaultForecastOptions())

	assert.Equal(t, 2, snap.Goals)
	assert.Equal(t, 1, snap.OpenGoals)
	assert.Equal(t, 3, snap.Records)
	assert.Equal(t, 120.0, snap.WeekEarnings)
	assert.Equal(t, 1, snap.WeekDays)
	assert.Equal(t, 230.0, snap.MonthEarnings)
	assert.True(t, snap.ForecastAvailable)
	assert.Equal(t, model.TrendUp, snap.Trend)
}

func TestHandlers(t *testing.T) {
	s := newTestService(&fakeLoader{snap: model.Snapshot{
		Records: []model.ShiftRecord{{Date: "2024-01-08", Amount: 250, Picks: 200}},
	}}, 10)
	s.pollOnce()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	st, err := FetchStatus(t.Context(), strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	assert.Equal(t, 250.0, st.Summary.WeekEarnings)
	assert.Equal(t, int64(1), st.PollCount)

	resp, err = http.Get(srv.URL + "/v1/events")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var events []Event
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, EventSnapshot, events[0].Type)
}
