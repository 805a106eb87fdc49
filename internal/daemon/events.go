package daemon

import (
	"sync"
	"time"
)

// Event types.
const (
	EventSnapshot   = "snapshot"
	EventStatsDelta = "stats_delta"
)

// Event is emitted whenever the earnings snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// eventLog keeps the most recent events and fans new ones out to stream
// subscribers. Slow subscribers miss events rather than block the poller.
type eventLog struct {
	mu     sync.Mutex
	limit  int
	lastID int64
	events []Event
	subs   map[chan Event]struct{}
}

func newEventLog(limit int) *eventLog {
	return &eventLog{limit: limit, subs: make(map[chan Event]struct{})}
}

// emit assigns the next id to ev, retains it and delivers it.
func (l *eventLog) emit(ev Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastID++
	ev.ID = l.lastID
	l.events = append(l.events, ev)
	if over := len(l.events) - l.limit; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
	for ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

func (l *eventLog) list() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func (l *eventLog) counts() (events, subscribers int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events), len(l.subs)
}

// subscribe returns a channel of new events and a func that detaches it.
func (l *eventLog) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch, func() {
		l.mu.Lock()
		delete(l.subs, ch)
		l.mu.Unlock()
	}
}
