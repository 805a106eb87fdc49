// Package daemon polls the pickplan database in the background and serves
// the current earnings picture over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
	"github.com/theirongolddev/pickplan/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Forecast     pipeline.ForecastOptions
	Now          func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Interval < 2*time.Second {
		c.Interval = 15 * time.Second
	}
	if c.EventsBuffer < 1 {
		c.EventsBuffer = 200
	}
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8787"
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// SnapshotLoader supplies the goals and records the daemon summarizes.
type SnapshotLoader interface {
	LoadSnapshot() (model.Snapshot, error)
}

// dbLoader opens the database for each poll so the file is not held
// between reads.
type dbLoader string

func (path dbLoader) LoadSnapshot() (model.Snapshot, error) {
	st, err := store.Open(string(path))
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() { _ = st.Close() }()
	return st.LoadSnapshot()
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service is the daemon runtime.
type Service struct {
	cfg       Config
	loader    SnapshotLoader
	startedAt time.Time
	log       *eventLog

	mu         sync.RWMutex
	lastPollAt time.Time
	pollCount  int64
	lastError  string
	current    *Snapshot
}

// New returns a daemon service. A nil loader reads cfg.DBPath.
func New(cfg Config, loader SnapshotLoader) *Service {
	cfg = cfg.withDefaults()
	if loader == nil {
		loader = dbLoader(cfg.DBPath)
	}
	return &Service{
		cfg:       cfg,
		loader:    loader,
		startedAt: cfg.Now(),
		log:       newEventLog(cfg.EventsBuffer),
	}
}

// Run serves the HTTP API and polls until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	logger.Info("daemon started", "addr", s.cfg.Addr, "interval", s.cfg.Interval, "db", s.cfg.DBPath)

	s.pollOnce()
	tick := time.NewTicker(s.cfg.Interval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			s.pollOnce()
		case err := <-serveErr:
			return fmt.Errorf("daemon http server: %w", err)
		case <-ctx.Done():
			logger.Info("daemon stopping", "polls", s.Status().PollCount)
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdown)
		}
	}
}

// pollOnce reloads the data and emits a snapshot event on the first
// success, then a delta event whenever the figures change.
func (s *Service) pollOnce() {
	data, err := s.loader.LoadSnapshot()
	now := s.cfg.Now()

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		logger.Error("daemon poll failed", "err", err)
		return
	}
	s.lastError = ""
	snap := Summarize(data, now, s.cfg.Forecast)
	prev := s.current
	s.current = &snap
	s.mu.Unlock()

	ev := Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap}
	if prev != nil {
		ev.Type = EventStatsDelta
		ev.Delta = diffSnapshots(*prev, snap)
		if ev.Delta.isZero() {
			return
		}
	}
	ev = s.log.emit(ev)
	logger.Debug("daemon event", "type", ev.Type, "id", ev.ID)
}

// Status reports the runtime counters and the latest snapshot.
func (s *Service) Status() Status {
	events, subs := s.log.counts()

	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		LastError:       s.lastError,
		EventCount:      events,
		SubscriberCount: subs,
	}
	if s.current != nil {
		st.Summary = *s.current
	}
	return st
}
