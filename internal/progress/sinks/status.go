package sinks

import (
	"sync"
	"time"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
)

// Snapshot is a point-in-time view of run progress, served by the status API.
type Snapshot struct {
	RunID     string    `json:"run_id"`
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"started_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	Records   int       `json:"records"`
	Skipped   int       `json:"skipped"`
	ToFetch   int       `json:"to_fetch"`
	Fetched   int       `json:"fetched"`
	Failed    int       `json:"failed"`
	LastURL   string    `json:"last_url,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// Status folds progress events into a Snapshot readable from other
// goroutines (the HTTP status handler).
type Status struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStatus creates a Status sink.
func NewStatus() *Status {
	return &Status{}
}

// Consume implements progress.Sink.
func (s *Status) Consume(evt progress.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.RunID = evt.RunID.String()
	s.snap.UpdatedAt = evt.TS
	s.snap.Records = evt.Records

	switch evt.Stage {
	case progress.StageRunStart:
		s.snap.Running = true
		s.snap.StartedAt = evt.TS
		s.snap.Skipped = evt.Skipped
		s.snap.ToFetch = evt.ToFetch
		s.snap.Fetched = 0
		s.snap.Failed = 0
		s.snap.LastURL = ""
		s.snap.LastError = ""
	case progress.StageFetchDone:
		s.snap.Fetched++
		s.snap.LastURL = evt.URL
	case progress.StageFetchError:
		s.snap.Failed++
		s.snap.LastURL = evt.URL
		s.snap.LastError = evt.Err
	case progress.StageRunDone:
		s.snap.Running = false
		s.snap.Fetched = evt.Fetched
		s.snap.Failed = evt.Failed
		s.snap.Skipped = evt.Skipped
	}
}

// Snapshot returns a copy of the current view.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
