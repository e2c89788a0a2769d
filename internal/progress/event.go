// Package progress defines the event stream emitted by a batch run.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart   Stage = "RUN_START"
	StageFetchDone  Stage = "FETCH_DONE"
	StageFetchError Stage = "FETCH_ERROR"
	StageRunDone    Stage = "RUN_DONE"
)

// Event captures a single milestone of a batch run.
type Event struct {
	// RunID uniquely identifies the batch run.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or fetch milestone occurred.
	Stage Stage
	// URL is set for fetch-level events.
	URL string
	// Records is the current size of the persisted result set.
	Records int
	// Skipped is the number of tail URLs skipped this run.
	Skipped int
	// ToFetch is the size of this run's work list.
	ToFetch int
	// Fetched counts successful fetches so far.
	Fetched int
	// Failed counts per-URL failures so far.
	Failed int
	// Dur captures fetch latency for FETCH_DONE events.
	Dur time.Duration
	// Err carries error text for FETCH_ERROR events.
	Err string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageFetchDone:
		if e.URL == "" {
			return errors.New("fetch done requires a url")
		}
	case StageFetchError:
		if e.URL == "" {
			return errors.New("fetch error requires a url")
		}
		if e.Err == "" {
			return errors.New("fetch error requires error text")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	return nil
}
