// Package batch implements the resumable, idempotent batch-fetch engine.
//
// A run consumes an ordered URL list and the previously persisted result
// set, decides where to resume and which tail URLs still need fetching,
// fetches them strictly sequentially, and checkpoints the merged set to
// durable storage after every success. Reruns converge: a completed batch
// rerun with an unchanged URL list performs zero fetches.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
	"github.com/rijenmdr/Web-Performance-Datasets/internal/psi"
)

// Fetcher retrieves the metrics record for one URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (psi.Record, error)
}

// Checkpointer rewrites the persisted result set in full.
type Checkpointer interface {
	Checkpoint(ctx context.Context, records []psi.Record) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// systemClock implements Clock with the wall clock, in UTC.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Options select per-run engine behavior.
type Options struct {
	// Force refetches tail URLs even when a record already exists.
	Force bool
	// NoResume starts from the head of the URL list instead of after the
	// last persisted record.
	NoResume bool
	// Delay is slept after each processed URL, success or failure. It is
	// unrelated to the fetcher's retry backoff.
	Delay time.Duration
}

// Plan describes what a run would do, without doing it.
type Plan struct {
	Existing    int
	ResumeIndex int
	Skipped     []string
	ToFetch     []string
	// ResumeMiss is set when prior results exist but the last recorded
	// identity does not appear in the URL list; the run degrades to
	// starting from the head.
	ResumeMiss bool
}

// Engine reconciles a URL list against the persisted result set.
type Engine struct {
	fetcher      Fetcher
	checkpointer Checkpointer
	set          *ResultSet
	opts         Options
	logger       *zap.Logger
	hub          *progress.Hub
	clock        Clock
	runID        uuid.UUID
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewEngine builds an Engine over previously persisted records. The hub may
// be nil when no progress reporting is wanted.
func NewEngine(
	fetcher Fetcher,
	checkpointer Checkpointer,
	prior []psi.Record,
	opts Options,
	logger *zap.Logger,
	hub *progress.Hub,
	clk Clock,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = systemClock{}
	}
	return &Engine{
		fetcher:      fetcher,
		checkpointer: checkpointer,
		set:          NewResultSet(prior),
		opts:         opts,
		logger:       logger,
		hub:          hub,
		clock:        clk,
		runID:        uuid.New(),
		sleep:        sleepContext,
	}
}

// Plan computes the resume position and the skip/fetch split for the tail.
// It performs no network I/O and no writes, so it doubles as the check-only
// mode; in that mode the counts are reported through the caller's logger
// only, no progress events fire.
func (e *Engine) Plan(urls []string) Plan {
	plan := Plan{Existing: e.set.Len()}

	if !e.opts.NoResume && e.set.Len() > 0 {
		lastKey := e.set.LastKey()
		found := -1
		for i, u := range urls {
			if NormalizeKey(u) == lastKey {
				found = i
				break
			}
		}
		if found < 0 {
			plan.ResumeMiss = true
			e.logger.Warn("last recorded URL not found in list; starting from the beginning",
				zap.String("last_key", lastKey))
		} else {
			plan.ResumeIndex = found + 1
		}
	}

	for _, u := range urls[plan.ResumeIndex:] {
		if !e.opts.Force && e.set.Contains(NormalizeKey(u)) {
			plan.Skipped = append(plan.Skipped, u)
		} else {
			plan.ToFetch = append(plan.ToFetch, u)
		}
	}
	return plan
}

// Run executes the batch: plan, fetch each work item in order, merge it into
// the result set, and checkpoint after every success. A single URL's
// permanent fetch failure is logged and skipped; it never aborts the run.
// Checkpoint failures are fatal because continuing would break the
// crash-resume contract.
func (e *Engine) Run(ctx context.Context, urls []string) ([]psi.Record, error) {
	plan := e.Plan(urls)

	e.logger.Info("starting batch run",
		zap.String("run_id", e.runID.String()),
		zap.Int("existing_records", plan.Existing),
		zap.Int("resume_index", plan.ResumeIndex),
		zap.Int("skipped", len(plan.Skipped)),
		zap.Int("to_fetch", len(plan.ToFetch)),
	)
	e.emit(progress.Event{
		Stage:   progress.StageRunStart,
		Records: e.set.Len(),
		Skipped: len(plan.Skipped),
		ToFetch: len(plan.ToFetch),
	})

	fetched, failed := 0, 0
	for i, url := range plan.ToFetch {
		if err := ctx.Err(); err != nil {
			return e.set.Records(), fmt.Errorf("run interrupted: %w", err)
		}

		e.logger.Info("fetching metrics",
			zap.String("url", url),
			zap.Int("item", i+1),
			zap.Int("total", len(plan.ToFetch)),
		)

		start := e.clock.Now()
		rec, err := e.fetcher.Fetch(ctx, url)
		if err != nil {
			failed++
			e.logger.Error("fetch failed permanently; continuing", zap.String("url", url), zap.Error(err))
			e.emit(progress.Event{
				Stage:   progress.StageFetchError,
				URL:     url,
				Records: e.set.Len(),
				Err:     err.Error(),
			})
		} else {
			rec.RequestedURL = url
			pos, replaced := e.set.Upsert(rec)
			fetched++
			e.logger.Debug("record merged",
				zap.String("url", url),
				zap.Int("position", pos),
				zap.Bool("replaced", replaced),
			)
			if err := e.checkpoint(ctx); err != nil {
				return e.set.Records(), err
			}
			e.emit(progress.Event{
				Stage:   progress.StageFetchDone,
				URL:     url,
				Records: e.set.Len(),
				Dur:     e.clock.Now().Sub(start),
			})
		}

		if e.opts.Delay > 0 {
			if err := e.sleep(ctx, e.opts.Delay); err != nil {
				return e.set.Records(), fmt.Errorf("run interrupted: %w", err)
			}
		}
	}

	if err := e.checkpoint(ctx); err != nil {
		return e.set.Records(), err
	}

	e.logger.Info("batch run finished",
		zap.String("run_id", e.runID.String()),
		zap.Int("records", e.set.Len()),
		zap.Int("fetched", fetched),
		zap.Int("skipped", len(plan.Skipped)),
		zap.Int("failed", failed),
	)
	e.emit(progress.Event{
		Stage:   progress.StageRunDone,
		Records: e.set.Len(),
		Skipped: len(plan.Skipped),
		Fetched: fetched,
		Failed:  failed,
	})
	return e.set.Records(), nil
}

func (e *Engine) checkpoint(ctx context.Context) error {
	if e.checkpointer == nil {
		return nil
	}
	if err := e.checkpointer.Checkpoint(ctx, e.set.Records()); err != nil {
		return fmt.Errorf("checkpoint results: %w", err)
	}
	return nil
}

func (e *Engine) emit(evt progress.Event) {
	if e.hub == nil {
		return
	}
	evt.RunID = e.runID
	evt.TS = e.clock.Now()
	e.hub.Emit(evt)
}

// sleepContext blocks for d or until ctx finishes, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
