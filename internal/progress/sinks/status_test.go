package sinks

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
)

func TestStatusFoldsRunLifecycle(t *testing.T) {
	status := NewStatus()
	runID := uuid.New()
	now := time.Now().UTC()

	status.Consume(progress.Event{
		RunID: runID, TS: now, Stage: progress.StageRunStart,
		Records: 10, Skipped: 4, ToFetch: 2,
	})
	snap := status.Snapshot()
	require.True(t, snap.Running)
	require.Equal(t, 10, snap.Records)
	require.Equal(t, 4, snap.Skipped)
	require.Equal(t, 2, snap.ToFetch)

	status.Consume(progress.Event{
		RunID: runID, TS: now, Stage: progress.StageFetchDone,
		URL: "http://a.com", Records: 11,
	})
	status.Consume(progress.Event{
		RunID: runID, TS: now, Stage: progress.StageFetchError,
		URL: "http://b.com", Records: 11, Err: "exhausted retries",
	})
	snap = status.Snapshot()
	require.Equal(t, 1, snap.Fetched)
	require.Equal(t, 1, snap.Failed)
	require.Equal(t, "http://b.com", snap.LastURL)
	require.Equal(t, "exhausted retries", snap.LastError)

	status.Consume(progress.Event{
		RunID: runID, TS: now, Stage: progress.StageRunDone,
		Records: 11, Fetched: 1, Failed: 1, Skipped: 4,
	})
	snap = status.Snapshot()
	require.False(t, snap.Running)
	require.Equal(t, 11, snap.Records)
}

func TestStatusResetsOnNewRun(t *testing.T) {
	status := NewStatus()
	now := time.Now().UTC()

	first := uuid.New()
	status.Consume(progress.Event{RunID: first, TS: now, Stage: progress.StageRunStart})
	status.Consume(progress.Event{RunID: first, TS: now, Stage: progress.StageFetchError, URL: "http://a.com", Err: "boom"})

	second := uuid.New()
	status.Consume(progress.Event{RunID: second, TS: now, Stage: progress.StageRunStart, Records: 1})

	snap := status.Snapshot()
	require.Equal(t, second.String(), snap.RunID)
	require.Zero(t, snap.Failed)
	require.Empty(t, snap.LastError)
}
