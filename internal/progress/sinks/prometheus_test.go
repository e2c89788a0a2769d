package sinks

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
)

func TestPrometheusSinkCounts(t *testing.T) {
	sink := NewPrometheus()
	runID := uuid.New()
	now := time.Now().UTC()

	fetchesBefore := testutil.ToFloat64(fetchesDone)
	failuresBefore := testutil.ToFloat64(fetchFailures)
	skippedBefore := testutil.ToFloat64(urlsSkipped)

	sink.Consume(progress.Event{RunID: runID, TS: now, Stage: progress.StageRunStart, Records: 3, Skipped: 5})
	sink.Consume(progress.Event{RunID: runID, TS: now, Stage: progress.StageFetchDone, URL: "http://a.com", Records: 4, Dur: time.Second})
	sink.Consume(progress.Event{RunID: runID, TS: now, Stage: progress.StageFetchError, URL: "http://b.com", Err: "boom"})

	require.Equal(t, fetchesBefore+1, testutil.ToFloat64(fetchesDone))
	require.Equal(t, failuresBefore+1, testutil.ToFloat64(fetchFailures))
	require.Equal(t, skippedBefore+5, testutil.ToFloat64(urlsSkipped))
	require.Equal(t, 4.0, testutil.ToFloat64(recordCount))
}
