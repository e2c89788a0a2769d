package sinks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
)

var (
	fetchesDone = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_fetches_total",
		Help: "The total number of URLs fetched successfully.",
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_fetch_failures_total",
		Help: "The total number of URLs that failed permanently this run.",
	})
	urlsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_urls_skipped_total",
		Help: "The total number of tail URLs skipped because a record already existed.",
	})
	recordCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pagewatch_records",
		Help: "The current size of the persisted result set.",
	})
	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagewatch_fetch_duration_seconds",
		Help:    "Latency of successful PageSpeed Insights fetches.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

// Prometheus translates progress events into Prometheus metrics.
type Prometheus struct{}

// NewPrometheus creates a Prometheus sink backed by the default registry.
func NewPrometheus() *Prometheus {
	return &Prometheus{}
}

// Consume implements progress.Sink.
func (Prometheus) Consume(evt progress.Event) {
	switch evt.Stage {
	case progress.StageRunStart:
		urlsSkipped.Add(float64(evt.Skipped))
		recordCount.Set(float64(evt.Records))
	case progress.StageFetchDone:
		fetchesDone.Inc()
		fetchDuration.Observe(evt.Dur.Seconds())
		recordCount.Set(float64(evt.Records))
	case progress.StageFetchError:
		fetchFailures.Inc()
	case progress.StageRunDone:
		recordCount.Set(float64(evt.Records))
	}
}
