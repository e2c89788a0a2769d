package psi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalAttempts tracks outbound PageSpeed Insights requests, including retries.
	TotalAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_fetch_attempts_total",
		Help: "The total number of PageSpeed Insights requests sent.",
	})
	// TotalRetries tracks attempts that failed retriably and were retried.
	TotalRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_fetch_retries_total",
		Help: "The total number of retried PageSpeed Insights requests.",
	})
	// TotalNonRetriable tracks fetches abandoned on a client error (4xx).
	TotalNonRetriable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_fetch_non_retriable_total",
		Help: "The total number of fetches abandoned without retry on a client error.",
	})
	// TotalExhausted tracks fetches that failed after the final allowed attempt.
	TotalExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagewatch_fetch_exhausted_total",
		Help: "The total number of fetches that exhausted their retry budget.",
	})
)
