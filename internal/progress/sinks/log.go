// Package sinks provides progress.Sink implementations.
package sinks

import (
	"go.uber.org/zap"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/progress"
)

// Log writes progress events to a structured logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a logging sink.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Consume implements progress.Sink.
func (s *Log) Consume(evt progress.Event) {
	fields := []zap.Field{
		zap.String("run_id", evt.RunID.String()),
		zap.String("stage", string(evt.Stage)),
	}
	switch evt.Stage {
	case progress.StageRunStart:
		fields = append(fields,
			zap.Int("existing_records", evt.Records),
			zap.Int("skipped", evt.Skipped),
			zap.Int("to_fetch", evt.ToFetch),
		)
		s.logger.Info("run started", fields...)
	case progress.StageFetchDone:
		fields = append(fields,
			zap.String("url", evt.URL),
			zap.Duration("duration", evt.Dur),
			zap.Int("records", evt.Records),
		)
		s.logger.Info("fetch complete", fields...)
	case progress.StageFetchError:
		fields = append(fields,
			zap.String("url", evt.URL),
			zap.String("error", evt.Err),
		)
		s.logger.Warn("fetch failed", fields...)
	case progress.StageRunDone:
		fields = append(fields,
			zap.Int("records", evt.Records),
			zap.Int("fetched", evt.Fetched),
			zap.Int("skipped", evt.Skipped),
			zap.Int("failed", evt.Failed),
		)
		s.logger.Info("run finished", fields...)
	}
}
