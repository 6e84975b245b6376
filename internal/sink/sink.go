// Package sink delivers published attribute sets to their consumers: the
// process log, and an HTTP surface the dashboard reads (JSON snapshot,
// rendered tile, and an SSE stream that pushes every publish).
package sink

import (
	"log/slog"

	"github.com/mkrebs/padwatch/internal/model"
)

// Sink receives the attribute set produced by each refresh cycle.
type Sink interface {
	Publish(a model.Attributes) error
}

// Multi fans a publish out to every configured sink. The first error is
// returned but does not stop delivery to the remaining sinks.
type Multi []Sink

// Publish implements Sink.
func (m Multi) Publish(a model.Attributes) error {
	var first error
	for _, s := range m {
		if err := s.Publish(a); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogSink writes a one-line summary of each publish to the process log.
type LogSink struct {
	Logger *slog.Logger
}

// Publish implements Sink.
func (s *LogSink) Publish(a model.Attributes) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("published attributes",
		"name", a.Name,
		"timeStr", a.TimeStr,
		"status", a.Status,
		"switch", a.Switch,
	)
	return nil
}
