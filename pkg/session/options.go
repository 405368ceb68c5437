package session

import (
	"log/slog"
	"time"
)

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBackendName labels log lines with the active backend.
func WithBackendName(name string) Option {
	return func(s *Storage) { s.backend = name }
}

// WithClock overrides the clock used to compute cookie Max-Age.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}
