package progress

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the source of "today" used when a toggle starts the cycle.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithActivity records every mutation to the given logger.
func WithActivity(a ActivityLogger) Option {
	return func(s *Service) {
		s.activity = a
	}
}
