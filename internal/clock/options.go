package clock

import (
	"log/slog"
	"time"
)

// Option configures a Clock.
type Option func(*Clock)

// WithLogger sets the logger used for punches and rejections.
func WithLogger(l *slog.Logger) Option {
	return func(c *Clock) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRestoredSessions seeds the active sessions from intervals the ledger
// still has open, so a fresh process can punch out a user punched in earlier.
func WithRestoredSessions() Option {
	return func(c *Clock) {
		c.restore = true
	}
}

// WithNow overrides the time source used by PunchInNow and PunchOutNow.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}
