// Package clock ties the rate store and the attendance ledger together and
// tracks who is currently punched in.
package clock

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksteinfeldt/punchclock/internal/ledger"
	"github.com/ksteinfeldt/punchclock/internal/payroll"
	"github.com/ksteinfeldt/punchclock/internal/rates"
)

var (
	// ErrUnknownUser indicates the user has no configured rate and may not punch in.
	ErrUnknownUser = errors.New("user id does not exist")

	// ErrAlreadyPunchedIn indicates the user already has an open session.
	ErrAlreadyPunchedIn = errors.New("already punched in")

	// ErrNotPunchedIn indicates the user has no open session.
	ErrNotPunchedIn = errors.New("not punched in")
)

// RateSource looks up hourly rates.
type RateSource interface {
	Load() (rates.Table, error)
	Get(userID string) (float64, error)
}

// EventLog records punches and replays them.
type EventLog interface {
	Append(e ledger.Event) error
	Report() (ledger.Summary, error)
}

// Shift is the outcome of a punch-out.
type Shift struct {
	UserID   string
	Start    time.Time
	End      time.Time
	Duration time.Duration

	// Rated is false when the user's rate was removed while punched in;
	// Rate and Amount are zero in that case.
	Rated  bool
	Rate   float64
	Amount decimal.Decimal
}

// Hours returns the shift length in fractional hours.
func (s Shift) Hours() float64 {
	return payroll.Hours(s.Duration)
}

// PayLine is one user's row in a payroll report.
type PayLine struct {
	UserID string
	Worked time.Duration
	Rated  bool
	Rate   float64
	Amount decimal.Decimal
}

// Clock owns the active sessions for one process.
type Clock struct {
	mu       sync.Mutex
	rates    RateSource
	ledger   EventLog
	sessions map[string]time.Time

	log     *slog.Logger
	now     func() time.Time
	restore bool
}

// New creates a Clock over the given rate source and event log.
func New(rs RateSource, el EventLog, opts ...Option) (*Clock, error) {
	c := &Clock{
		rates:    rs,
		ledger:   el,
		sessions: make(map[string]time.Time),
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.restore {
		summary, err := el.Report()
		switch {
		case err == nil:
			maps.Copy(c.sessions, summary.Open)
		case errors.Is(err, ledger.ErrLedgerNotFound):
		default:
			return nil, fmt.Errorf("restoring sessions: %w", err)
		}
	}

	return c, nil
}

// PunchIn opens a session for userID starting at now and logs it.
func (c *Clock) PunchIn(userID string, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.rates.Get(userID); err != nil {
		if errors.Is(err, rates.ErrUserNotFound) {
			c.log.Warn("punch in rejected", "user", userID, "reason", "unknown user")
			return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
		}
		return err
	}

	if start, ok := c.sessions[userID]; ok {
		c.log.Warn("punch in rejected", "user", userID, "reason", "already punched in", "since", start)
		return fmt.Errorf("%w: %s (since %s)", ErrAlreadyPunchedIn, userID, start.Format(time.Kitchen))
	}

	if err := c.ledger.Append(ledger.Event{UserID: userID, Time: now, Direction: ledger.In}); err != nil {
		return fmt.Errorf("recording punch in: %w", err)
	}
	c.sessions[userID] = now

	c.log.Info("punched in", "user", userID, "at", now)
	return nil
}

// PunchOut closes userID's session at now, logs it, and returns the shift
// with the amount owed at the user's current rate.
func (c *Clock) PunchOut(userID string, now time.Time) (Shift, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, ok := c.sessions[userID]
	if !ok {
		c.log.Warn("punch out rejected", "user", userID, "reason", "not punched in")
		return Shift{}, fmt.Errorf("%w: %s", ErrNotPunchedIn, userID)
	}

	shift := Shift{
		UserID:   userID,
		Start:    start,
		End:      now,
		Duration: now.Sub(start),
	}
	if shift.Duration < 0 {
		c.log.Warn("punch out before punch in", "user", userID, "in", start, "out", now, "duration", shift.Duration)
	}

	rate, err := c.rates.Get(userID)
	switch {
	case err == nil:
		shift.Rated = true
		shift.Rate = rate
		shift.Amount = payroll.Amount(shift.Duration, rate)
	case errors.Is(err, rates.ErrUserNotFound):
		c.log.Warn("no rate for user at punch out", "user", userID)
	default:
		return Shift{}, err
	}

	if err := c.ledger.Append(ledger.Event{UserID: userID, Time: now, Direction: ledger.Out}); err != nil {
		return Shift{}, fmt.Errorf("recording punch out: %w", err)
	}
	delete(c.sessions, userID)

	c.log.Info("punched out", "user", userID, "at", now, "duration", shift.Duration, "amount", shift.Amount.StringFixed(2))
	return shift, nil
}

// PunchInNow punches in at the clock's current time.
func (c *Clock) PunchInNow(userID string) error {
	return c.PunchIn(userID, c.now())
}

// PunchOutNow punches out at the clock's current time.
func (c *Clock) PunchOutNow(userID string) (Shift, error) {
	return c.PunchOut(userID, c.now())
}

// Active returns a copy of the open sessions.
func (c *Clock) Active() map[string]time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.sessions)
}

// Report replays the ledger into per-user worked time.
func (c *Clock) Report() (ledger.Summary, error) {
	summary, err := c.ledger.Report()
	if err != nil {
		return summary, err
	}
	for _, userID := range summary.Users() {
		if n := summary.Backwards[userID]; n > 0 {
			c.log.Warn("time log has intervals that end before they start", "user", userID, "count", n, "worked", summary.Worked[userID])
		}
	}
	return summary, nil
}

// Payroll prices a report at current rates, one line per user, sorted.
func (c *Clock) Payroll(summary ledger.Summary) ([]PayLine, error) {
	table, err := c.rates.Load()
	if err != nil {
		return nil, err
	}

	lines := make([]PayLine, 0, len(summary.Worked))
	for _, userID := range summary.Users() {
		line := PayLine{UserID: userID, Worked: summary.Worked[userID]}
		if rate, ok := table[userID]; ok {
			line.Rated = true
			line.Rate = rate
			line.Amount = payroll.Amount(line.Worked, rate)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
