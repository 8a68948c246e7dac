package ledger

import (
	"sort"
	"time"
)

// Summary is the result of replaying the ledger.
type Summary struct {
	// Worked holds the total of every closed interval, for every user that
	// appears in the ledger (zero when none of their events pair up).
	Worked map[string]time.Duration

	// Open holds the start of each interval still waiting for its "out".
	Open map[string]time.Time

	// Backwards counts, per user, closed intervals whose "out" is stamped
	// before its "in". They are still summed, so Worked can shrink.
	Backwards map[string]int
}

// Reconcile pairs events per user in order. An "in" opens (or restarts) the
// user's pending interval; an "out" closes it. An "out" with nothing pending
// contributes nothing. Events are taken in file order, not sorted by time.
func Reconcile(events []Event) Summary {
	s := Summary{
		Worked:    make(map[string]time.Duration),
		Open:      make(map[string]time.Time),
		Backwards: make(map[string]int),
	}

	for _, e := range events {
		if _, seen := s.Worked[e.UserID]; !seen {
			s.Worked[e.UserID] = 0
		}

		switch e.Direction {
		case In:
			s.Open[e.UserID] = e.Time
		case Out:
			start, ok := s.Open[e.UserID]
			if !ok {
				continue
			}
			if e.Time.Before(start) {
				s.Backwards[e.UserID]++
			}
			s.Worked[e.UserID] += e.Time.Sub(start)
			delete(s.Open, e.UserID)
		}
	}

	return s
}

// Hours returns the user's worked time in fractional hours.
func (s Summary) Hours(userID string) float64 {
	return s.Worked[userID].Hours()
}

// Users returns every user in the summary, sorted.
func (s Summary) Users() []string {
	users := make([]string, 0, len(s.Worked))
	for u := range s.Worked {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// HoursByUser flattens Worked into fractional hours.
func (s Summary) HoursByUser() map[string]float64 {
	out := make(map[string]float64, len(s.Worked))
	for u, d := range s.Worked {
		out[u] = d.Hours()
	}
	return out
}
