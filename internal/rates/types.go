// Package rates maintains the hourly pay rate of every user allowed to punch
// the clock.
package rates

import (
	"fmt"
	"sort"
)

// DefaultFileName is the rate store file inside the data directory.
const DefaultFileName = "user_info.txt"

// Table maps a user id to its hourly rate.
type Table map[string]float64

// Record is a single user/rate pair, used for ordered listings.
type Record struct {
	UserID string
	Rate   float64
}

// Records returns the table's entries sorted by user id.
func (t Table) Records() []Record {
	out := make([]Record, 0, len(t))
	for id, rate := range t {
		out = append(out, Record{UserID: id, Rate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// ParseError reports a malformed line in the rate store.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: malformed rate record %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
