// Package ledger is the append-only attendance log: one punch event per line,
// replayed to derive the hours each user has worked.
package ledger

import (
	"fmt"
	"strings"
	"time"
)

// DefaultFileName is the ledger file inside the data directory.
const DefaultFileName = "time_log.txt"

// TimeLayout is the on-disk timestamp format (microseconds, no zone).
const TimeLayout = "2006-01-02 15:04:05.000000"

// parseLayout also accepts timestamps written without a fractional part.
const parseLayout = "2006-01-02 15:04:05"

// Direction is the kind of punch.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == In || d == Out
}

// Event is a single punch recorded in the ledger.
type Event struct {
	UserID    string
	Time      time.Time
	Direction Direction
}

// String renders the event as a ledger line, without the trailing newline.
func (e Event) String() string {
	return fmt.Sprintf("%s,%s,%s", e.UserID, e.Time.Format(TimeLayout), e.Direction)
}

// ParseEvent parses one ledger line. Timestamps are read as local wall-clock time.
func ParseEvent(line string) (Event, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 3 {
		return Event{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}

	ts, err := time.ParseInLocation(parseLayout, fields[1], time.Local)
	if err != nil {
		return Event{}, fmt.Errorf("bad timestamp: %w", err)
	}

	dir := Direction(fields[2])
	if !dir.Valid() {
		return Event{}, fmt.Errorf("unknown direction %q", fields[2])
	}

	return Event{UserID: fields[0], Time: ts, Direction: dir}, nil
}

// ParseError reports a malformed ledger line. Replays stop at the first one.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: malformed ledger entry %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
