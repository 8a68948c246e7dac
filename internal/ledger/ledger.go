package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ksteinfeldt/punchclock/internal/fileutil"
)

// ErrLedgerNotFound indicates no punch has ever been recorded.
var ErrLedgerNotFound = errors.New("time log not found")

// Ledger appends punch events to a flat file and replays them.
type Ledger struct {
	mu   sync.Mutex
	path string
}

// New creates a Ledger backed by the file at path.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Append writes one event to the end of the ledger.
func (l *Ledger) Append(e Event) error {
	if e.UserID == "" {
		return errors.New("ledger event requires user id")
	}
	if strings.ContainsAny(e.UserID, ",\r\n") {
		return fmt.Errorf("user id %q contains a separator", e.UserID)
	}
	if !e.Direction.Valid() {
		return fmt.Errorf("invalid direction %q", e.Direction)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return fileutil.WithLock(l.path, func() error {
		return fileutil.AppendLine(l.path, e.String())
	})
}

// Events reads every event in file order. Blank lines are ignored; any other
// line that does not parse aborts the read with a *ParseError.
func (l *Ledger) Events() ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path) //nolint:gosec // G304: path from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLedgerNotFound, l.path)
		}
		return nil, fmt.Errorf("opening time log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		e, err := ParseEvent(text)
		if err != nil {
			return nil, &ParseError{Path: l.path, Line: lineNo, Text: text, Err: err}
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading time log: %w", err)
	}

	return events, nil
}

// Report replays the whole ledger.
func (l *Ledger) Report() (Summary, error) {
	events, err := l.Events()
	if err != nil {
		return Summary{}, err
	}
	return Reconcile(events), nil
}
