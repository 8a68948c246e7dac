package rates

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ksteinfeldt/punchclock/internal/fileutil"
)

var (
	// ErrUserNotFound indicates the user has no configured rate.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUserID indicates the user id is empty or cannot be stored.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRate indicates the rate is not a finite, non-negative number.
	ErrInvalidRate = errors.New("invalid hourly rate")
)

// Store reads and writes the rate table. Every mutation rewrites the whole file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the rate table from disk. A missing file is an empty table.
func (s *Store) Load() (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked()
}

// loadLocked reads the table without acquiring the lock (caller must hold it).
func (s *Store) loadLocked() (Table, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // G304: path from config
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("reading rate store: %w", err)
	}
	return parse(s.path, data)
}

func parse(path string, data []byte) (Table, error) {
	table := Table{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		// Lines without a separator are not records
		if !strings.Contains(line, ",") {
			continue
		}

		userID, rateText, _ := strings.Cut(line, ",")
		if userID == "" {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line, Err: ErrInvalidUserID}
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rateText), 64)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		if err := ValidateRate(rate); err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		table[userID] = rate
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning rate store: %w", err)
	}
	return table, nil
}

// Save replaces the rate store with table.
func (s *Store) Save(table Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fileutil.WithLock(s.path, func() error {
		return s.saveLocked(table)
	})
}

// saveLocked writes the table without acquiring the lock (caller must hold it).
func (s *Store) saveLocked(table Table) error {
	var buf bytes.Buffer
	for _, rec := range table.Records() {
		buf.WriteString(rec.UserID)
		buf.WriteByte(',')
		buf.WriteString(FormatRate(rec.Rate))
		buf.WriteByte('\n')
	}

	if err := fileutil.WriteFileAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing rate store: %w", err)
	}
	return nil
}

// Set adds the user or updates their rate.
func (s *Store) Set(userID string, rate float64) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	if err := ValidateRate(rate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fileutil.WithLock(s.path, func() error {
		table, err := s.loadLocked()
		if err != nil {
			return err
		}
		table[userID] = rate
		return s.saveLocked(table)
	})
}

// Remove deletes the user's rate. Returns ErrUserNotFound if absent, in which
// case the file is left untouched.
func (s *Store) Remove(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fileutil.WithLock(s.path, func() error {
		table, err := s.loadLocked()
		if err != nil {
			return err
		}
		if _, ok := table[userID]; !ok {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		delete(table, userID)
		return s.saveLocked(table)
	})
}

// Get returns the user's hourly rate.
func (s *Store) Get(userID string) (float64, error) {
	table, err := s.Load()
	if err != nil {
		return 0, err
	}

	rate, ok := table[userID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return rate, nil
}

// Exists checks whether the user has a configured rate.
func (s *Store) Exists(userID string) (bool, error) {
	_, err := s.Get(userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

// List returns all records sorted by user id.
func (s *Store) List() ([]Record, error) {
	table, err := s.Load()
	if err != nil {
		return nil, err
	}
	return table.Records(), nil
}

// ValidateUserID rejects ids that cannot round-trip through the file format.
func ValidateUserID(userID string) error {
	if userID == "" || strings.TrimSpace(userID) != userID {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	if strings.ContainsAny(userID, ",\r\n") {
		return fmt.Errorf("%w: %q contains a separator", ErrInvalidUserID, userID)
	}
	return nil
}

// ValidateRate rejects NaN, infinities and negative rates.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	return nil
}

// FormatRate renders a rate the way it is stored: shortest decimal form,
// with a trailing ".0" for whole numbers.
func FormatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseRate parses operator input into a validated rate.
func ParseRate(text string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "$")), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, text)
	}
	if err := ValidateRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}
