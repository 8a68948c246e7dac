package rates

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), DefaultFileName))
}

func TestStore_LoadNoFile(t *testing.T) {
	s := newTestStore(t)

	table, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table) != 0 {
		t.Errorf("table = %v, want empty", table)
	}
}

func TestStore_LoadSkipsLinesWithoutComma(t *testing.T) {
	s := newTestStore(t)
	content := "alice,20.0\nthis line is junk\n\nbob,17.5\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	table, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Table{"alice": 20.0, "bob": 17.5}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("table = %v, want %v", table, want)
	}
}

func TestStore_LoadBadRate(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("alice,20.0\nbob,lots\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := s.Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got: %v", err)
	}
	if perr.Line != 2 {
		t.Errorf("line = %d, want 2", perr.Line)
	}
}

func TestStore_LoadRejectsUnusableRates(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "nan", line: "alice,nan"},
		{name: "inf", line: "alice,inf"},
		{name: "negative inf", line: "alice,-Inf"},
		{name: "negative", line: "alice,-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			content := "bob,10.0\n" + tt.line + "\n"
			if err := os.WriteFile(s.Path(), []byte(content), 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			_, err := s.Load()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got: %v", err)
			}
			if perr.Line != 2 {
				t.Errorf("line = %d, want 2", perr.Line)
			}
			if !errors.Is(err, ErrInvalidRate) {
				t.Errorf("expected ErrInvalidRate cause, got: %v", err)
			}

			// A mutation must not rewrite the bad record into something unreadable
			before, _ := os.ReadFile(s.Path())
			if err := s.Set("carol", 10); err == nil {
				t.Error("Set over an unreadable store should fail")
			}
			after, _ := os.ReadFile(s.Path())
			if string(before) != string(after) {
				t.Errorf("store changed: %q -> %q", before, after)
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	original := Table{"alice": 20.0, "bob": 17.25, "carol": 0}

	if err := s.Save(original); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("loaded = %v, want %v", loaded, original)
	}

	before, _ := os.ReadFile(s.Path())
	if err := s.Save(loaded); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Errorf("save(load(store)) changed the file:\n%s\nvs\n%s", before, after)
	}

	want := "alice,20.0\nbob,17.25\ncarol,0.0\n"
	if string(after) != want {
		t.Errorf("file = %q, want %q", after, want)
	}
}

func TestStore_SetOverwritesWholeFile(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("alice", 20); err != nil {
		t.Fatalf("Set alice: %v", err)
	}
	if err := s.Set("bob", 15); err != nil {
		t.Fatalf("Set bob: %v", err)
	}
	if err := s.Set("alice", 22.5); err != nil {
		t.Fatalf("update alice: %v", err)
	}

	rate, err := s.Get("alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rate != 22.5 {
		t.Errorf("rate = %v, want 22.5", rate)
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].UserID != "alice" || records[1].UserID != "bob" {
		t.Errorf("records not sorted: %+v", records)
	}
}

func TestStore_SetValidation(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		rate   float64
		want   error
	}{
		{name: "empty id", userID: "", rate: 10, want: ErrInvalidUserID},
		{name: "comma in id", userID: "a,b", rate: 10, want: ErrInvalidUserID},
		{name: "newline in id", userID: "a\nb", rate: 10, want: ErrInvalidUserID},
		{name: "padded id", userID: " alice", rate: 10, want: ErrInvalidUserID},
		{name: "negative rate", userID: "alice", rate: -1, want: ErrInvalidRate},
		{name: "nan rate", userID: "alice", rate: math.NaN(), want: ErrInvalidRate},
		{name: "inf rate", userID: "alice", rate: math.Inf(1), want: ErrInvalidRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			err := s.Set(tt.userID, tt.rate)
			if !errors.Is(err, tt.want) {
				t.Errorf("Set(%q, %v) = %v, want %v", tt.userID, tt.rate, err, tt.want)
			}
			if _, statErr := os.Stat(s.Path()); !os.IsNotExist(statErr) {
				t.Error("rejected Set should not create the store")
			}
		})
	}
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t)
	s.Set("alice", 20)
	s.Set("bob", 15)

	if err := s.Remove("alice"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get("alice"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("alice should be gone, got: %v", err)
	}
	if _, err := s.Get("bob"); err != nil {
		t.Errorf("bob should remain: %v", err)
	}
}

func TestStore_RemoveMissingLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	s.Set("alice", 20)
	before, _ := os.ReadFile(s.Path())

	err := s.Remove("nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Errorf("store changed: %q -> %q", before, after)
	}
}

func TestStore_Exists(t *testing.T) {
	s := newTestStore(t)
	s.Set("alice", 20)

	exists, err := s.Exists("alice")
	if err != nil {
		t.Fatalf("Exists alice: %v", err)
	}
	if !exists {
		t.Error("alice should exist")
	}

	exists, err = s.Exists("nobody")
	if err != nil {
		t.Fatalf("Exists nobody: %v", err)
	}
	if exists {
		t.Error("nobody should not exist")
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{20, "20.0"},
		{17.5, "17.5"},
		{0, "0.0"},
		{12.345, "12.345"},
	}
	for _, tt := range tests {
		if got := FormatRate(tt.rate); got != tt.want {
			t.Errorf("FormatRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestParseRate(t *testing.T) {
	if r, err := ParseRate(" $18.50 "); err != nil || r != 18.5 {
		t.Errorf("ParseRate($18.50) = %v, %v", r, err)
	}
	if _, err := ParseRate("abc"); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got: %v", err)
	}
	if _, err := ParseRate("-3"); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate for negative, got: %v", err)
	}
}
