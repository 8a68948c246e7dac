package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ksteinfeldt/punchclock/internal/auth"
	"github.com/ksteinfeldt/punchclock/internal/clock"
	"github.com/ksteinfeldt/punchclock/internal/config"
	"github.com/ksteinfeldt/punchclock/internal/ledger"
	"github.com/ksteinfeldt/punchclock/internal/rates"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyOut   = tea.KeyMsg{Type: tea.KeyF2}
	keyRep   = tea.KeyMsg{Type: tea.KeyF3}
	keyMgr   = tea.KeyMsg{Type: tea.KeyF4}
)

type harness struct {
	rates  *rates.Store
	ledger *ledger.Ledger
	now    time.Time
}

func newTestModel(t *testing.T, table rates.Table) (uiModel, *harness) {
	t.Helper()
	dir := t.TempDir()

	h := &harness{
		rates:  rates.NewStore(filepath.Join(dir, rates.DefaultFileName)),
		ledger: ledger.New(filepath.Join(dir, ledger.DefaultFileName)),
		now:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local),
	}
	if table != nil {
		if err := h.rates.Save(table); err != nil {
			t.Fatalf("seeding rates: %v", err)
		}
	}

	c, err := clock.New(h.rates, h.ledger, clock.WithNow(func() time.Time { return h.now }))
	if err != nil {
		t.Fatalf("clock.New: %v", err)
	}

	m := initialModel(Options{
		Clock:   c,
		Rates:   h.rates,
		Checker: auth.Secret("admin"),
		Keys:    config.DefaultConfig().Keys,
	})
	return m, h
}

func press(t *testing.T, m uiModel, msgs ...tea.Msg) uiModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(uiModel)
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPunchInAndOut(t *testing.T) {
	m, h := newTestModel(t, rates.Table{"alice": 20})

	m = press(t, m, typed("alice"), keyEnter)
	if m.statusLevel != statusInfo || !strings.Contains(m.statusMsg, "punched in") {
		t.Fatalf("status = %q, want punched in", m.statusMsg)
	}
	if _, ok := m.clock.Active()["alice"]; !ok {
		t.Fatal("alice should be punched in")
	}
	if m.userInput.Value() != "" {
		t.Errorf("user field = %q, want cleared", m.userInput.Value())
	}

	h.now = h.now.Add(8 * time.Hour)
	m = press(t, m, typed("alice"), keyOut)
	if !strings.Contains(m.statusMsg, "Total time: 8:00:00") || !strings.Contains(m.statusMsg, "$160.00") {
		t.Errorf("status = %q, want 8h and $160.00", m.statusMsg)
	}
	if len(m.clock.Active()) != 0 {
		t.Errorf("active = %v, want none", m.clock.Active())
	}
}

func TestPunchRejections(t *testing.T) {
	m, _ := newTestModel(t, rates.Table{"alice": 20})

	m = press(t, m, typed("mallory"), keyEnter)
	if m.statusMsg != "This user ID does not exist." {
		t.Errorf("unknown user status = %q", m.statusMsg)
	}

	m.userInput.Reset()
	m = press(t, m, typed("alice"), keyOut)
	if m.statusMsg != "You're not punched in." {
		t.Errorf("not punched in status = %q", m.statusMsg)
	}

	m.userInput.Reset()
	m = press(t, m, typed("alice"), keyEnter, typed("alice"), keyEnter)
	if m.statusMsg != "You're already punched in." || m.statusLevel != statusWarn {
		t.Errorf("double punch status = %q level %v", m.statusMsg, m.statusLevel)
	}
}

func TestPunchEmptyUser(t *testing.T) {
	m, h := newTestModel(t, rates.Table{"alice": 20})

	m = press(t, m, keyEnter)
	if m.statusLevel != statusWarn {
		t.Errorf("status level = %v, want warn", m.statusLevel)
	}
	if _, err := os.Stat(h.ledger.Path()); !os.IsNotExist(err) {
		t.Error("empty id should not write the ledger")
	}
}

func TestManagerLogin(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = press(t, m, keyMgr)
	if m.mode != modeLogin {
		t.Fatalf("mode = %v, want login", m.mode)
	}

	m = press(t, m, typed("wrong"), keyEnter)
	if m.mode != modeMain || m.manager {
		t.Errorf("wrong password: mode = %v manager = %v", m.mode, m.manager)
	}
	if !strings.Contains(m.statusMsg, "Incorrect password") {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = press(t, m, keyMgr, typed("admin"), keyEnter)
	if m.mode != modeManager || !m.manager {
		t.Fatalf("right password: mode = %v manager = %v", m.mode, m.manager)
	}

	// Back to main and in again without a password
	m = press(t, m, keyEsc, keyMgr)
	if m.mode != modeManager {
		t.Errorf("mode = %v, want manager without re-login", m.mode)
	}

	m = press(t, m, typed("l"))
	if m.mode != modeMain || m.manager {
		t.Errorf("logout: mode = %v manager = %v", m.mode, m.manager)
	}
}

func loggedIn(t *testing.T, m uiModel) uiModel {
	t.Helper()
	m = press(t, m, keyMgr, typed("admin"), keyEnter)
	if m.mode != modeManager {
		t.Fatalf("login failed: %q", m.statusMsg)
	}
	return m
}

func TestAddUser(t *testing.T) {
	m, h := newTestModel(t, nil)
	m = loggedIn(t, m)

	m = press(t, m, typed("a"), typed("bob"), keyEnter)
	if m.mode != modeSetRate || m.pendingUser != "bob" {
		t.Fatalf("mode = %v pending = %q, want rate prompt for bob", m.mode, m.pendingUser)
	}

	m = press(t, m, typed("abc"), keyEnter)
	if m.mode != modeSetRate || m.statusLevel != statusError {
		t.Errorf("bad rate: mode = %v status = %q", m.mode, m.statusMsg)
	}

	m.promptInput.Reset()
	m = press(t, m, typed("17.5"), keyEnter)
	if m.mode != modeManager {
		t.Errorf("mode = %v, want manager", m.mode)
	}
	rate, err := h.rates.Get("bob")
	if err != nil || rate != 17.5 {
		t.Errorf("Get(bob) = %v, %v; want 17.5", rate, err)
	}
}

func TestAddUser_CancelLeavesStoreUntouched(t *testing.T) {
	m, h := newTestModel(t, rates.Table{"alice": 20})
	m = loggedIn(t, m)

	m = press(t, m, typed("a"), typed("bob"), keyEnter, keyEsc)
	if m.mode != modeManager {
		t.Errorf("mode = %v, want manager", m.mode)
	}
	if ok, _ := h.rates.Exists("bob"); ok {
		t.Error("cancelled add should not create bob")
	}

	// Empty answer cancels too
	m = press(t, m, typed("a"), keyEnter)
	if m.mode != modeManager || m.statusMsg != "Cancelled." {
		t.Errorf("empty id: mode = %v status = %q", m.mode, m.statusMsg)
	}
}

func TestRemoveUser(t *testing.T) {
	m, h := newTestModel(t, rates.Table{"alice": 20, "bob": 10})
	m = loggedIn(t, m)

	m = press(t, m, typed("d"), typed("zed"), keyEnter)
	if m.statusMsg != "User not found." {
		t.Errorf("status = %q, want not found", m.statusMsg)
	}

	m = press(t, m, typed("d"), typed("bob"), keyEnter)
	if ok, _ := h.rates.Exists("bob"); ok {
		t.Error("bob should be removed")
	}
	if ok, _ := h.rates.Exists("alice"); !ok {
		t.Error("alice should remain")
	}
}

func TestReport(t *testing.T) {
	m, h := newTestModel(t, rates.Table{"alice": 20})

	m = press(t, m, keyRep)
	if m.mode != modeMain || m.statusMsg != "Time log file not found." {
		t.Errorf("no ledger: mode = %v status = %q", m.mode, m.statusMsg)
	}

	m = press(t, m, typed("alice"), keyEnter)
	h.now = h.now.Add(90 * time.Minute)
	m = press(t, m, typed("alice"), keyOut, keyRep)
	if m.mode != modeReport {
		t.Fatalf("mode = %v, want report", m.mode)
	}
	if !strings.Contains(m.report, "User alice: 1.50 hours") {
		t.Errorf("report = %q", m.report)
	}
	if !strings.Contains(m.View(), "User Hours Report") {
		t.Error("view should show the report")
	}

	m = press(t, m, keyEsc)
	if m.mode != modeMain {
		t.Errorf("mode = %v, want main after closing report", m.mode)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(keyEsc)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc on the main screen should quit")
	}
}
