package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ksteinfeldt/punchclock/internal/auth"
	"github.com/ksteinfeldt/punchclock/internal/clock"
	"github.com/ksteinfeldt/punchclock/internal/ledger"
	"github.com/ksteinfeldt/punchclock/internal/payroll"
	"github.com/ksteinfeldt/punchclock/internal/rates"
)

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	switch m.mode {
	case modeLogin:
		return m.updateLogin(msg)
	case modeManager:
		return m.updateManager(msg)
	case modeSetUser:
		return m.updateSetUser(msg)
	case modeSetRate:
		return m.updateSetRate(msg)
	case modeRemoveUser:
		return m.updateRemoveUser(msg)
	case modeReport:
		return m.updateReport(msg)
	}
	return m.updateMain(msg)
}

func (m uiModel) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.PunchIn):
			m.punchIn()
			return m, nil

		case key.Matches(msg, m.keys.PunchOut):
			m.punchOut()
			return m, nil

		case key.Matches(msg, m.keys.Report):
			m.openReport()
			return m, nil

		case key.Matches(msg, m.keys.Manager):
			if m.manager {
				m.mode = modeManager
				m.userInput.Blur()
				return m, nil
			}
			cmd := m.openPrompt(modeLogin, "Manager password: ", true)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.userInput, cmd = m.userInput.Update(msg)
	return m, cmd
}

func (m *uiModel) punchIn() {
	userID := strings.TrimSpace(m.userInput.Value())
	if userID == "" {
		m.setStatus(statusWarn, "Enter a user ID first.")
		return
	}

	if err := m.clock.PunchInNow(userID); err != nil {
		m.showPunchError(err)
		return
	}
	m.setStatus(statusInfo, fmt.Sprintf("%s punched in successfully.", userID))
	m.userInput.Reset()
}

func (m *uiModel) punchOut() {
	userID := strings.TrimSpace(m.userInput.Value())
	if userID == "" {
		m.setStatus(statusWarn, "Enter a user ID first.")
		return
	}

	shift, err := m.clock.PunchOutNow(userID)
	if err != nil {
		m.showPunchError(err)
		return
	}

	msg := fmt.Sprintf("%s punched out successfully. Total time: %s", userID, payroll.FormatDuration(shift.Duration))
	if shift.Rated {
		msg += ", Amount owed: " + payroll.Money(shift.Amount)
	} else {
		msg += ", no hourly rate on file"
	}
	m.setStatus(statusInfo, msg)
	m.userInput.Reset()
}

func (m *uiModel) showPunchError(err error) {
	switch {
	case errors.Is(err, clock.ErrUnknownUser):
		m.setStatus(statusError, "This user ID does not exist.")
	case errors.Is(err, clock.ErrAlreadyPunchedIn):
		m.setStatus(statusWarn, "You're already punched in.")
	case errors.Is(err, clock.ErrNotPunchedIn):
		m.setStatus(statusError, "You're not punched in.")
	default:
		m.log.Error("punch failed", "err", err)
		m.setStatus(statusError, err.Error())
	}
}

// openPrompt switches to a single-line prompt mode.
func (m *uiModel) openPrompt(mode viewMode, prompt string, secret bool) tea.Cmd {
	m.mode = mode
	m.userInput.Blur()
	m.promptInput.Reset()
	m.promptInput.Prompt = prompt
	m.promptInput.EchoMode = textinput.EchoNormal
	if secret {
		m.promptInput.EchoMode = textinput.EchoPassword
		m.promptInput.EchoCharacter = '•'
	}
	return m.promptInput.Focus()
}

// closePrompt leaves a prompt mode for the given one.
func (m *uiModel) closePrompt(mode viewMode) tea.Cmd {
	m.promptInput.Blur()
	m.promptInput.Reset()
	m.mode = mode
	if mode == modeMain {
		return m.userInput.Focus()
	}
	return nil
}

// updatePrompt handles submit and cancel for prompt modes and feeds
// everything else to the text field.
func (m uiModel) updatePrompt(msg tea.Msg, back viewMode, submit func(*uiModel, string) tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			cmd := m.closePrompt(back)
			m.setStatus(statusInfo, "Cancelled.")
			return m, cmd
		case key.Matches(msg, m.keys.Submit):
			value := strings.TrimSpace(m.promptInput.Value())
			if value == "" {
				cmd := m.closePrompt(back)
				m.setStatus(statusInfo, "Cancelled.")
				return m, cmd
			}
			cmd := submit(&m, value)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m uiModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.updatePrompt(msg, modeMain, func(m *uiModel, secret string) tea.Cmd {
		if err := m.checker.Check(secret); err != nil {
			if errors.Is(err, auth.ErrAccessDenied) {
				m.log.Warn("manager login rejected")
				m.setStatus(statusError, "Access Denied: Incorrect password.")
			} else {
				m.log.Error("manager login failed", "err", err)
				m.setStatus(statusError, err.Error())
			}
			return m.closePrompt(modeMain)
		}

		m.manager = true
		m.log.Info("manager logged in")
		m.setStatus(statusInfo, "Manager tools unlocked.")
		return m.closePrompt(modeManager)
	})
}

func (m uiModel) updateManager(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		m.mode = modeMain
		cmd := m.userInput.Focus()
		return m, cmd

	case key.Matches(keyMsg, m.keys.AddUser):
		cmd := m.openPrompt(modeSetUser, "User ID: ", false)
		return m, cmd

	case key.Matches(keyMsg, m.keys.RemoveUser):
		cmd := m.openPrompt(modeRemoveUser, "User ID to remove: ", false)
		return m, cmd

	case key.Matches(keyMsg, m.keys.Logout):
		m.manager = false
		m.mode = modeMain
		m.log.Info("manager logged out")
		m.setStatus(statusInfo, "Manager logged out.")
		cmd := m.userInput.Focus()
		return m, cmd

	case key.Matches(keyMsg, m.keys.Report):
		m.openReport()
		return m, nil

	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m uiModel) updateSetUser(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.updatePrompt(msg, modeManager, func(m *uiModel, userID string) tea.Cmd {
		if err := rates.ValidateUserID(userID); err != nil {
			m.setStatus(statusError, "User ID may not contain commas.")
			return nil
		}
		m.pendingUser = userID
		return m.openPrompt(modeSetRate, fmt.Sprintf("Hourly rate for %s: ", userID), false)
	})
}

func (m uiModel) updateSetRate(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.updatePrompt(msg, modeManager, func(m *uiModel, text string) tea.Cmd {
		rate, err := rates.ParseRate(text)
		if err != nil {
			m.setStatus(statusError, "Enter a non-negative number.")
			return nil
		}

		userID := m.pendingUser
		m.pendingUser = ""
		if err := m.rates.Set(userID, rate); err != nil {
			m.log.Error("setting rate failed", "user", userID, "err", err)
			m.setStatus(statusError, err.Error())
			return m.closePrompt(modeManager)
		}

		m.log.Info("rate set", "user", userID, "rate", rate)
		m.setStatus(statusInfo, fmt.Sprintf("User '%s' added/updated with hourly rate of %s.", userID, payroll.FormatRate(rate)))
		return m.closePrompt(modeManager)
	})
}

func (m uiModel) updateRemoveUser(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.updatePrompt(msg, modeManager, func(m *uiModel, userID string) tea.Cmd {
		if err := m.rates.Remove(userID); err != nil {
			if errors.Is(err, rates.ErrUserNotFound) {
				m.setStatus(statusError, "User not found.")
			} else {
				m.log.Error("removing user failed", "user", userID, "err", err)
				m.setStatus(statusError, err.Error())
			}
			return m.closePrompt(modeManager)
		}

		m.log.Info("rate removed", "user", userID)
		m.setStatus(statusInfo, fmt.Sprintf("User '%s' removed.", userID))
		return m.closePrompt(modeManager)
	})
}

// openReport renders the time report and shows it.
func (m *uiModel) openReport() {
	summary, err := m.clock.Report()
	if err != nil {
		if errors.Is(err, ledger.ErrLedgerNotFound) {
			m.setStatus(statusError, "Time log file not found.")
		} else {
			m.log.Error("report failed", "err", err)
			m.setStatus(statusError, err.Error())
		}
		return
	}

	var b strings.Builder
	for _, userID := range summary.Users() {
		fmt.Fprintf(&b, "User %s: %s\n", userID, payroll.FormatHours(summary.Hours(userID)))
	}
	if len(summary.Open) > 0 {
		b.WriteString("\nPunched in:\n")
		for _, userID := range summary.Users() {
			if start, ok := summary.Open[userID]; ok {
				fmt.Fprintf(&b, "  %s since %s\n", userID, start.Format("15:04:05"))
			}
		}
	}

	m.report = strings.TrimRight(b.String(), "\n")
	m.prevMode = m.mode
	m.mode = modeReport
	m.userInput.Blur()
}

func (m uiModel) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return m, nil
	}
	m.mode = m.prevMode
	if m.mode == modeMain {
		cmd := m.userInput.Focus()
		return m, cmd
	}
	return m, nil
}
