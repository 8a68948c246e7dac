// Package tui is the interactive terminal front end: a user id field with
// punch in and punch out, a password-gated manager menu, and the time report.
package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ksteinfeldt/punchclock/internal/auth"
	"github.com/ksteinfeldt/punchclock/internal/clock"
	"github.com/ksteinfeldt/punchclock/internal/config"
	"github.com/ksteinfeldt/punchclock/internal/rates"
)

type viewMode int

const (
	modeMain viewMode = iota
	modeLogin
	modeManager
	modeSetUser
	modeSetRate
	modeRemoveUser
	modeReport
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
)

// Options wires the UI to its stores.
type Options struct {
	Clock   *clock.Clock
	Rates   *rates.Store
	Checker auth.Checker
	Keys    config.KeysConfig
	Log     *slog.Logger
}

type uiModel struct {
	clock   *clock.Clock
	rates   *rates.Store
	checker auth.Checker
	log     *slog.Logger

	mode     viewMode
	prevMode viewMode
	manager  bool

	keys   keyMap
	help   help.Model
	width  int
	height int

	userInput   textinput.Model
	promptInput textinput.Model

	// pendingUser carries the id between the add-user and rate prompts.
	pendingUser string
	report      string

	statusMsg   string
	statusLevel statusLevel
}

func initialModel(opts Options) uiModel {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	ui := textinput.New()
	ui.Placeholder = "User ID"
	ui.CharLimit = 64
	ui.Prompt = "User ID: "
	ui.Focus()

	pi := textinput.New()
	pi.CharLimit = 64

	h := help.New()
	h.ShowAll = false

	return uiModel{
		clock:       opts.Clock,
		rates:       opts.Rates,
		checker:     opts.Checker,
		log:         log,
		mode:        modeMain,
		keys:        newKeyMap(opts.Keys),
		help:        h,
		userInput:   ui,
		promptInput: pi,
	}
}

func (m uiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *uiModel) setStatus(level statusLevel, msg string) {
	m.statusLevel = level
	m.statusMsg = msg
}

// Run starts the terminal UI and blocks until the operator quits.
func Run(opts Options) error {
	p := tea.NewProgram(initialModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
