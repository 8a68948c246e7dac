package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/ksteinfeldt/punchclock/internal/config"
)

type keyMap struct {
	PunchIn  key.Binding
	PunchOut key.Binding
	Report   key.Binding
	Manager  key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Manager menu; fixed because no text field is focused there.
	AddUser    key.Binding
	RemoveUser key.Binding
	Logout     key.Binding
	Back       key.Binding

	Submit key.Binding
	Cancel key.Binding
}

// newKeyMap builds the bindings from the configured keys.
func newKeyMap(kc config.KeysConfig) keyMap {
	return keyMap{
		PunchIn: key.NewBinding(
			key.WithKeys(append([]string{"enter"}, kc.PunchIn...)...),
			key.WithHelp(formatKeyHelp(kc.PunchIn), "punch in"),
		),
		PunchOut: key.NewBinding(
			key.WithKeys(kc.PunchOut...),
			key.WithHelp(formatKeyHelp(kc.PunchOut), "punch out"),
		),
		Report: key.NewBinding(
			key.WithKeys(kc.Report...),
			key.WithHelp(formatKeyHelp(kc.Report), "time report"),
		),
		Manager: key.NewBinding(
			key.WithKeys(kc.Manager...),
			key.WithHelp(formatKeyHelp(kc.Manager), "manager tools"),
		),
		Help: key.NewBinding(
			key.WithKeys(kc.Help...),
			key.WithHelp(formatKeyHelp(kc.Help), "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys(kc.Quit...),
			key.WithHelp(formatKeyHelp(kc.Quit), "quit"),
		),
		AddUser: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add/update user"),
		),
		RemoveUser: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove user"),
		),
		Logout: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logout"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func formatKeyHelp(keys []string) string {
	return strings.Join(keys, "/")
}

// ShortHelp is shown on the main screen.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PunchIn, k.PunchOut, k.Report, k.Manager, k.Help, k.Quit}
}

// FullHelp is shown when help is toggled on.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PunchIn, k.PunchOut},
		{k.Report, k.Manager},
		{k.AddUser, k.RemoveUser, k.Logout},
		{k.Help, k.Quit},
	}
}

// modeHelp returns the bindings that apply in a given mode.
func (k keyMap) modeHelp(mode viewMode) []key.Binding {
	switch mode {
	case modeManager:
		return []key.Binding{k.AddUser, k.RemoveUser, k.Logout, k.Report, k.Back}
	case modeLogin, modeSetUser, modeSetRate, modeRemoveUser:
		return []key.Binding{k.Submit, k.Cancel}
	case modeReport:
		return []key.Binding{k.Back}
	default:
		return k.ShortHelp()
	}
}
