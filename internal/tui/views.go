package tui

import (
	"maps"
	"slices"
	"strings"

	"github.com/ksteinfeldt/punchclock/internal/style"
)

func (m uiModel) View() string {
	var body string
	switch m.mode {
	case modeLogin:
		body = m.viewPrompt("Manager Login")
	case modeManager:
		body = m.viewManager()
	case modeSetUser, modeSetRate:
		body = m.viewPrompt("Add/Update User")
	case modeRemoveUser:
		body = m.viewPrompt("Remove User")
	case modeReport:
		body = m.viewReport()
	default:
		body = m.viewMain()
	}

	var b strings.Builder
	b.WriteString(style.Title.Render("Punch Clock"))
	b.WriteString("\n\n")
	b.WriteString(style.Panel.Render(body))
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(m.viewStatus())
		b.WriteString("\n")
	}

	if m.help.ShowAll && m.mode == modeMain {
		b.WriteString(m.help.View(m.keys))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.modeHelp(m.mode)))
	}
	return b.String()
}

func (m uiModel) viewMain() string {
	var b strings.Builder
	b.WriteString(m.userInput.View())
	b.WriteString("\n\n")

	active := m.clock.Active()
	if len(active) == 0 {
		b.WriteString(style.Dim.Render("Nobody is punched in."))
	} else {
		b.WriteString(style.Bold.Render("Punched in:"))
		for _, userID := range slices.Sorted(maps.Keys(active)) {
			b.WriteString("\n  ")
			b.WriteString(style.ArrowPrefix + " " + userID + " " + style.Dim.Render("since "+active[userID].Format("15:04:05")))
		}
	}

	if m.manager {
		b.WriteString("\n\n")
		b.WriteString(style.Info.Render("Manager tools unlocked"))
	}
	return b.String()
}

func (m uiModel) viewPrompt(title string) string {
	return style.Bold.Render(title) + "\n\n" + m.promptInput.View()
}

func (m uiModel) viewManager() string {
	var b strings.Builder
	b.WriteString(style.Bold.Render("Manager Tools"))
	b.WriteString("\n\n")
	for _, kb := range m.keys.modeHelp(modeManager) {
		h := kb.Help()
		b.WriteString("  " + style.Info.Render(h.Key) + "  " + h.Desc + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m uiModel) viewReport() string {
	body := m.report
	if body == "" {
		body = style.Dim.Render("No punches recorded.")
	}
	return style.Bold.Render("User Hours Report:") + "\n\n" + body
}

func (m uiModel) viewStatus() string {
	switch m.statusLevel {
	case statusWarn:
		return style.Warningf("%s", m.statusMsg)
	case statusError:
		return style.Errorf("%s", m.statusMsg)
	default:
		return style.Successf("%s", m.statusMsg)
	}
}
