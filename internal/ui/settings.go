package ui

import (
	"fmt"
	"strings"

	"zenchat/internal/models"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) openSettings() {
	m.focus = FocusSettings
	m.textarea.Blur()
	m.settingsCursor = 0
	for i, mode := range models.Modes {
		if mode == m.session.Mode() {
			m.settingsCursor = i
		}
	}
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close):
		m.focusChat()
	case key.Matches(msg, m.keys.Prev):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case key.Matches(msg, m.keys.Next):
		if m.settingsCursor < len(models.Modes)-1 {
			m.settingsCursor++
		}
	case key.Matches(msg, m.keys.Apply):
		mode := models.Modes[m.settingsCursor]
		if err := m.session.SetMode(mode); err != nil {
			m.err = err
			break
		}
		m.applyMode()
		m.updateViewport()
	}
	return m, nil
}

func (m Model) settingsView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString("Theme\n")

	options := make([]string, len(models.Modes))
	for i, mode := range models.Modes {
		style := m.styles.Option
		if mode == m.session.Mode() {
			style = m.styles.OptionActive
		}
		if i == m.settingsCursor {
			style = style.Inherit(m.styles.OptionCursor)
		}
		options[i] = style.Render(mode.Label())
	}
	b.WriteString(strings.Join(options, " "))

	if m.session.Mode() == models.ModeSystem {
		appearance := "light"
		if m.dark {
			appearance = "dark"
		}
		b.WriteString("\n\n")
		b.WriteString(m.styles.Hint.Render(fmt.Sprintf("Following the terminal (%s)", appearance)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(settingsKeys(m.keys)))

	return m.styles.Modal.Render(b.String())
}
