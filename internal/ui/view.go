package ui

import (
	"fmt"
	"strings"

	"zenchat/internal/models"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateViewport() {
	var content strings.Builder

	messages := m.session.Messages()
	pendingID, pending := m.session.PendingThreadID()
	pendingHere := pending && pendingID == m.session.ActiveThreadID()

	if len(messages) == 0 && !pendingHere {
		content.WriteString(m.welcomeView())
	} else {
		for _, msg := range messages {
			content.WriteString(m.renderMessage(msg))
		}
	}

	if pendingHere {
		content.WriteString(m.styles.Message.Render(
			m.spinner.View() + " " + m.styles.Loading.Render("Assistant is thinking..."),
		))
		content.WriteString("\n")
	}

	if m.err != nil {
		content.WriteString(m.styles.Message.Render(
			m.styles.Error.Render("Error: " + m.err.Error()),
		))
		content.WriteString("\n")
		m.err = nil
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m *Model) welcomeView() string {
	width := m.viewport.Width
	text := lipgloss.JoinVertical(lipgloss.Center,
		"✦",
		"",
		lipgloss.NewStyle().Bold(true).Render("Welcome to Zen Chat"),
		"",
		"A minimalist space for thoughtful conversations.",
		"Begin your journey with a simple hello.",
	)
	block := m.styles.Welcome.Render(text)
	return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, block)
}

func (m *Model) renderMessage(msg models.Message) string {
	width := m.viewport.Width
	if msg.Role == models.RoleUser {
		bubble := m.styles.UserBubble.
			Width(min(lipgloss.Width(msg.Content)+2, width*4/5)).
			Render(msg.Content)
		timeStr := m.styles.Hint.Render(msg.Time.Format("15:04"))
		block := lipgloss.JoinVertical(lipgloss.Right, bubble, timeStr)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block) + "\n\n"
	}

	body := msg.Content
	if m.markdown != nil {
		if rendered, err := m.markdown.Render(msg.Content); err == nil {
			body = strings.Trim(rendered, "\n")
		}
	}
	return m.styles.Message.Render(
		m.styles.AssistantLabel.Render("Assistant") + " " +
			m.styles.Hint.Render(msg.Time.Format("15:04")) + "\n" +
			body,
	) + "\n"
}

func (m Model) headerView(width int) string {
	left := ""
	if !m.sidebarOpen {
		left = m.styles.Title.Render("Zen Chat") + " "
	}
	title := "Untitled"
	if t, err := m.session.ActiveThread(); err == nil {
		title = t.Title
	}
	left += lipgloss.NewStyle().Bold(true).Render(title)

	right := m.styles.Hint.Render("ctrl+b sidebar · ctrl+l clear")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) inputView() string {
	status := m.styles.Hint.Render("enter to send")
	if m.session.Pending() {
		status = m.styles.Loading.Render("replying… esc to stop")
	}
	return m.textarea.View() + "\n" + status
}

func (m Model) sidebarView() string {
	hints := m.styles.Hint.Render("ctrl+n new chat\nctrl+s settings")
	content := lipgloss.JoinVertical(lipgloss.Left, m.threadList.View(), hints)

	style := m.styles.Sidebar
	if m.focus == FocusSidebar {
		style = m.styles.SidebarFocused
	}
	return style.Width(m.sidebarWidth).Height(m.height - 1).Render(content)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	if m.focus == FocusSettings {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.settingsView())
	}

	chatWidth := m.viewport.Width
	chatArea := m.styles.Chat.Render(
		fmt.Sprintf("%s\n%s\n%s\n%s",
			m.headerView(chatWidth),
			m.viewport.View(),
			m.inputView(),
			m.help.View(m.keys),
		),
	)

	if !m.sidebarOpen {
		return chatArea
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), chatArea)
}
