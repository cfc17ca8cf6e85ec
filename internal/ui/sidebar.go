package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"zenchat/internal/models"

	"github.com/charmbracelet/bubbles/list"
)

// threadItem adapts a thread to the sidebar list
type threadItem struct {
	thread  models.Thread
	active  bool
	pending bool
}

// FilterValue implements list.Item interface for the thread list
func (i threadItem) FilterValue() string { return i.thread.Title }

// Title implements list.DefaultItem
func (i threadItem) Title() string {
	title := i.thread.Title
	if i.active {
		title = "✦ " + title
	}
	if i.pending {
		title += " …"
	}
	return title
}

// Description implements list.DefaultItem
func (i threadItem) Description() string {
	if len(i.thread.Messages) == 0 {
		return i.thread.DateLabel
	}
	last := i.thread.Messages[len(i.thread.Messages)-1]
	preview := strings.Join(strings.Fields(last.Content), " ")
	if utf8.RuneCountInString(preview) > 50 {
		preview = string([]rune(preview)[:47]) + "..."
	}
	return fmt.Sprintf("%s · %s", i.thread.DateLabel, preview)
}

var _ list.DefaultItem = threadItem{}

func newThreadList(width, height int) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Zen Chat"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	// quitting is owned by the app key map
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

// refreshThreadList reloads the sidebar from the session and selects the
// active thread
func (m *Model) refreshThreadList() {
	threads, err := m.session.Threads()
	if err != nil {
		m.err = fmt.Errorf("failed to load threads: %w", err)
		return
	}

	pendingID, pending := m.session.PendingThreadID()
	activeID := m.session.ActiveThreadID()

	items := make([]list.Item, len(threads))
	selected := 0
	for i, t := range threads {
		items[i] = threadItem{
			thread:  t,
			active:  t.ID == activeID,
			pending: pending && t.ID == pendingID,
		}
		if t.ID == activeID {
			selected = i
		}
	}
	m.threadList.SetItems(items)
	m.threadList.Select(selected)
}

func (m *Model) applyListStyles() {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(m.styles.AssistantLabel.GetForeground()).
		BorderForeground(m.styles.AssistantLabel.GetForeground())
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(m.styles.Hint.GetForeground()).
		BorderForeground(m.styles.AssistantLabel.GetForeground())
	m.threadList.SetDelegate(d)
	m.threadList.Styles.Title = m.styles.Title
}
