package ui

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors for one appearance
type Palette struct {
	Primary   string
	OnPrimary string
	Text      string
	Muted     string
	Surface   string
	Border    string
	Error     string
}

var (
	darkPalette = Palette{
		Primary:   "#25A065",
		OnPrimary: "#FFFDF5",
		Text:      "#E4E4E4",
		Muted:     "#777777",
		Surface:   "#2A2A2A",
		Border:    "#444444",
		Error:     "#FF6B6B",
	}

	lightPalette = Palette{
		Primary:   "#1E7F50",
		OnPrimary: "#FFFFFF",
		Text:      "#222222",
		Muted:     "#8A8A8A",
		Surface:   "#ECECEC",
		Border:    "#CCCCCC",
		Error:     "#C62828",
	}
)

// Styles for the chat interface
type Styles struct {
	Palette Palette

	Title          lipgloss.Style
	Header         lipgloss.Style
	Hint           lipgloss.Style
	UserBubble     lipgloss.Style
	AssistantLabel lipgloss.Style
	Message        lipgloss.Style
	Loading        lipgloss.Style
	Error          lipgloss.Style
	Sidebar        lipgloss.Style
	SidebarFocused lipgloss.Style
	Chat           lipgloss.Style
	Welcome        lipgloss.Style
	Modal          lipgloss.Style
	Option         lipgloss.Style
	OptionActive   lipgloss.Style
	OptionCursor   lipgloss.Style
}

// NewStyles builds the styles for a dark or light background
func NewStyles(dark bool) Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.OnPrimary)).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(p.Border)),

		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Italic(true),

		UserBubble: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.OnPrimary)).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 1),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),

		Message: lipgloss.NewStyle().
			PaddingLeft(2).
			MarginBottom(1),

		Loading: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color(p.Border)),

		SidebarFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color(p.Primary)),

		Chat: lipgloss.NewStyle().
			PaddingLeft(1),

		Welcome: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Align(lipgloss.Center),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Primary)).
			Padding(1, 2),

		Option: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)).
			Background(lipgloss.Color(p.Surface)).
			Padding(0, 1),

		OptionActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.OnPrimary)).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 1),

		OptionCursor: lipgloss.NewStyle().
			Underline(true),
	}
}
