package models

import (
	"fmt"
	"time"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single chat message
type Message struct {
	ID      string
	Role    Role
	Content string
	Time    time.Time
}

// Thread represents a named conversation with its messages
type Thread struct {
	ID        int
	Title     string
	DateLabel string
	Messages  []Message
}

// Clone returns a copy of the thread that shares no message storage with t
func (t Thread) Clone() Thread {
	t.Messages = CloneMessages(t.Messages)
	return t
}

// CloneMessages copies a message slice. A nil or empty input yields an empty,
// non-nil slice.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Mode is the display mode preference
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// Modes lists the selectable modes in display order
var Modes = []Mode{ModeLight, ModeDark, ModeSystem}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLight, ModeDark, ModeSystem:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want light, dark or system)", s)
}

// Label returns the capitalized name shown in the settings panel
func (m Mode) Label() string {
	switch m {
	case ModeLight:
		return "Light"
	case ModeDark:
		return "Dark"
	case ModeSystem:
		return "System"
	}
	return string(m)
}
