// Package notify delivers short user-facing status messages.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Level classifies a notification.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Error   Level = "error"
)

// Notifier receives status messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(level Level, message string)
}

// Discard drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}

// Log writes notifications to a zerolog logger.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Notify(level Level, message string) {
	ev := l.Logger.Info()
	if level == Error {
		ev = l.Logger.Warn()
	}
	ev.Str("level_hint", string(level)).Msg(message)
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Console prints styled notifications to a terminal.
type Console struct {
	Out io.Writer
}

func (c Console) Notify(level Level, message string) {
	var prefix string
	style := infoStyle
	switch level {
	case Success:
		prefix, style = "✓", successStyle
	case Error:
		prefix, style = "✗", errorStyle
	default:
		prefix = "•"
	}
	fmt.Fprintln(c.Out, style.Render(prefix+" "+message))
}

// Message is one recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: message})
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent notification, or the zero Message.
func (r *Recorder) Last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}
	}
	return r.messages[len(r.messages)-1]
}
