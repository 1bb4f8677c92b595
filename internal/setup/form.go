// Package setup asks the operator for connection parameters with a small
// Bubble Tea form before the prompt takes over the terminal.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/duinoprompt/internal/charset"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
)

// ErrCancelled is returned when the operator leaves the form.
var ErrCancelled = errors.New("setup cancelled")

// ── Styles ───────────────────────────────────────────────────────

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Width(12)

	activeLabelStyle = labelStyle.
				Foreground(lipgloss.Color("#fde68a"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#52525b"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)
)

const (
	fieldPort = iota
	fieldBaud
	fieldEncoding
	fieldCount
)

var fieldLabels = [fieldCount]string{"Port", "Baud rate", "Encoding"}

// ── Bubble Tea model ─────────────────────────────────────────────

type form struct {
	inputs    [fieldCount]textinput.Model
	focus     int
	width     int
	submitted bool
	cancelled bool
}

func newForm(def Defaults) form {
	var f form
	placeholders := [fieldCount]string{
		def.Port,
		strconv.Itoa(def.Baud),
		def.Encoding + " (or " + charset.BinaryName + ")",
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.PlaceholderStyle = placeholderStyle
		ti.TextStyle = inputStyle
		ti.CharLimit = 64
		ti.Width = 40
		f.inputs[i] = ti
	}
	f.inputs[fieldPort].Focus()
	return f
}

func (f form) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("duinoprompt setup"))
}

func (f form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			f.cancelled = true
			return f, tea.Quit
		case tea.KeyEnter:
			if f.focus == fieldCount-1 {
				f.submitted = true
				return f, tea.Quit
			}
			return f, f.move(1)
		case tea.KeyTab, tea.KeyDown:
			return f, f.move(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return f, f.move(-1)
		}

	case tea.WindowSizeMsg:
		f.width = msg.Width
		return f, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// move shifts focus by delta, wrapping around.
func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f form) View() string {
	if f.submitted || f.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(RenderBanner(f.width))
	b.WriteByte('\n')
	for i, in := range f.inputs {
		style := labelStyle
		if i == f.focus {
			style = activeLabelStyle
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(hintStyle.Render("enter: next/connect • tab/shift+tab: move • esc: quit"))
	b.WriteByte('\n')
	return b.String()
}

// values returns the raw answers in field order.
func (f form) values() (port, baud, encoding string) {
	return f.inputs[fieldPort].Value(), f.inputs[fieldBaud].Value(), f.inputs[fieldEncoding].Value()
}

// Run shows the form until the operator submits or leaves it. Blank
// answers take the defaults.
func Run(ctx context.Context, def Defaults, log *logger.Logger) (Settings, error) {
	p := tea.NewProgram(newForm(def), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Settings{}, fmt.Errorf("setup form: %w", err)
	}

	f, ok := final.(form)
	if !ok || f.cancelled || !f.submitted {
		return Settings{}, ErrCancelled
	}

	port, baud, encoding := f.values()
	s := Resolve(port, baud, encoding, def)
	for _, n := range s.Notices {
		log.Warn("setup: %s", n)
	}
	return s, nil
}
