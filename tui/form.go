package tui

import (
	"errors"
	"fmt"
	"strings"

	"cinebook/validate"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	key         string // struct field name used by validate.ValidationError
	label       string
	placeholder string
	password    bool
	limit       int
}

// form is a column of text inputs. While submitting is set the form ignores
// further submits; err holds the inline error from the last attempt.
type form struct {
	fields     []field
	inputs     []textinput.Model
	focus      int
	hidden     map[string]bool
	submitting bool
	err        error
}

func newForm(fields ...field) form {
	f := form{fields: fields}
	for _, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.Prompt = ""
		in.CharLimit = 256
		if fd.limit > 0 {
			in.CharLimit = fd.limit
		}
		if fd.password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.Width = 40
		f.inputs = append(f.inputs, in)
	}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(index int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	index = (index + len(f.inputs)) % len(f.inputs)
	f.focus = index
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == index {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *form) next() tea.Cmd { return f.step(1) }
func (f *form) prev() tea.Cmd { return f.step(-1) }

// step moves focus by delta, skipping hidden fields.
func (f *form) step(delta int) tea.Cmd {
	index := f.focus
	for range f.inputs {
		index = (index + delta + len(f.inputs)) % len(f.inputs)
		if !f.hidden[f.fields[index].key] {
			break
		}
	}
	return f.setFocus(index)
}

// hide toggles a field out of the form. A focused field that gets hidden
// hands focus to the next one.
func (f *form) hide(key string, hidden bool) {
	if f.hidden == nil {
		f.hidden = map[string]bool{}
	}
	f.hidden[key] = hidden
	if hidden && f.fields[f.focus].key == key {
		f.next()
	}
}

func (f *form) onLast() bool {
	for i := len(f.fields) - 1; i >= 0; i-- {
		if !f.hidden[f.fields[i].key] {
			return f.focus == i
		}
	}
	return true
}

func (f *form) value(key string) string {
	for i, fd := range f.fields {
		if fd.key == key {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f *form) set(key string, value string) {
	for i, fd := range f.fields {
		if fd.key == key {
			f.inputs[i].SetValue(value)
		}
	}
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.submitting = false
	f.err = nil
	f.setFocus(0)
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) view() string {
	var verr *validate.ValidationError
	errors.As(f.err, &verr)

	labelStyle := lipgloss.NewStyle().Width(18)
	focusedLabel := labelStyle.Foreground(lipgloss.Color("5")).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	var b strings.Builder
	for i, fd := range f.fields {
		if f.hidden[fd.key] {
			continue
		}
		label := labelStyle.Render(fd.label)
		if i == f.focus {
			label = focusedLabel.Render(fd.label)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, f.inputs[i].View()))
		if msg := verr.For(fd.key); msg != "" {
			b.WriteString(strings.Repeat(" ", 19) + errStyle.Render(msg) + "\n")
		}
	}
	if f.err != nil && verr == nil {
		b.WriteString("\n" + errStyle.Render(f.err.Error()) + "\n")
	}
	return b.String()
}
