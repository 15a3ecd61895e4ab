// Package prompt asks for the OMDb API key on the terminal with masked input.
package prompt

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
)

// ErrCancelled is returned when the user aborts the prompt.
var ErrCancelled = eris.New("prompt: cancelled")

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type keyModel struct {
	input     textinput.Model
	label     string
	done      bool
	cancelled bool
}

func newKeyModel(label string) keyModel {
	ti := textinput.New()
	ti.Placeholder = "paste key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128
	ti.Focus()
	return keyModel{input: ti, label: label}
}

func (m keyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m keyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter to confirm • esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Value returns the trimmed key typed so far.
func (m keyModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// APIKey runs a masked prompt on in/out and returns the entered key. An empty
// entry returns "" without error.
func APIKey(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(
		newKeyModel("OMDb API key (session only)"),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return "", eris.Wrap(err, "prompt: run")
	}

	m, ok := final.(keyModel)
	if !ok {
		return "", eris.New("prompt: unexpected model")
	}
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.Value(), nil
}
