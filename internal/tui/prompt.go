// Package tui provides interactive terminal input for council.
package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	title       = "LLM Council - Interactive Mode"
	promptLabel = "Enter your question: "
	charLimit   = 4000
)

// questionModel is a single-line editor for the user's question.
type questionModel struct {
	input     textinput.Model
	width     int
	submitted bool
	cancelled bool
}

func newQuestionModel() questionModel {
	ti := textinput.New()
	ti.Placeholder = "Ask the council anything and press Enter..."
	ti.Focus()
	ti.CharLimit = charLimit
	ti.Width = 76

	return questionModel{
		input: ti,
		width: 80,
	}
}

func (m questionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4 // prompt and padding
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m questionModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#45B7D1")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2)

	prompt := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Render("> ")
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Render("enter to ask • esc to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		boxStyle.Render(prompt+m.input.View()),
		help,
	) + "\n"
}

// question returns the trimmed text, or "" if the user cancelled.
func (m questionModel) question() string {
	if m.cancelled {
		return ""
	}
	return strings.TrimSpace(m.input.Value())
}

// PromptQuestion shows an interactive editor and returns the trimmed
// question. Cancelling returns "".
func PromptQuestion(in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newQuestionModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("question prompt: %w", err)
	}
	m, ok := final.(questionModel)
	if !ok {
		return "", fmt.Errorf("question prompt: unexpected model %T", final)
	}
	return m.question(), nil
}

// ReadQuestion prints a plain prompt and reads one line from r. It is used
// when stdin is not a terminal. End of input without a line returns "".
func ReadQuestion(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprintf(w, "\n%s\n%s\n%s", title, strings.Repeat("-", 40), promptLabel)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read question: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Ask reads the question interactively when both in and out are terminals
// and falls back to ReadQuestion otherwise.
func Ask(in, out *os.File) (string, error) {
	if IsTerminal(in) && IsTerminal(out) {
		return PromptQuestion(in, out)
	}
	return ReadQuestion(in, out)
}
