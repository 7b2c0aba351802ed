// Package tui is the interactive form and task list.
//
// Every remote operation runs as a bubbletea command on its own goroutine,
// so the loop keeps handling keys while requests are outstanding and their
// results arrive in whatever order the server answers.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todos/internal/output"
	"todos/internal/tasklist"
)

type focus int

const (
	focusForm focus = iota
	focusList
)

// loadedMsg reports the end of a full reload.
type loadedMsg struct{ err error }

// resolvedMsg reports the end of one mutating request.
type resolvedMsg struct {
	op  string
	err error
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	addStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
	updateStyle  = addStyle.Background(lipgloss.Color("28"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))
	editStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	deleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Model is the bubbletea model around a tasklist.Controller.
type Model struct {
	ctx     context.Context
	ctl     *tasklist.Controller
	input   textinput.Model
	focus   focus
	cursor  int
	pending int
	status  string
}

// New creates a Model with the form focused. The list is empty until the
// load issued by Init resolves.
func New(ctx context.Context, ctl *tasklist.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a task"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return Model{
		ctx:   ctx,
		ctl:   ctl,
		input: ti,
		focus: focusForm,
	}
}

// Run starts the program on in/out and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, ctl *tasklist.Controller, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, ctl),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load())
}

func (m Model) load() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: ctl.Load(ctx)}
	}
}

// request runs fn as one outstanding operation.
func (m *Model) request(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return resolvedMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("load failed: %v", msg.err)
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case resolvedMsg:
		m.pending--
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		} else {
			m.status = ""
		}
		if msg.op == "submit" {
			// A successful submit clears the field, including text typed
			// while the request was pending.
			m.input.SetValue(m.ctl.Draft())
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "tab" {
			return m.toggleFocus()
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusForm {
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	m.focus = focusForm
	return m, m.input.Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctl.SetDraft(m.input.Value())
		if strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		return m, m.request("submit", m.ctl.SubmitDraft)
	case "esc":
		if _, editing := m.ctl.Editing(); editing {
			m.ctl.CancelEdit()
			m.input.SetValue("")
			return m, nil
		}
		return m.toggleFocus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctl.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Requests still in flight may have shrunk the list since the last
	// resolved message.
	m.clampCursor()
	tasks := m.ctl.Tasks()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "r":
		return m, m.load()
	case "esc":
		m.ctl.CancelEdit()
		m.input.SetValue("")
	case " ", "x":
		if len(tasks) == 0 {
			return m, nil
		}
		id := tasks[m.cursor].ID
		return m, m.request("toggle", func(ctx context.Context) error {
			return m.ctl.ToggleComplete(ctx, id)
		})
	case "d":
		if len(tasks) == 0 {
			return m, nil
		}
		id := tasks[m.cursor].ID
		return m, m.request("delete", func(ctx context.Context) error {
			return m.ctl.DeleteTask(ctx, id)
		})
	case "e", "enter":
		if len(tasks) == 0 {
			return m, nil
		}
		if !m.ctl.BeginEdit(tasks[m.cursor].ID) {
			return m, nil
		}
		m.input.SetValue(m.ctl.Draft())
		m.input.CursorEnd()
		m.focus = focusForm
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.ctl.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Todo List App"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	label := m.ctl.SubmitLabel()
	if label == tasklist.LabelUpdate {
		b.WriteString(updateStyle.Render(label))
	} else {
		b.WriteString(addStyle.Render(label))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderTaskList())

	if m.pending > 0 {
		b.WriteString(pendingStyle.Render(fmt.Sprintf("saving (%d)...", m.pending)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab focus • enter submit/edit • space toggle • e edit • d delete • r reload • esc cancel • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTaskList() string {
	tasks := m.ctl.Tasks()
	if len(tasks) == 0 {
		return "No tasks\n\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		marker := "  "
		if m.focus == focusList && i == m.cursor {
			marker = cursorStyle.Render("> ")
		}

		title := output.NormalizeTitle(t.Title)
		if t.Completed {
			title = doneStyle.Render(title)
		}

		fmt.Fprintf(&b, "%s%s %s  %s %s\n",
			marker,
			output.Checkbox(t.Completed),
			title,
			editStyle.Render("Edit"),
			deleteStyle.Render("Delete"),
		)
	}
	b.WriteString("\n")
	return b.String()
}
