// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/input"
	"github.com/nibzard/tasklist-go/internal/render"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/utils"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// errorExpiredMsg asks for a redraw after the controller's timer cleared the
// error message.
type errorExpiredMsg struct{}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx      context.Context
	store    *todo.Store
	ctrl     *input.Controller
	renderer *render.Renderer
	logger   *log.Logger
	keys     KeyMap

	input  textinput.Model
	focus  focus
	cursor int
	width  int
}

// NewModel creates a model over store. Submissions go through ctrl.
func NewModel(ctx context.Context, store *todo.Store, ctrl *input.Controller, renderer *render.Renderer, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	ti := textinput.New()
	ti.Placeholder = renderer.Messages().Placeholder
	ti.Prompt = "> "
	ti.Width = 50
	ti.Focus()

	return &Model{
		ctx:      ctx,
		store:    store,
		ctrl:     ctrl,
		renderer: renderer,
		logger:   logger,
		keys:     DefaultKeyMap,
		input:    ti,
		focus:    focusInput,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
		return m, nil
	case errorExpiredMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ClearError):
		m.ctrl.ClearError()
		return m, nil
	case key.Matches(msg, m.keys.FocusToggle):
		return m, m.toggleFocus()
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		task, err := m.ctrl.SubmitField(m.ctx, &m.input)
		if err != nil {
			m.logger.Debug("submit failed", "err", err)
		}
		if !task.IsZero() {
			m.cursor = len(m.store.Tasks()) - 1
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.Tasks())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			if _, err := m.store.ToggleAt(m.ctx, m.cursor); err != nil {
				m.logger.Debug("toggle not saved", "id", task.ID, "err", err)
			}
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			if _, err := m.store.DeleteAt(m.ctx, m.cursor); err != nil {
				m.logger.Debug("delete not saved", "id", task.ID, "err", err)
			}
			m.clampCursor()
		}
	}
	return m, nil
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		m.clampCursor()
		return nil
	}
	m.focus = focusInput
	return m.input.Focus()
}

// selected returns the task under the cursor. The cursor is a position in
// the collection and the list keys act on that position through ToggleAt
// and DeleteAt, so rows sharing an id stay distinct.
func (m *Model) selected() (todo.Task, bool) {
	tasks := m.store.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.store.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	msgs := m.renderer.Messages()
	tasks := m.store.Tasks()

	var b strings.Builder
	b.WriteString(titleStyle.Render(msgs.Title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if errMsg := m.ctrl.Error(); errMsg != "" {
		b.WriteString(errorStyle.Render(errMsg))
	}
	b.WriteString("\n\n")

	for i, entry := range m.renderer.Render(tasks) {
		if entry.Kind == render.EntryEmpty {
			m.writeEmpty(&b, entry)
			continue
		}
		m.writeTask(&b, entry, i)
	}

	total, completed := todo.Counts(tasks)
	b.WriteString("\n")
	b.WriteString(m.renderer.RenderCount(total, completed))
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeEmpty(b *strings.Builder, entry render.Entry) {
	for i, line := range entry.Lines {
		if i == 0 {
			b.WriteString("  " + emptyTitleStyle.Render(line) + "\n")
			continue
		}
		b.WriteString("  " + dimStyle.Render(line) + "\n")
	}
}

func (m *Model) writeTask(b *strings.Builder, entry render.Entry, i int) {
	pointer := "  "
	if m.focus == focusList && i == m.cursor {
		pointer = cursorStyle.Render("› ")
	}
	box := "[ ]"
	text := entry.Text
	if m.width > 12 {
		text = utils.TruncateRunes(text, m.width-12)
	}
	if entry.Completed {
		box = "[x]"
		text = completedStyle.Render(text)
	}
	fmt.Fprintf(b, "%s%s %s\n", pointer, box, text)
}

func (m *Model) helpLine() string {
	bindings := m.keys.inputHelp()
	if m.focus == focusList {
		bindings = m.keys.listHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
