package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
)

type mode int

const (
	browsing mode = iota
	adding
	confirming
)

// Model is the terminal view over a TodoStore. Key presses are translated to
// store operations and the visible rows are re-read after each one.
type Model struct {
	ctx       context.Context
	store     port.TodoStore
	formatter domain.Formatter
	styles    Styles
	keys      keyMap

	filter domain.Filter
	items  []domain.Todo
	counts domain.Counts
	cursor int

	mode   mode
	input  textinput.Model
	status string
	failed bool
}

func NewModel(ctx context.Context, store port.TodoStore, formatter domain.Formatter, theme string) Model {
	if formatter == nil {
		formatter = domain.NewDefaultFormatter()
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 500

	m := Model{
		ctx:       ctx,
		store:     store,
		formatter: formatter,
		styles:    NewStyles(theme),
		keys:      defaultKeyMap(),
		input:     input,
	}
	m.refresh()

	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if !ok {
		if m.mode == adding {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		return m, nil
	}

	switch m.mode {
	case adding:
		return m.updateAdding(keyMsg)
	case confirming:
		return m.updateConfirming(keyMsg), nil
	default:
		return m.updateBrowsing(keyMsg)
	}
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.failed = "", false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		m.mode = adding
		m.input.SetValue("")
		cmd := m.input.Focus()

		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		if todo, ok := m.selected(); ok {
			if _, err := m.store.Toggle(m.ctx, todo.ID); err != nil {
				m.fail(err)
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.Delete):
		if todo, ok := m.selected(); ok {
			if _, err := m.store.DeleteByID(m.ctx, todo.ID); err != nil {
				m.fail(err)
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.Clear):
		if m.counts.Completed == 0 {
			m.status = "No completed todos to clear"
			break
		}

		m.mode = confirming

	case key.Matches(msg, m.keys.Filter):
		filters := domain.Filters()
		m.filter = filters[(int(m.filter)+1)%len(filters)]
		m.cursor = 0
		m.refresh()
	}

	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		todo, err := m.store.Add(m.ctx, m.input.Value())

		if errors.Is(err, domain.ErrInvalidInput) {
			m.status, m.failed = "Todo text must not be empty", true
			return m, nil
		}

		if err != nil {
			m.fail(err)
			return m, nil
		}

		m.input.Blur()
		m.input.SetValue("")
		m.mode = browsing
		m.status, m.failed = "", false
		m.refresh()
		m.moveTo(todo.ID)

		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.input.SetValue("")
		m.mode = browsing
		m.status, m.failed = "", false

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m Model) updateConfirming(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Yes):
		removed, err := m.store.DeleteCompleted(m.ctx)

		m.mode = browsing

		if err != nil {
			m.fail(err)
			return m
		}

		m.status = fmt.Sprintf("Removed %d completed todos", removed)
		m.refresh()

	case key.Matches(msg, m.keys.No):
		m.mode = browsing
	}

	return m
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("todos"))
	b.WriteString("\n")

	for _, f := range domain.Filters() {
		tab := m.styles.Tab
		if f == m.filter {
			tab = m.styles.TabOn
		}

		b.WriteString(tab.Render(fmt.Sprintf("%s (%d)", f, m.count(f))))
	}

	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(m.styles.Muted.Render("  nothing here"))
		b.WriteString("\n")
	}

	for i, todo := range m.items {
		b.WriteString(m.row(i, todo))
		b.WriteString("\n")
	}

	switch m.mode {
	case adding:
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case confirming:
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Delete %d completed todos? (y/n)", m.counts.Completed)))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := m.styles.Muted
		if m.failed {
			style = m.styles.Error
		}

		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help()))

	return b.String()
}

func (m Model) row(index int, todo domain.Todo) string {
	presentation := m.formatter.Format(todo)

	prefix := "  "
	if index == m.cursor {
		prefix = m.styles.Cursor.Render("> ")
	}

	box, text := "[ ]", todo.Text
	if todo.Completed {
		box, text = "[x]", m.styles.TextDone.Render(todo.Text)
	}

	return fmt.Sprintf("%s%s %s  %s", prefix, box, text, m.styles.Label(presentation.StyleTag).Render(presentation.Label))
}

func (m Model) help() string {
	bindings := m.keys.browsingHelp()

	switch m.mode {
	case adding:
		bindings = []key.Binding{m.keys.Submit, m.keys.Cancel}
	case confirming:
		bindings = []key.Binding{m.keys.Yes, m.keys.No}
	}

	parts := make([]string, 0, len(bindings))

	for _, binding := range bindings {
		parts = append(parts, binding.Help().Key+" "+binding.Help().Desc)
	}

	return strings.Join(parts, " • ")
}

func (m Model) count(filter domain.Filter) int {
	switch filter {
	case domain.FilterPending:
		return m.counts.Pending
	case domain.FilterCompleted:
		return m.counts.Completed
	default:
		return m.counts.All
	}
}

func (m Model) selected() (domain.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Todo{}, false
	}

	return m.items[m.cursor], true
}

func (m *Model) moveTo(id uuid.UUID) {
	for i, todo := range m.items {
		if todo.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) refresh() {
	m.items = m.store.Filter(m.ctx, m.filter)
	m.counts = m.store.Counts(m.ctx)

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) fail(err error) {
	m.status, m.failed = err.Error(), true
}

func (m Model) Items() []domain.Todo {
	return m.items
}

func (m Model) Filter() domain.Filter {
	return m.filter
}

func (m Model) Status() string {
	return m.status
}
