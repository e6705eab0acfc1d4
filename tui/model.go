// Package tui is the interactive terminal front end for the todo list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xiaoyuanzhu-com/todo-app/client"
	"github.com/xiaoyuanzhu-com/todo-app/log"
	"github.com/xiaoyuanzhu-com/todo-app/models"
	"github.com/xiaoyuanzhu-com/todo-app/theme"
)

var logger = log.GetLogger("TUI")

type screen int

const (
	screenList screen = iota
	screenPalette
)

// listMsg carries the client's cache after an operation finished
type listMsg struct {
	todos []models.Todo
	state client.State
}

type themeWrittenMsg struct {
	color string
}

// Model is the bubbletea model. It never edits the list itself; every
// change goes through the client and the view re-reads its cache.
type Model struct {
	ctx    context.Context
	client *client.Client
	theme  *theme.Store

	input  textinput.Model
	todos  []models.Todo
	state  client.State
	cursor int

	screen        screen
	paletteCursor int
	dark          bool

	width int
}

// New creates the model. The list is fetched by Init.
func New(ctx context.Context, c *client.Client, th *theme.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		ctx:    ctx,
		client: c,
		theme:  th,
		input:  ti,
		todos:  c.Todos(),
		state:  c.State(),
	}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, c *client.Client, th *theme.Store) error {
	program := tea.NewProgram(New(ctx, c, th), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case listMsg:
		m.todos = msg.todos
		m.state = msg.state
		m.clampCursor()
		return m, nil

	case themeWrittenMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenPalette {
			return m.updatePalette(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := m.input.Value() != ""

	switch key := msg.String(); {
	case key == "esc":
		return m, tea.Quit

	case key == "enter":
		title := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if title == "" {
			return m, nil
		}
		return m, m.add(title)

	case key == "up" || (key == "k" && !typing):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key == "down" || (key == "j" && !typing):
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
		return m, nil

	case key == "tab" || (key == " " && !typing):
		if t, ok := m.selected(); ok {
			return m, m.toggle(t)
		}
		return m, nil

	case key == "ctrl+x" || key == "delete":
		if t, ok := m.selected(); ok {
			return m, m.remove(t)
		}
		return m, nil

	case key == "ctrl+t":
		m.screen = screenPalette
		m.paletteCursor = paletteIndex(m.theme.Color())
		return m, nil

	case key == "ctrl+l":
		m.dark = !m.dark
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
	case "up", "k":
		if m.paletteCursor > 0 {
			m.paletteCursor--
		}
	case "down", "j":
		if m.paletteCursor < len(theme.Palette)-1 {
			m.paletteCursor++
		}
	case "enter":
		m.screen = screenList
		return m, m.writeTheme(theme.Palette[m.paletteCursor])
	}
	return m, nil
}

func (m Model) selected() (models.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return models.Todo{}, false
	}
	return m.todos[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func paletteIndex(color string) int {
	for i, c := range theme.Palette {
		if strings.EqualFold(c, color) {
			return i
		}
	}
	return 0
}

// Commands. Mutation errors are logged by the client; the list shown is
// whatever the follow-up fetch produced.

func (m Model) snapshot() tea.Msg {
	return listMsg{todos: m.client.Todos(), state: m.client.State()}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Refresh(m.ctx); err != nil {
			logger.Warn().Err(err).Msg("initial fetch failed")
		}
		return m.snapshot()
	}
}

func (m Model) add(title string) tea.Cmd {
	return func() tea.Msg {
		_ = m.client.Add(m.ctx, title)
		return m.snapshot()
	}
}

func (m Model) toggle(t models.Todo) tea.Cmd {
	return func() tea.Msg {
		_ = m.client.Toggle(m.ctx, t.ID, t.Completed)
		return m.snapshot()
	}
}

func (m Model) remove(t models.Todo) tea.Cmd {
	return func() tea.Msg {
		_ = m.client.Remove(m.ctx, t.ID)
		return m.snapshot()
	}
}

func (m Model) writeTheme(color string) tea.Cmd {
	return func() tea.Msg {
		_ = m.theme.Write(m.ctx, color)
		return themeWrittenMsg{color: color}
	}
}

func (m Model) View() string {
	st := newStyles(m.theme.Color(), m.dark)

	var b strings.Builder
	if m.screen == screenPalette {
		m.viewPalette(&b, st)
	} else {
		m.viewList(&b, st)
	}

	frame := st.frame
	if m.width > 0 {
		frame = frame.Width(m.width)
	}
	return frame.Render(b.String())
}

func (m Model) viewList(b *strings.Builder, st styles) {
	title := "Todos"
	if m.state == client.StateStale {
		title += " …"
	}
	b.WriteString(st.header.Render(title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.todos) == 0 {
		b.WriteString(st.muted.Render("Nothing to do."))
		b.WriteString("\n")
	}
	for i, t := range m.todos {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, t.Title)
		switch {
		case i == m.cursor:
			line = st.selected.Render("> " + line)
		case t.Completed:
			line = "  " + st.completed.Render(line)
		default:
			line = "  " + st.item.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(st.muted.Render("enter add • space/tab toggle • ctrl+x delete • ctrl+t theme • ctrl+l dark/light • esc quit"))
}

func (m Model) viewPalette(b *strings.Builder, st styles) {
	b.WriteString(st.header.Render("Accent color"))
	b.WriteString("\n")

	current := m.theme.Color()
	for i, c := range theme.Palette {
		marker := "  "
		if i == m.paletteCursor {
			marker = "> "
		}
		swatch := st.item.Foreground(accentColor(c)).Render("██")
		line := fmt.Sprintf("%s%s %s", marker, swatch, c)
		if strings.EqualFold(c, current) {
			line += " ✓"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(st.muted.Render("↑/↓ choose • enter select • esc back"))
}
