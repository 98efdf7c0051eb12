// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/task-tracker/internal/render"
	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// WithInput reads key presses from r instead of stdin.
func WithInput(r io.Reader) TUIOption {
	return func(c *tuiConfig) {
		c.input = r
	}
}

// WithOutput draws to w instead of stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// Run starts the TUI over s and blocks until the user quits or ctx ends.
func Run(ctx context.Context, s *store.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		input:     os.Stdin,
		output:    os.Stdout,
		altScreen: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(c.input),
		tea.WithOutput(c.output),
	}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	model := newTUIModel(s, render.NewStyles(c.output))
	program := tea.NewProgram(model, programOpts...)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// filterCycle is the order the f key steps through. The empty status means all.
var filterCycle = []task.Status{"", task.StatusTodo, task.StatusInProgress, task.StatusDone}

type tuiModel struct {
	store    *store.Store
	styles   render.Styles
	tasks    []task.Task
	cursor   int
	filter   int // index into filterCycle
	showHelp bool
	loadErr  error
	message  string
}

func newTUIModel(s *store.Store, styles render.Styles) *tuiModel {
	return &tuiModel{store: s, styles: styles}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "f":
		m.filter = (m.filter + 1) % len(filterCycle)
		m.cursor = 0
		m.message = ""
		m.refresh()
	case "t":
		m.setStatus(task.StatusTodo)
	case "p":
		m.setStatus(task.StatusInProgress)
	case "d":
		m.setStatus(task.StatusDone)
	case "r", "f5":
		m.message = ""
		m.refresh()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// selected returns the task under the cursor, or nil.
func (m *tuiModel) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}

func (m *tuiModel) setStatus(status task.Status) {
	t := m.selected()
	if t == nil {
		return
	}
	id := t.ID
	result, _, err := m.store.SetStatus(id, status)
	switch {
	case err != nil:
		m.message = "Error: " + err.Error()
	case !result.Found():
		m.message = fmt.Sprintf("No task found with ID: %d", id)
	default:
		m.message = fmt.Sprintf("Task %d marked %s", id, status)
	}
	m.refresh()
}

func (m *tuiModel) currentFilter() store.Filter {
	status := filterCycle[m.filter]
	if status == "" {
		return store.Filter{}
	}
	return store.Filter{Status: &status}
}

func (m *tuiModel) refresh() {
	res, err := m.store.List(m.currentFilter())
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = res.Tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	filterName := "all"
	if s := filterCycle[m.filter]; s != "" {
		filterName = string(s)
	}
	fmt.Fprintf(&b, "File: %s  Filter: %s  Tasks: %d\n\n", m.store.Path(), filterName, len(m.tasks))

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
	}
	for i, t := range m.tasks {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %s %4d  %s\n", cursor, statusIcon(t.Status), t.ID, t.Description)
		if i == m.cursor {
			fmt.Fprintf(&b, "         %s  created %s  updated %s\n", m.styles.Status(t.Status), t.CreatedAt, t.UpdatedAt)
		}
	}
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func statusIcon(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return "[>]"
	case task.StatusDone:
		return "[x]"
	default:
		return "[ ]"
	}
}

func writeTitle(b *strings.Builder, styles render.Styles) {
	title := "Task Tracker"
	b.WriteString(styles.Header(title) + "\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up, k        Move up\n")
	b.WriteString("  down, j      Move down\n")
	b.WriteString("  f            Cycle filter (all, todo, in-progress, done)\n")
	b.WriteString("  t            Mark selected task todo\n")
	b.WriteString("  p            Mark selected task in-progress\n")
	b.WriteString("  d            Mark selected task done\n")
	b.WriteString("  r, F5        Reload the task file\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press ? for help | q to quit\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
