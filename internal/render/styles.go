package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nibzard/task-tracker/internal/task"
)

// Styles holds the lipgloss styles used for task output.
type Styles struct {
	header     lipgloss.Style
	todo       lipgloss.Style
	inProgress lipgloss.Style
	done       lipgloss.Style
	plain      lipgloss.Style
}

// NewStyles returns styles bound to the colour profile of w.
func NewStyles(w io.Writer) Styles {
	return newStyles(w, false)
}

func newStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		header:     r.NewStyle().Bold(true),
		todo:       r.NewStyle().Foreground(lipgloss.Color("3")),
		inProgress: r.NewStyle().Foreground(lipgloss.Color("4")),
		done:       r.NewStyle().Foreground(lipgloss.Color("2")),
		plain:      r.NewStyle(),
	}
}

func (s Styles) status(st task.Status) lipgloss.Style {
	switch st {
	case task.StatusTodo:
		return s.todo
	case task.StatusInProgress:
		return s.inProgress
	case task.StatusDone:
		return s.done
	default:
		return s.plain
	}
}

// Status renders a status word in its color.
func (s Styles) Status(st task.Status) string {
	return s.status(st).Render(string(st))
}

// Header renders a heading.
func (s Styles) Header(text string) string {
	return s.header.Render(text)
}
