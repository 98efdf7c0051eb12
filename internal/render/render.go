// Package render writes task collections for people and for scripts.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Options configures Tasks.
type Options struct {
	Format Format
	// NoColor disables status colors even on a colour terminal.
	NoColor bool
}

// Tasks writes tasks to w in the requested format.
func Tasks(w io.Writer, tasks []task.Task, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, tasks)
	case FormatYAML:
		return writeYAML(w, tasks)
	case FormatText, "":
		return writeText(w, tasks, opts.NoColor)
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

// Summary returns the count line printed after a filtered listing.
// It returns "" when the filter is inactive.
func Summary(count int, filter store.Filter) string {
	switch {
	case filter.Description != nil && filter.Status != nil:
		return fmt.Sprintf("%d tasks found with description: %s; and status: %s", count, *filter.Description, *filter.Status)
	case filter.Description != nil:
		return fmt.Sprintf("%d tasks found with description: %s", count, *filter.Description)
	case filter.Status != nil:
		return fmt.Sprintf("%d tasks found with status: %s", count, *filter.Status)
	default:
		return ""
	}
}

func writeJSON(w io.Writer, tasks []task.Task) error {
	data, err := (&task.Collection{Tasks: tasks}).Encode()
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return enc.Close()
}

var headers = [...]string{"ID", "STATUS", "CREATED", "UPDATED", "DESCRIPTION"}

func writeText(w io.Writer, tasks []task.Task, noColor bool) error {
	if len(tasks) == 0 {
		return nil
	}

	rows := make([][len(headers)]string, 0, len(tasks))
	widths := [len(headers)]int{}
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, t := range tasks {
		row := [len(headers)]string{
			strconv.Itoa(t.ID),
			string(t.Status),
			t.CreatedAt.String(),
			t.UpdatedAt.String(),
			t.Description,
		}
		for i, cell := range row[:len(row)-1] {
			widths[i] = max(widths[i], len(cell))
		}
		rows = append(rows, row)
	}

	styles := newStyles(w, noColor)
	var b strings.Builder
	for i, h := range headers {
		b.WriteString(styles.header.Render(pad(h, widths[i], i == len(headers)-1)))
	}
	b.WriteString("\n")
	for ri, row := range rows {
		for i, cell := range row {
			text := pad(cell, widths[i], i == len(row)-1)
			if i == 1 {
				text = styles.status(tasks[ri].Status).Render(text)
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// pad left-aligns s in a column of width plus a two-space gutter.
// The last column is never padded.
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	return s + strings.Repeat(" ", width-len(s)+2)
}
