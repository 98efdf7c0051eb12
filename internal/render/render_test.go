package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

func sampleTasks() []task.Task {
	created := task.NewTimestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local))
	updated := task.NewTimestamp(time.Date(2024, 3, 2, 10, 0, 0, 0, time.Local))
	return []task.Task{
		{ID: 1, Description: "Buy milk", Status: task.StatusTodo, CreatedAt: created, UpdatedAt: created},
		{ID: 12, Description: "Write report", Status: task.StatusInProgress, CreatedAt: created, UpdatedAt: updated},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"", "text", "TEXT"} {
		f, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, FormatText, f)
	}
	f, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestTextAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, sampleTasks(), Options{Format: FormatText}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  STATUS       CREATED              UPDATED              DESCRIPTION", lines[0])
	assert.Equal(t, "1   todo         2024-03-01 09:30:00  2024-03-01 09:30:00  Buy milk", lines[1])
	assert.Equal(t, "12  in-progress  2024-03-01 09:30:00  2024-03-02 10:00:00  Write report", lines[2])
}

func TestTextHasNoEscapesForPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, sampleTasks(), Options{}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, nil, Options{Format: FormatText}))
	assert.Empty(t, buf.String())
}

func TestJSONMatchesFileEncoding(t *testing.T) {
	tasks := sampleTasks()
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, tasks, Options{Format: FormatJSON}))

	want, err := (&task.Collection{Tasks: tasks}).Encode()
	require.NoError(t, err)
	assert.Equal(t, string(want), buf.String())
}

func TestJSONEmptyIsList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, nil, Options{Format: FormatJSON}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLUsesFileKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, sampleTasks(), Options{Format: FormatYAML}))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 12, decoded[1]["id"])
	assert.Equal(t, "in-progress", decoded[1]["status"])
	assert.Equal(t, "2024-03-02 10:00:00", decoded[1]["updatedAt"])
	assert.Equal(t, "Buy milk", decoded[0]["description"])
}

func TestYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tasks(&buf, nil, Options{Format: FormatYAML}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestUnknownFormat(t *testing.T) {
	assert.Error(t, Tasks(&bytes.Buffer{}, nil, Options{Format: "xml"}))
}

func TestSummary(t *testing.T) {
	desc := "Buy milk"
	status := task.StatusDone

	assert.Equal(t, "2 tasks found with description: Buy milk; and status: done",
		Summary(2, store.Filter{Description: &desc, Status: &status}))
	assert.Equal(t, "0 tasks found with description: Buy milk",
		Summary(0, store.Filter{Description: &desc}))
	assert.Equal(t, "1 tasks found with status: done",
		Summary(1, store.Filter{Status: &status}))
	assert.Empty(t, Summary(3, store.Filter{}))
}
