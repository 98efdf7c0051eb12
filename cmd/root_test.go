// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/task-tracker/internal/task"
)

// cli runs commands against a task file in a fresh temp directory.
type cli struct {
	t    *testing.T
	file string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "TASK_TRACKER_") {
			name, _, _ := strings.Cut(kv, "=")
			t.Setenv(name, "")
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return &cli{t: t, file: filepath.Join(dir, "tasks.json")}
}

func (c *cli) run(args ...string) (stdout, stderr string, err error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	err = Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, errOut, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%v: %v (stderr %q)", args, err, errOut)
	}
	return out
}

func (c *cli) tasks() []task.Task {
	c.t.Helper()
	data, err := os.ReadFile(c.file)
	if err != nil {
		c.t.Fatalf("read task file: %v", err)
	}
	col, err := task.Decode(data)
	if err != nil {
		c.t.Fatalf("decode task file: %v", err)
	}
	return col.Tasks
}

func TestAddCreatesFileAndReportsID(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("add", "Buy", "milk")
	if want := "Successfully created a new task with description: Buy milk (ID: 1)\n"; out != want {
		t.Errorf("add output = %q, want %q", out, want)
	}
	out = c.mustRun("add", "Write report")
	if !strings.Contains(out, "(ID: 2)") {
		t.Errorf("second add output = %q", out)
	}

	tasks := c.tasks()
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Description != "Buy milk" || tasks[0].Status != task.StatusTodo {
		t.Errorf("task 1 = %+v", tasks[0])
	}
	if tasks[0].CreatedAt.String() != tasks[0].UpdatedAt.String() {
		t.Errorf("new task timestamps differ: %s vs %s", tasks[0].CreatedAt, tasks[0].UpdatedAt)
	}
}

func TestDeleteOutcomes(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("delete", "1")
	if out != "You do not have any tasks\n" {
		t.Errorf("delete on empty = %q", out)
	}

	c.mustRun("add", "a")
	c.mustRun("add", "b")

	out, errOut, err := c.run("delete", "7")
	if err != nil {
		t.Fatalf("delete missing id should not fail: %v", err)
	}
	if out != "" || errOut != "No task found with ID: 7\n" {
		t.Errorf("delete missing: stdout %q stderr %q", out, errOut)
	}

	out = c.mustRun("delete", "1")
	if out != "Successfully deleted the Task ID: 1\n" {
		t.Errorf("delete output = %q", out)
	}
	tasks := c.tasks()
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Errorf("remaining tasks = %+v", tasks)
	}
}

func TestDeleteRejectsNonIntegerID(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("delete", "one")
	if err == nil || !strings.Contains(err.Error(), "invalid task id") {
		t.Errorf("got %v, want invalid task id error", err)
	}
}

func TestDeleteNegativeIDAfterDoubleDash(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "a")

	out, errOut, err := c.run("delete", "--", "-1")
	if err != nil {
		t.Fatalf("delete -- -1: %v", err)
	}
	if out != "" || errOut != "No task found with ID: -1\n" {
		t.Errorf("delete -- -1: stdout %q stderr %q", out, errOut)
	}
	if tasks := c.tasks(); len(tasks) != 1 {
		t.Errorf("got %d tasks, want 1", len(tasks))
	}
}

func TestAddKeepsDescriptionSpacing(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "  two  spaces ", "", "end")

	tasks := c.tasks()
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if want := "  two  spaces   end"; tasks[0].Description != want {
		t.Errorf("description = %q, want %q", tasks[0].Description, want)
	}
}

func TestUpdateJoinsDescriptionWords(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "Buy", "milk")

	out := c.mustRun("update", "1", "--new_desc", "Buy", "oat", "milk", "--new_status", "in-progress")
	want := "Changing description of the task\nChanging status of the task\nSuccessfully updated task id: 1\n"
	if out != want {
		t.Errorf("update output = %q, want %q", out, want)
	}

	got := c.tasks()[0]
	if got.Description != "Buy oat milk" || got.Status != task.StatusInProgress {
		t.Errorf("updated task = %+v", got)
	}
}

func TestUpdateStatusOnly(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "x")

	out := c.mustRun("update", "1", "--new_status", "done")
	if out != "Changing status of the task\nSuccessfully updated task id: 1\n" {
		t.Errorf("update output = %q", out)
	}
	if got := c.tasks()[0]; got.Description != "x" || got.Status != task.StatusDone {
		t.Errorf("updated task = %+v", got)
	}
}

func TestUpdateInvalidStatusWritesNothing(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "x")
	before, err := os.ReadFile(c.file)
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = c.run("update", "1", "--new_status", "blocked")
	if err == nil || !strings.Contains(err.Error(), "invalid status") {
		t.Fatalf("got %v, want invalid status error", err)
	}
	after, err := os.ReadFile(c.file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("task file changed after rejected update")
	}
}

func TestUpdateNotFound(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "x")

	out, errOut, err := c.run("update", "9", "--new_status", "done")
	if err != nil {
		t.Fatalf("update missing id should not fail: %v", err)
	}
	if out != "" || errOut != "No task found with ID: 9\n" {
		t.Errorf("stdout %q stderr %q", out, errOut)
	}
}

func TestUpdateRejectsStrayArguments(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "x")
	if _, _, err := c.run("update", "1", "extra"); err == nil {
		t.Error("expected error for arguments without --new_desc")
	}
}

func TestMarkCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "a")
	c.mustRun("add", "b")

	c.mustRun("mark-in-progress", "1")
	out := c.mustRun("mark-done", "2")
	if !strings.Contains(out, "Successfully updated task id: 2") {
		t.Errorf("mark-done output = %q", out)
	}

	tasks := c.tasks()
	if tasks[0].Status != task.StatusInProgress || tasks[1].Status != task.StatusDone {
		t.Errorf("statuses = %s, %s", tasks[0].Status, tasks[1].Status)
	}
}

func TestListEmpty(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("list"); out != "You do not have any tasks\n" {
		t.Errorf("list on empty = %q", out)
	}
}

func TestListFilters(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "Buy", "milk")
	c.mustRun("add", "Write", "report")
	c.mustRun("add", "Buy", "milk")
	c.mustRun("mark-done", "3")

	out := c.mustRun("list")
	for _, want := range []string{"DESCRIPTION", "Buy milk", "Write report"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = c.mustRun("list", "--status", "done")
	if !strings.HasSuffix(out, "1 tasks found with status: done\n") {
		t.Errorf("status filter output:\n%s", out)
	}

	out = c.mustRun("list", "--desc", "Buy", "milk")
	if !strings.HasSuffix(out, "2 tasks found with description: Buy milk\n") {
		t.Errorf("desc filter output:\n%s", out)
	}

	out = c.mustRun("list", "--desc", "Buy", "milk", "--status", "todo")
	if !strings.HasSuffix(out, "1 tasks found with description: Buy milk; and status: todo\n") {
		t.Errorf("combined filter output:\n%s", out)
	}

	out = c.mustRun("list", "--desc", "buy", "milk")
	if out != "0 tasks found with description: buy milk\n" {
		t.Errorf("case-sensitive filter output = %q", out)
	}
}

func TestListJSON(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "a")
	c.mustRun("add", "b")

	out := c.mustRun("list", "--format", "json", "--status", "todo")
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("list json output is not JSON: %v\n%s", err, out)
	}
	if len(decoded) != 2 || decoded[1]["description"] != "b" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestListRejectsInvalidStatus(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("list", "--status", "blocked"); err == nil {
		t.Error("expected error for invalid status filter")
	}
}

func TestListEmptyFilterValuesListEverything(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "a")
	c.mustRun("add", "b")
	c.mustRun("mark-done", "2")
	all := c.mustRun("list")

	for _, args := range [][]string{
		{"list", "--status", ""},
		{"list", "--desc", ""},
		{"list", "--desc", "", "--status", ""},
	} {
		if out := c.mustRun(args...); out != all {
			t.Errorf("%q output:\n%s\nwant:\n%s", args, out, all)
		}
	}
}

func TestMalformedRecordKeepsOtherTasks(t *testing.T) {
	c := newCLI(t)
	content := `[
    {"id": 1, "description": "keep me", "status": "todo", "createdAt": "2024-05-01 09:00:00", "updatedAt": "2024-05-01 09:00:00"},
    {"id": "2", "description": "bad id", "status": "todo", "createdAt": "2024-05-01 09:00:00", "updatedAt": "2024-05-01 09:00:00"}
]`
	if err := os.WriteFile(c.file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.run("add", "new"); err == nil || !strings.Contains(err.Error(), "not tasks") {
		t.Errorf("add over malformed record: got %v", err)
	}
	out, errOut, err := c.run("list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "keep me") {
		t.Errorf("list output missing valid task:\n%s", out)
	}
	if !strings.Contains(errOut, "[1]") {
		t.Errorf("stderr should name the bad record: %q", errOut)
	}

	data, err := os.ReadFile(c.file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("task file changed:\n%s", data)
	}
}

func TestBrokenFileIsReset(t *testing.T) {
	c := newCLI(t)
	if err := os.WriteFile(c.file, []byte(`{"id": 1}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, errOut, err := c.run("add", "fresh")
	if err != nil {
		t.Fatalf("add over broken file: %v", err)
	}
	if !strings.Contains(out, "(ID: 1)") {
		t.Errorf("add output = %q", out)
	}
	if !strings.Contains(errOut, "not-a-list") {
		t.Errorf("stderr should log the repair: %q", errOut)
	}
	if tasks := c.tasks(); len(tasks) != 1 {
		t.Errorf("got %d tasks, want 1", len(tasks))
	}
}

func TestBackupOnRepairFromEnv(t *testing.T) {
	c := newCLI(t)
	t.Setenv("TASK_TRACKER_BACKUP_ON_REPAIR", "true")
	if err := os.WriteFile(c.file, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c.mustRun("list")
	backup, err := os.ReadFile(c.file + ".bak")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != "not json" {
		t.Errorf("backup = %q", backup)
	}
}

func TestFileFlagAndProjectConfig(t *testing.T) {
	c := newCLI(t)
	dir := filepath.Dir(c.file)
	if err := os.WriteFile(filepath.Join(dir, "task-tracker.toml"), []byte("tasks_file = \"project.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c.mustRun("add", "from project config")
	if _, err := os.Stat(filepath.Join(dir, "project.json")); err != nil {
		t.Errorf("project config not honoured: %v", err)
	}

	c.mustRun("--file", "other.json", "add", "from flag")
	if _, err := os.Stat(filepath.Join(dir, "other.json")); err != nil {
		t.Errorf("--file not honoured: %v", err)
	}
}

func TestDoctor(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "a")

	out := c.mustRun("doctor", "-v")
	for _, want := range []string{"Task Tracker Doctor", "Schema: embedded", "✅ Valid", "[todo] 1: a", "All checks passed"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}

	bad := `[{"id": 1, "description": "a", "status": "blocked", "createdAt": "2024-01-01 00:00:00", "updatedAt": "2024-01-01 00:00:00"}]`
	if err := os.WriteFile(c.file, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	out, _, err := c.run("doctor")
	if err == nil {
		t.Fatal("doctor should fail on an invalid file")
	}
	if !strings.Contains(out, "[0].status") {
		t.Errorf("doctor output missing error path:\n%s", out)
	}
	data, _ := os.ReadFile(c.file)
	if string(data) != bad {
		t.Error("doctor modified the task file")
	}
}

func TestDoctorMissingFile(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("doctor")
	if !strings.Contains(out, "Not found") {
		t.Errorf("doctor output:\n%s", out)
	}
	if _, err := os.Stat(c.file); !os.IsNotExist(err) {
		t.Error("doctor created the task file")
	}
}

func TestConfigCommand(t *testing.T) {
	c := newCLI(t)
	t.Setenv("TASK_TRACKER_LOG_LEVEL", "info")

	out := c.mustRun("--no-lock", "config")
	for _, want := range []string{"KEY", "lock", "flag", "log_level", "environment", "atomic_write", "default"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	out = c.mustRun("config", "--example")
	if !strings.Contains(out, `tasks_file = "tasks.json"`) {
		t.Errorf("example config output:\n%s", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("--log-level", "loud", "list"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("version"); out != "task-tracker version dev\n" {
		t.Errorf("version = %q", out)
	}
	if out := c.mustRun("--version"); out != "task-tracker version dev\n" {
		t.Errorf("--version = %q", out)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("tui")
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("got %v, want TTY error", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestCompletionScripts(t *testing.T) {
	c := newCLI(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out := c.mustRun("completion", shell)
		if !strings.Contains(out, "task-tracker") {
			t.Errorf("%s completion does not mention the binary", shell)
		}
	}
}
