package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todos/internal/commands"
	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
// flagArgs are parsed into the command's own flags first.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool, flagArgs ...string) (stdout, stderr string, code int) {
	t.Helper()

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	require.NoError(t, fs.Parse(flagArgs))

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:     t.TempDir(),
		BaseURL: "http://localhost:3000",
		Timeout: config.DefaultTimeout,
		Quiet:   quiet,
	}

	code = cmd.Run(context.Background(), cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "Buy milk", false)
	svc.AddTask("b", "Walk dog", true)
	svc.AddTask("c", "Call mom", false)
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todos 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

func TestHelpMentionsEveryCommand(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.HelpCmd{}, nil, nil, false)
	for _, cmd := range commands.DefaultRegistry.All() {
		assert.Contains(t, stdout, "todos "+cmd.Name(), "help should mention %s", cmd.Name())
	}
}

// Tests for list command
func TestListCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	testutil.GoldenString(t, "list_text", stdout)
}

func TestListCommand_YAML(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false, "--format", "yaml")

	assert.Equal(t, exitcode.Success, code)
	testutil.GoldenString(t, "list_yaml", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks found\n", stdout)

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, true)
	assert.Empty(t, stdout)

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false, "--format", "json")
	assert.Equal(t, "[]\n", stdout)
}

func TestListCommand_BadFormat(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false, "-f", "xml")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown format: xml\n", stderr)
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), []string{"work"}, false)
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unexpected argument: work\n", stderr)
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)
	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: backend error: load tasks: connection refused\n", stderr)
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ok\n", stdout)

	calls := svc.Calls()
	require.Len(t, calls, 1, "create needs no prior load")
	assert.Equal(t, testutil.Call{Method: "CreateTask", Input: service.TaskInput{Title: "Buy milk"}}, calls[0])
}

func TestAddCommand_TitleRequired(t *testing.T) {
	for _, args := range [][]string{nil, {"  "}} {
		svc := testutil.NewFakeService()
		_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, args, false)

		assert.Equal(t, exitcode.UserError, code)
		assert.Equal(t, "error: title required\n", stderr)
		assert.Empty(t, svc.Calls())
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = service.ErrTimeout

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"x"}, false)
	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: backend error: create task: request timed out\n", stderr)
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"2", "Walk", "the", "dog"}, false)

	assert.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "ok\n", stdout)
	assert.Equal(t, service.Task{ID: "b", Title: "Walk the dog", Completed: true}, svc.Stored()[1])
}

func TestEditCommand_ByID(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"Phone", "mom"}, false, "--id", "c")

	assert.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "Phone mom", svc.Stored()[2].Title)
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		flags  []string
		stderr string
	}{
		{"no ref", nil, nil, "error: task reference required\n"},
		{"bad ref", []string{"x"}, nil, "error: invalid task reference: x\n"},
		{"zero", []string{"0", "t"}, nil, "error: task number out of range: 0\n"},
		{"too big", []string{"4", "t"}, nil, "error: task number out of range: 4\n"},
		{"no title", []string{"1"}, nil, "error: title required\n"},
		{"unknown id", []string{"t"}, []string{"--id", "zz"}, "error: task not found: zz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded()
			_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, tt.args, false, tt.flags...)

			assert.Equal(t, exitcode.UserError, code)
			assert.Equal(t, tt.stderr, stderr)
			for _, c := range svc.Calls() {
				assert.Equal(t, "ListTasks", c.Method)
			}
		})
	}
}

// Tests for toggle command
func TestToggleCommand(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.ToggleCmd{}, svc, []string{"1"}, false)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)
	assert.True(t, svc.Stored()[0].Completed)

	_, _, code = runCommand(t, &commands.ToggleCmd{}, svc, []string{"1"}, true)
	assert.Equal(t, exitcode.Success, code)
	assert.False(t, svc.Stored()[0].Completed)
}

func TestToggleCommand_NotFoundOnServer(t *testing.T) {
	svc := seeded()
	svc.UpdateTaskErr = service.ErrNotFound

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, svc, []string{"1"}, false)
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: update task a: not found\n", stderr)
}

func TestToggleCommand_MissingID(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("", "legacy", false)

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, svc, []string{"1"}, false)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "task has no id")
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)
	stored := svc.Stored()
	require.Len(t, stored, 2)
	assert.Equal(t, "a", stored[0].ID)
	assert.Equal(t, "c", stored[1].ID)
}

func TestRmCommand_ByID(t *testing.T) {
	svc := seeded()

	_, _, code := runCommand(t, &commands.RmCmd{}, svc, nil, false, "--id", "a")

	assert.Equal(t, exitcode.Success, code)
	assert.Len(t, svc.Stored(), 2)
}

func TestRmCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.DeleteTaskErr = errors.New("503")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)
	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: backend error: delete task a: 503\n", stderr)
	assert.Len(t, svc.Stored(), 3)
}

// Tests for config command
func TestConfigCommand_Print(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ConfigCmd{}, nil, nil, false)

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "base_url: http://localhost:3000\n")
	assert.Contains(t, stdout, "timeout: 10s\n")
}

func TestConfigCommand_Init(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), BaseURL: "http://localhost:3000", Timeout: config.DefaultTimeout}
	run := func(flagArgs ...string) (string, string, int) {
		cmd := &commands.ConfigCmd{}
		fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
		cmd.RegisterFlags(fs)
		require.NoError(t, fs.Parse(flagArgs))
		var out, errOut bytes.Buffer
		code := cmd.Run(context.Background(), cfg, nil, nil, &out, &errOut)
		return out.String(), errOut.String(), code
	}

	stdout, _, code := run("--init")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "wrote "+cfg.Path()+"\n", stdout)
	assert.True(t, cfg.HasFile())

	_, stderr, code := run("--init")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "config file already exists")

	_, _, code = run("--init", "--force")
	assert.Equal(t, exitcode.Success, code)
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := commands.NewRegistry()
	require.NoError(t, r.Register(&commands.AddCmd{}))

	err := r.Register(&commands.AddCmd{})
	assert.EqualError(t, err, "command already registered: add")
}

func TestRegistry_FindByAlias(t *testing.T) {
	cmd, ok := commands.DefaultRegistry.Find("done")
	require.True(t, ok)
	assert.Equal(t, "toggle", cmd.Name())

	_, ok = commands.DefaultRegistry.Find("nope")
	assert.False(t, ok)
}
