package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSuite = filepath.Join("testdata", "suite.yaml")

// execute runs the CLI in-process and returns stdout, stderr and the exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), exitCode(err)
}

func TestVersion(t *testing.T) {
	out, _, code := execute(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "gxs version dev")
	assert.Contains(t, out, "heuristics: battery_aware, carry_right_items")
	assert.Contains(t, out, "cost functions: path_length, weighted")
}

func TestValidate(t *testing.T) {
	out, _, code := execute(t, "validate", "--suite", testSuite, "--log-level", "error")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Suite 'cli' is valid: 2 cases, 3 strategies.")
}

func TestValidate_ExampleSuite(t *testing.T) {
	out, _, code := execute(t, "validate", "--suite", filepath.Join("..", "..", "examples", "robot_worker.yaml"), "--log-level", "error")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Suite 'robot-worker' is valid: 3 cases, 5 strategies.")
}

func TestValidate_UnknownHeuristic(t *testing.T) {
	data, err := os.ReadFile(testSuite)
	require.NoError(t, err)
	bad := strings.Replace(string(data), "misplaced_locked", "telepathy", 1)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, _, code := execute(t, "validate", "--suite", path, "--log-level", "error")
	assert.Equal(t, ExitUsageError, code)
}

func TestRun_TextWithProgress(t *testing.T) {
	out, errOut, code := execute(t, "run", "--suite", testSuite, "--log-level", "error", "--parallel", "2")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Case: move-box")
	assert.Contains(t, out, "Case: locked")
	assert.Equal(t, 6, strings.Count(out, "GOAL_STATE_FOUND"))
	assert.Contains(t, errOut, "move-box/bfs")
	assert.Contains(t, errOut, "locked/astar")
}

func TestRun_JSONFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "gxs.prom")
	out, errOut, code := execute(t, "run",
		"--suite", testSuite,
		"--case", "locked",
		"--format", "json",
		"--out", filepath.Join(dir, "results"),
		"--metrics-file", metricsFile,
		"--progress=false",
		"--log-level", "error",
	)
	require.Equal(t, ExitSuccess, code, errOut)

	var decoded struct {
		Rows []struct {
			Case       string `json:"case"`
			Algorithm  string `json:"algorithm"`
			PathLength int    `json:"path_length"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Rows, 3)
	for _, row := range decoded.Rows {
		assert.Equal(t, "locked", row.Case)
	}
	assert.Equal(t, "astar", decoded.Rows[2].Algorithm)
	assert.Equal(t, 5, decoded.Rows[2].PathLength)

	files, err := filepath.Glob(filepath.Join(dir, "results", "search_results_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `gxs_search_runs_total{strategy="astar",termination="GOAL_STATE_FOUND"} 1`)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing suite", []string{"run"}},
		{"unknown flag", []string{"run", "--suite", testSuite, "--colour"}},
		{"unknown command", []string{"fly"}},
		{"bad log level", []string{"run", "--suite", testSuite, "--log-level", "loud"}},
		{"bad log format", []string{"run", "--suite", testSuite, "--log-format", "xml"}},
		{"bad output format", []string{"run", "--suite", testSuite, "--format", "xml", "--log-level", "error"}},
		{"negative parallel", []string{"run", "--suite", testSuite, "--parallel=-1"}},
		{"unknown case", []string{"run", "--suite", testSuite, "--case", "nowhere", "--log-level", "error"}},
		{"missing file", []string{"run", "--suite", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, code := execute(t, tt.args...)
			assert.Equal(t, ExitUsageError, code)
		})
	}
}

func TestSolve(t *testing.T) {
	out, errOut, code := execute(t, "solve", "--suite", testSuite, "--case", "move-box", "--log-level", "error", "--trace")
	require.Equal(t, ExitSuccess, code, errOut)

	var sol struct {
		Success    bool     `json:"success"`
		Status     string   `json:"status"`
		PathLength int      `json:"path_length"`
		Actions    []string `json:"actions"`
		FinalState struct {
			Location string `json:"location"`
		} `json:"final_state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sol))
	assert.True(t, sol.Success)
	assert.Equal(t, "GOAL_STATE_FOUND", sol.Status)
	assert.Equal(t, 3, sol.PathLength)
	assert.Equal(t, []string{"pick up Box", "move to store", "put down Box"}, sol.Actions)
	assert.Equal(t, "store", sol.FinalState.Location)
	assert.Contains(t, errOut, "goal", "trace lines go to stderr")
}

func TestSolve_Overrides(t *testing.T) {
	out, _, code := execute(t, "solve", "--suite", testSuite, "--case", "move-box",
		"--strategy", "astar", "--goal", "workshop=1", "--log-level", "error")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, `"path_length": 0`)

	out, _, code = execute(t, "solve", "--suite", testSuite, "--case", "move-box", "--strength", "2", "--log-level", "error")
	require.Equal(t, ExitSuccess, code, "no plan is still a successful call")
	assert.Contains(t, out, `"success": false`)
	assert.Contains(t, out, "NO_SOLUTION_EXISTS")

	_, _, code = execute(t, "solve", "--suite", testSuite, "--case", "move-box", "--goal", "nowhere", "--log-level", "error")
	assert.Equal(t, ExitUsageError, code)

	_, _, code = execute(t, "solve", "--suite", testSuite, "--case", "missing", "--log-level", "error")
	assert.Equal(t, ExitUsageError, code)
}

func TestParseGoals(t *testing.T) {
	goal, err := parseGoals([]string{"store room=1, 2", "hall=3", "store room=4"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"store room": {1, 2, 4}, "hall": {3}}, goal)

	goal, err = parseGoals(nil)
	assert.NoError(t, err)
	assert.Nil(t, goal)

	for _, bad := range []string{"=1", "store", "store=x"} {
		_, err := parseGoals([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitUsageError, exitCode(errors.New("raised by cobra")))
	assert.Equal(t, ExitUsageError, exitCode(commandError{gxserrors.NewValidationError("bad", nil)}))
	assert.Equal(t, ExitUsageError, exitCode(commandError{gxserrors.NewNotFoundError("case", "x")}))
	assert.Equal(t, ExitFailure, exitCode(commandError{failedRunsError{failed: 1, total: 3}}))
	assert.Equal(t, ExitFailure, exitCode(commandError{errors.New("disk full")}))
}
