package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gxo-labs/gxs/internal/report"
	"github.com/gxo-labs/gxs/internal/runner"
	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		Suite:   "sample",
		Started: time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC),
		Rows: []runner.Row{
			{
				Case: "move-box", Strategy: "breadth-first", Mode: gxs.ModeBreadth,
				Algorithm: gxs.StrategyBreadthFirst, Termination: gxs.GoalStateFound,
				PathLength: 3, Path: []string{"pick up Box", "move to store", "put down Box"},
				Stats:     gxs.Stats{NodesGenerated: 9, NodesTested: 7, NodesDiscarded: 1, NodesLeftInQueue: 2, TimeTaken: 1500 * time.Microsecond},
				ShowStats: true,
			},
			{
				Case: "move-box", Strategy: "depth-first (randomised)", Mode: gxs.ModeDepth, Randomise: true,
				Algorithm: gxs.StrategyDepthFirst, Termination: gxs.NodeBudgetExceeded,
				Stats:     gxs.Stats{NodesGenerated: 40, NodesTested: 10, NodesLeftInQueue: 30},
				ShowStats: true,
			},
			{
				Case: "locked", Strategy: "quiet", Mode: gxs.ModeBreadth,
				Termination: gxs.NoSolutionExists,
			},
			{
				Case: "locked", Strategy: "broken", Mode: gxs.ModeBreadth,
				Error: "domain error in successor at state x: boom", ShowStats: true,
			},
		},
		Skipped: []string{"idle"},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "Robot worker search results: sample")
	for _, col := range report.Columns {
		assert.Contains(t, out, col)
	}
	assert.Equal(t, 1, strings.Count(out, "Case: move-box"))
	assert.Equal(t, 1, strings.Count(out, "Case: locked"))
	assert.Less(t, strings.Index(out, "Case: move-box"), strings.Index(out, "Case: locked"))

	assert.Contains(t, out, "GOAL_STATE_FOUND")
	assert.Contains(t, out, "0.0015")
	assert.Contains(t, out, "NODE_BUDGET_EXCEEDED")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "DOMAIN_ERROR")
	assert.Contains(t, out, "broken: domain error in successor")
	assert.Contains(t, out, "No goal defined, case skipped.")
	assert.NotContains(t, out, "\x1b[", "no colours when writing to a buffer")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleResult(), report.FormatJSON))

	var decoded struct {
		Suite string `json:"suite"`
		Rows  []struct {
			Case        string   `json:"case"`
			Termination string   `json:"termination_condition"`
			PathLength  int      `json:"path_length"`
			Path        []string `json:"path"`
			Error       string   `json:"error"`
			Stats       struct {
				NodesTested int `json:"nodes_tested"`
			} `json:"search_stats"`
		} `json:"rows"`
		Skipped []string `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sample", decoded.Suite)
	require.Len(t, decoded.Rows, 4)
	assert.Equal(t, "GOAL_STATE_FOUND", decoded.Rows[0].Termination)
	assert.Equal(t, 7, decoded.Rows[0].Stats.NodesTested)
	assert.Len(t, decoded.Rows[0].Path, 3)
	assert.NotEmpty(t, decoded.Rows[3].Error)
	assert.Equal(t, []string{"idle"}, decoded.Skipped)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]report.Format{"": report.FormatText, "TXT": report.FormatText, "text": report.FormatText, " json ": report.FormatJSON} {
		got, err := report.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := report.ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	res := sampleResult()
	assert.Equal(t, "search_results_20240131_154500.txt", report.FileName(res.Started, report.FormatText))
	assert.Equal(t, "search_results_20240131_154500.json", report.FileName(res.Started, report.FormatJSON))

	dir := filepath.Join(t.TempDir(), "results")
	path, err := report.WriteFile(dir, res, report.FormatText)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "search_results_20240131_154500.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Case: move-box")
}

func TestWriteSolution(t *testing.T) {
	sol := &runner.Solution{
		Success:    true,
		Status:     gxs.GoalStateFound,
		Case:       "move-box",
		Strategy:   "breadth-first",
		PathLength: 1,
		Actions:    []string{"move to store"},
	}
	var buf bytes.Buffer
	require.NoError(t, report.WriteSolution(&buf, sol))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "GOAL_STATE_FOUND", decoded["status"])
	assert.Equal(t, float64(1), decoded["path_length"])
	assert.Equal(t, []interface{}{"move to store"}, decoded["actions"])
	assert.NotContains(t, decoded, "final_state")
}
