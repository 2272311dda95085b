// Package report renders batch results as text tables or JSON and writes
// result files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gxo-labs/gxs/internal/runner"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Format selects the rendering of a result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" (or "txt") and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", gxserrors.NewConfigError(fmt.Sprintf("unknown report format '%s' (want text or json)", s), nil)
}

func (f Format) extension() string {
	if f == FormatJSON {
		return "json"
	}
	return "txt"
}

// Columns of the text table.
var Columns = []string{
	"Strategy", "Mode", "Randomise", "Result", "Time (s)",
	"Generated", "Tested", "Discarded", "Left", "Path length",
}

const (
	notAvailable = "N/A"
	hidden       = "-"
	ruleWidth    = 50
)

// Write renders res to w in the given format.
func Write(w io.Writer, res *runner.Result, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, res)
	}
	return WriteText(w, res)
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *runner.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteText writes one table per case. Colours are used only when w is a
// terminal.
func WriteText(w io.Writer, res *runner.Result) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	numeric := cell.Align(lipgloss.Right)
	found := cell.Foreground(lipgloss.Color("2"))
	failed := cell.Foreground(lipgloss.Color("1"))

	var b strings.Builder
	fmt.Fprintln(&b, title.Render("Robot worker search results: "+res.Suite))
	fmt.Fprintln(&b, strings.Repeat("=", ruleWidth))

	for _, group := range groupByCase(res.Rows) {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Case: %s\n", group[0].Case)
		fmt.Fprintln(&b, strings.Repeat("-", ruleWidth))

		rows := make([][]string, 0, len(group))
		for _, row := range group {
			rows = append(rows, tableRow(row))
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(Columns...).
			Rows(rows...).
			StyleFunc(func(rowIdx, col int) lipgloss.Style {
				if rowIdx == table.HeaderRow {
					return header
				}
				if col == 3 {
					if group[rowIdx].Error != "" {
						return failed
					}
					if group[rowIdx].Found() {
						return found
					}
				}
				if col >= 4 {
					return numeric
				}
				return cell
			})
		fmt.Fprintln(&b, t.Render())

		for _, row := range group {
			if row.Error != "" {
				fmt.Fprintf(&b, "%s: %s\n", row.Strategy, row.Error)
			}
		}
	}

	for _, name := range res.Skipped {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Case: %s\n", name)
		fmt.Fprintln(&b, strings.Repeat("-", ruleWidth))
		fmt.Fprintln(&b, "No goal defined, case skipped.")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func tableRow(row runner.Row) []string {
	randomise := "no"
	if row.Randomise {
		randomise = "yes"
	}
	result := string(row.Termination)
	if row.Error != "" {
		result = "DOMAIN_ERROR"
	}
	pathLength := notAvailable
	if row.Found() {
		pathLength = strconv.Itoa(row.PathLength)
	}

	out := []string{row.Strategy, string(row.Mode), randomise, result}
	if !row.ShowStats {
		return append(out, hidden, hidden, hidden, hidden, hidden, pathLength)
	}
	st := row.Stats
	return append(out,
		fmt.Sprintf("%.4f", st.TimeTaken.Seconds()),
		strconv.Itoa(st.NodesGenerated),
		strconv.Itoa(st.NodesTested),
		strconv.Itoa(st.NodesDiscarded),
		strconv.Itoa(st.NodesLeftInQueue),
		pathLength,
	)
}

// groupByCase splits rows into runs of the same case, keeping order.
func groupByCase(rows []runner.Row) [][]runner.Row {
	var groups [][]runner.Row
	for _, row := range rows {
		if n := len(groups); n > 0 && groups[n-1][0].Case == row.Case {
			groups[n-1] = append(groups[n-1], row)
			continue
		}
		groups = append(groups, []runner.Row{row})
	}
	return groups
}

// FileName is the result file name for a run started at t, e.g.
// search_results_20240131_154500.txt.
func FileName(t time.Time, format Format) string {
	return fmt.Sprintf("search_results_%s.%s", t.Format("20060102_150405"), format.extension())
}

// WriteFile writes res into dir, creating it if needed, and returns the path
// of the new file.
func WriteFile(dir string, res *runner.Result, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, FileName(res.Started, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create result file '%s': %w", path, err)
	}
	if err := Write(f, res, format); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write result file '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close result file '%s': %w", path, err)
	}
	return path, nil
}

// WriteSolution writes a single-case solution as indented JSON.
func WriteSolution(w io.Writer, sol *runner.Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sol)
}
