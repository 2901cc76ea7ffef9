package reporting

import (
	"bytes"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-bdd/types"
	"github.com/ethereum-optimism/infra/op-bdd/ui"
)

// TableFormatter renders feature results as a colored ASCII table for
// console output.
type TableFormatter struct {
	title     string
	showSteps bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(title string, showSteps bool) *TableFormatter {
	return &TableFormatter{
		title:     title,
		showSteps: showSteps,
	}
}

func (f *TableFormatter) Name() string { return "table" }

// Format formats the feature results as an ASCII table
func (f *TableFormatter) Format(features []*types.FeatureResult) (string, error) {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(f.title)

	t.AppendHeader(table.Row{
		"Type", "Name", "Duration", "Steps", "Passed", "Failed", "Ignored", "Bypassed", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "Name", WidthMax: 200, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Steps", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Ignored", Align: text.AlignRight},
		{Name: "Bypassed", Align: text.AlignRight},
	})

	for _, feature := range features {
		f.appendFeatureRows(t, feature)
		t.AppendSeparator()
	}

	summary := Summarize(features)

	// Color the table by the overall result
	switch summary.Status() {
	case types.StatusFailed:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case types.StatusIgnored:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(summary.Duration),
		summary.Steps.Total,
		summary.Steps.Passed,
		summary.Steps.Failed,
		summary.Steps.Ignored,
		summary.Steps.Bypassed,
		strings.ToUpper(summary.Status().String()),
	})

	t.Render()
	return buf.String(), nil
}

func (f *TableFormatter) appendFeatureRows(t table.Writer, feature *types.FeatureResult) {
	scenarios := feature.Scenarios()

	var counts StatusCounts
	var duration time.Duration
	for _, scenario := range scenarios {
		duration += scenario.ExecutionTime
		for _, step := range scenario.Steps {
			counts.add(step.Status)
		}
	}

	t.AppendRow(table.Row{
		"Feature",
		feature.Name,
		formatDuration(duration),
		counts.Total,
		counts.Passed,
		counts.Failed,
		counts.Ignored,
		counts.Bypassed,
		strings.ToUpper(feature.Status().String()),
	})

	for i, scenario := range scenarios {
		isLast := i == len(scenarios)-1
		t.AppendRow(table.Row{
			"Scenario",
			ui.BuildTreePrefix(1, isLast, nil) + scenario.Name,
			formatDuration(scenario.ExecutionTime),
			len(scenario.Steps),
			scenario.CountSteps(types.StatusPassed),
			scenario.CountSteps(types.StatusFailed),
			scenario.CountSteps(types.StatusIgnored),
			scenario.CountSteps(types.StatusBypassed),
			strings.ToUpper(scenario.Status.String()),
		})

		if !f.showSteps {
			continue
		}
		for j, step := range scenario.Steps {
			prefix := ui.BuildTreePrefix(2, j == len(scenario.Steps)-1, []bool{isLast})
			t.AppendRow(table.Row{
				"", // Empty type for steps
				prefix + step.Info.Path() + ". " + step.Info.Name,
				formatDuration(step.ExecutionTime),
				1,
				boolToInt(step.Status == types.StatusPassed),
				boolToInt(step.Status == types.StatusFailed),
				boolToInt(step.Status == types.StatusIgnored),
				boolToInt(step.Status == types.StatusBypassed),
				strings.ToUpper(step.Status.String()),
			})
		}
	}
}

// boolToInt converts a boolean to int for table display
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
