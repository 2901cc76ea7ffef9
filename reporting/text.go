package reporting

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum-optimism/infra/op-bdd/types"
	"github.com/ethereum-optimism/infra/op-bdd/ui"
)

// statusChar returns a character representing the execution status
func statusChar(status types.ExecutionStatus) string {
	switch status {
	case types.StatusPassed:
		return "✓"
	case types.StatusFailed:
		return "✗"
	case types.StatusIgnored:
		return "⊝"
	case types.StatusBypassed:
		return "⚠"
	default:
		return "?"
	}
}

// TextFormatter renders results as a plain-text summary with the full
// feature, scenario and step hierarchy.
type TextFormatter struct {
	includeSteps   bool
	includeDetails bool
}

// NewTextFormatter creates a text formatter that lists steps and status
// details.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{includeSteps: true, includeDetails: true}
}

// WithSteps controls whether individual steps are listed.
func (f *TextFormatter) WithSteps(enabled bool) *TextFormatter {
	f.includeSteps = enabled
	return f
}

// WithDetails controls whether comments and status details are listed.
func (f *TextFormatter) WithDetails(enabled bool) *TextFormatter {
	f.includeDetails = enabled
	return f
}

func (f *TextFormatter) Name() string { return "text" }

// Format formats the feature results as plain text
func (f *TextFormatter) Format(features []*types.FeatureResult) (string, error) {
	var buf bytes.Buffer
	summary := Summarize(features)

	buf.WriteString("Scenario Results Summary\n")
	buf.WriteString(strings.Repeat("=", 50) + "\n\n")

	if !summary.Start.IsZero() {
		fmt.Fprintf(&buf, "Execution start: %s\n", FormatInstant(summary.Start))
	}
	fmt.Fprintf(&buf, "Execution time: %s\n", formatDuration(summary.Duration))
	fmt.Fprintf(&buf, "Features: %d\n", summary.Features)
	fmt.Fprintf(&buf, "Scenarios: %d (%d passed, %d bypassed, %d ignored, %d failed)\n",
		summary.Scenarios.Total, summary.Scenarios.Passed, summary.Scenarios.Bypassed,
		summary.Scenarios.Ignored, summary.Scenarios.Failed)
	fmt.Fprintf(&buf, "Steps: %d (%d passed, %d bypassed, %d ignored, %d failed, %d not run)\n",
		summary.Steps.Total, summary.Steps.Passed, summary.Steps.Bypassed,
		summary.Steps.Ignored, summary.Steps.Failed, summary.Steps.NotRun)
	fmt.Fprintf(&buf, "Status: %s\n\n", strings.ToUpper(summary.Status().String()))

	for _, feature := range features {
		f.writeFeature(&buf, feature)
	}

	f.writeFailedScenarios(&buf, features)

	return buf.String(), nil
}

func (f *TextFormatter) writeFeature(buf *bytes.Buffer, feature *types.FeatureResult) {
	line := "Feature: " + feature.Name
	if feature.Label != "" {
		line += " [" + feature.Label + "]"
	}
	fmt.Fprintf(buf, "%s - %s\n", line, strings.ToUpper(feature.Status().String()))
	if feature.Description != "" {
		for _, dl := range strings.Split(feature.Description, "\n") {
			fmt.Fprintf(buf, "  %s\n", dl)
		}
	}

	scenarios := feature.Scenarios()
	for i, scenario := range scenarios {
		f.writeScenario(buf, scenario, i == len(scenarios)-1)
	}
	buf.WriteString("\n")
}

func (f *TextFormatter) writeScenario(buf *bytes.Buffer, scenario *types.ScenarioResult, isLast bool) {
	prefix := ui.BuildTreePrefix(1, isLast, nil)
	line := fmt.Sprintf("%s%s %s", prefix, statusChar(scenario.Status), scenario.Name)
	if scenario.Label != "" {
		line += " [" + scenario.Label + "]"
	}
	line += fmt.Sprintf(" (%s)", formatDuration(scenario.ExecutionTime))
	buf.WriteString(line + "\n")

	if !f.includeSteps {
		return
	}
	for i, step := range scenario.Steps {
		f.writeStep(buf, step, 2, []bool{isLast}, i == len(scenario.Steps)-1)
	}
}

func (f *TextFormatter) writeStep(buf *bytes.Buffer, step *types.StepResult, depth int, parentIsLast []bool, isLast bool) {
	prefix := ui.BuildTreePrefix(depth, isLast, parentIsLast)
	line := fmt.Sprintf("%s%s %s. %s", prefix, statusChar(step.Status), step.Info.Path(), step.Info.Name)
	if step.Executed {
		line += fmt.Sprintf(" (%s)", formatDuration(step.ExecutionTime))
	}
	buf.WriteString(line + "\n")

	if f.includeDetails {
		indent := strings.Repeat(" ", utf8.RuneCountInString(prefix)+2)
		for _, comment := range step.Comments {
			fmt.Fprintf(buf, "%s// %s\n", indent, comment)
		}
		if step.Details != "" {
			cont := "\n" + indent + strings.Repeat(" ", 9)
			fmt.Fprintf(buf, "%sDetails: %s\n", indent, strings.ReplaceAll(step.Details, "\n", cont))
		}
	}

	for i, sub := range step.SubSteps {
		childParents := append(append([]bool{}, parentIsLast...), isLast)
		f.writeStep(buf, sub, depth+1, childParents, i == len(step.SubSteps)-1)
	}
}

func (f *TextFormatter) writeFailedScenarios(buf *bytes.Buffer, features []*types.FeatureResult) {
	var failed []string
	for _, feature := range features {
		for _, scenario := range feature.Scenarios() {
			if scenario.Status == types.StatusFailed {
				failed = append(failed, fmt.Sprintf("%s / %s", feature.Name, scenario.Name))
			}
		}
	}
	if len(failed) == 0 {
		return
	}

	buf.WriteString("Failed Scenarios:\n")
	buf.WriteString(strings.Repeat("-", 20) + "\n")
	for _, name := range failed {
		fmt.Fprintf(buf, "- %s\n", name)
	}
}
