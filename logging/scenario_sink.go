package logging

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-bdd/runner"
	"github.com/ethereum-optimism/infra/op-bdd/types"
	"github.com/ethereum-optimism/infra/op-bdd/ui"
)

const boxWidth = 76

var (
	_ runner.ResultSink = (*ScenarioFileSink)(nil)
	_ runner.ResultSink = (*AllLogsFileSink)(nil)
)

// ScenarioFileSink writes one detail file per scenario into the passed/ and
// failed/ subdirectories of the run directory.
type ScenarioFileSink struct {
	dir *RunDirectory
}

// NewScenarioFileSink creates a sink writing scenario detail files into dir.
func NewScenarioFileSink(dir *RunDirectory) *ScenarioFileSink {
	return &ScenarioFileSink{dir: dir}
}

// Consume writes one file for every scenario of the feature.
func (s *ScenarioFileSink) Consume(result *types.FeatureResult, runID string) error {
	for _, scenario := range result.Scenarios() {
		if err := s.writeScenarioFile(result, scenario); err != nil {
			return err
		}
	}
	return nil
}

// Complete is a no-op, all files are written as results arrive.
func (s *ScenarioFileSink) Complete(runID string) error { return nil }

func (s *ScenarioFileSink) writeScenarioFile(feature *types.FeatureResult, scenario *types.ScenarioResult) error {
	dir := s.dir.PassedDir()
	if scenario.Status == types.StatusFailed {
		dir = s.dir.FailedDir()
	}
	name := scenarioFilename(feature.Name, scenario.Name)
	content := renderScenario(feature, scenario)
	return s.dir.WriteFileAt(filepath.Join(dir, name), content)
}

// scenarioFilename builds the detail file name for a scenario.
func scenarioFilename(featureName, scenarioName string) string {
	return safeFilename(featureName+"_"+scenarioName) + ".txt"
}

// AllLogsFileSink appends every scenario to a single all.log file in the run
// directory, in consumption order.
type AllLogsFileSink struct {
	dir *RunDirectory
}

// NewAllLogsFileSink creates a sink appending scenario logs to all.log.
func NewAllLogsFileSink(dir *RunDirectory) *AllLogsFileSink {
	return &AllLogsFileSink{dir: dir}
}

// Consume appends the feature's scenarios to the combined log.
func (s *AllLogsFileSink) Consume(result *types.FeatureResult, runID string) error {
	writer, err := s.dir.Writer(filepath.Join(s.dir.Dir(), "all.log"))
	if err != nil {
		return err
	}
	var content strings.Builder
	for _, scenario := range result.Scenarios() {
		content.WriteString(renderScenario(result, scenario))
		content.WriteString("\n")
	}
	return writer.Write([]byte(content.String()))
}

// Complete is a no-op, the writer is flushed when the run directory closes.
func (s *AllLogsFileSink) Complete(runID string) error { return nil }

// renderScenario produces the boxed scenario report shared by the per
// scenario files and the combined log.
func renderScenario(feature *types.FeatureResult, scenario *types.ScenarioResult) string {
	var b strings.Builder
	b.WriteString(ui.BuildBoxHeader("SCENARIO: "+scenario.Name, boxWidth))
	b.WriteString(ui.BuildBoxLine(fmt.Sprintf("Feature:  %s", feature.Name), boxWidth))
	if scenario.Label != "" {
		b.WriteString(ui.BuildBoxLine(fmt.Sprintf("Label:    %s", scenario.Label), boxWidth))
	}
	b.WriteString(ui.BuildBoxLine(fmt.Sprintf("Status:   %s", scenario.Status), boxWidth))
	if !scenario.ExecutionStart.IsZero() {
		b.WriteString(ui.BuildBoxLine(fmt.Sprintf("Started:  %s", scenario.ExecutionStart.UTC().Format(time.RFC3339)), boxWidth))
	}
	b.WriteString(ui.BuildBoxLine(fmt.Sprintf("Duration: %s", formatDuration(scenario.ExecutionTime)), boxWidth))
	b.WriteString(ui.BuildBoxFooter(boxWidth))
	b.WriteString("\n")

	b.WriteString("STEPS:\n")
	b.WriteString("~~~~~~\n")
	if len(scenario.Steps) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, step := range scenario.Steps {
		writeStepLines(&b, step, "  ")
	}

	if scenario.Details != "" {
		b.WriteString("\nDETAILS:\n")
		b.WriteString("~~~~~~~~\n")
		b.WriteString(indentText(stripANSIEscapeSequences(scenario.Details), "  "))
		b.WriteString("\n")
	}
	return b.String()
}

func writeStepLines(b *strings.Builder, step *types.StepResult, indent string) {
	line := fmt.Sprintf("%s%s. %s [%s]", indent, step.Info.Path(), step.Info.Name, step.Status)
	if step.Executed {
		line += fmt.Sprintf(" (%s)", formatDuration(step.ExecutionTime))
	}
	b.WriteString(line + "\n")
	for _, param := range step.Parameters {
		line := fmt.Sprintf("%s  <%s> = %s", indent, param.Name, param.Value)
		if param.Details != "" {
			line += " (" + CleanLogOutput(param.Details, false, true) + ")"
		}
		b.WriteString(line + "\n")
	}
	for _, comment := range step.Comments {
		b.WriteString(indent + "  // " + CleanLogOutput(comment, false, true) + "\n")
	}
	if step.Details != "" {
		b.WriteString(indent + "  " + CleanLogOutput(step.Details, true, true) + "\n")
	}
	for _, sub := range step.SubSteps {
		writeStepLines(b, sub, indent+"  ")
	}
}

// indentText prefixes every line of text with the given indent.
func indentText(text, indent string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// formatDuration formats a duration, showing milliseconds below one second.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
