package reporting

import (
	"encoding/xml"
	"fmt"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// Formatter serializes a set of feature results into a fixed target format.
// Formatting is a pure function of its input: the same results always yield
// byte-identical output.
type Formatter interface {
	// Name identifies the format, e.g. "xml" or "html".
	Name() string
	Format(features []*types.FeatureResult) (string, error)
}

// XMLFormatter renders results as the canonical TestResults XML document.
type XMLFormatter struct{}

// NewXMLFormatter creates a new XML formatter
func NewXMLFormatter() *XMLFormatter {
	return &XMLFormatter{}
}

func (XMLFormatter) Name() string { return "xml" }

// Format renders the TestResults document. The element order is fixed:
// Summary first, then one Feature per result, scenarios and their immediate
// steps nested inside. Sub-steps of composite steps are already rolled up
// into their parent status and do not appear as separate elements.
func (XMLFormatter) Format(features []*types.FeatureResult) (string, error) {
	doc := buildXMLResults(features)
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

type xmlResults struct {
	XMLName  xml.Name     `xml:"TestResults"`
	Summary  xmlSummary   `xml:"Summary"`
	Features []xmlFeature `xml:"Feature"`
}

type xmlSummary struct {
	TestExecutionStart string            `xml:"TestExecutionStart,attr,omitempty"`
	TestExecutionTime  string            `xml:"TestExecutionTime,attr,omitempty"`
	Features           xmlFeaturesCount  `xml:"Features"`
	Scenarios          xmlScenarioCounts `xml:"Scenarios"`
	Steps              xmlStepCounts     `xml:"Steps"`
}

type xmlFeaturesCount struct {
	Count int `xml:"Count,attr"`
}

type xmlScenarioCounts struct {
	Count    int `xml:"Count,attr"`
	Passed   int `xml:"Passed,attr"`
	Bypassed int `xml:"Bypassed,attr"`
	Ignored  int `xml:"Ignored,attr"`
	Failed   int `xml:"Failed,attr"`
}

type xmlStepCounts struct {
	Count    int `xml:"Count,attr"`
	Passed   int `xml:"Passed,attr"`
	Bypassed int `xml:"Bypassed,attr"`
	Ignored  int `xml:"Ignored,attr"`
	Failed   int `xml:"Failed,attr"`
	NotRun   int `xml:"NotRun,attr"`
}

type xmlLabel struct {
	Name string `xml:"Name,attr"`
}

type xmlFeature struct {
	Name        string        `xml:"Name,attr"`
	Description string        `xml:"Description,omitempty"`
	Label       *xmlLabel     `xml:"Label,omitempty"`
	Scenarios   []xmlScenario `xml:"Scenario"`
}

type xmlScenario struct {
	Name           string    `xml:"Name,attr"`
	Status         string    `xml:"Status,attr"`
	ExecutionStart string    `xml:"ExecutionStart,attr"`
	ExecutionTime  string    `xml:"ExecutionTime,attr"`
	Label          *xmlLabel `xml:"Label,omitempty"`
	Steps          []xmlStep `xml:"Step"`
	StatusDetails  string    `xml:"StatusDetails,omitempty"`
}

type xmlStep struct {
	Number int    `xml:"Number,attr"`
	Name   string `xml:"Name,attr"`
	Status string `xml:"Status,attr"`
	// Timing attributes are omitted for steps that were never reached.
	ExecutionStart string `xml:"ExecutionStart,attr,omitempty"`
	ExecutionTime  string `xml:"ExecutionTime,attr,omitempty"`
	StatusDetails  string `xml:"StatusDetails,omitempty"`
}

func buildXMLResults(features []*types.FeatureResult) xmlResults {
	summary := Summarize(features)
	doc := xmlResults{
		Summary: xmlSummary{
			Features: xmlFeaturesCount{Count: summary.Features},
			Scenarios: xmlScenarioCounts{
				Count:    summary.Scenarios.Total,
				Passed:   summary.Scenarios.Passed,
				Bypassed: summary.Scenarios.Bypassed,
				Ignored:  summary.Scenarios.Ignored,
				Failed:   summary.Scenarios.Failed,
			},
			Steps: xmlStepCounts{
				Count:    summary.Steps.Total,
				Passed:   summary.Steps.Passed,
				Bypassed: summary.Steps.Bypassed,
				Ignored:  summary.Steps.Ignored,
				Failed:   summary.Steps.Failed,
				NotRun:   summary.Steps.NotRun,
			},
		},
	}
	if !summary.Start.IsZero() {
		doc.Summary.TestExecutionStart = FormatInstant(summary.Start)
		doc.Summary.TestExecutionTime = FormatISODuration(summary.Duration)
	}

	for _, feature := range features {
		xf := xmlFeature{
			Name:        feature.Name,
			Description: feature.Description,
		}
		if feature.Label != "" {
			xf.Label = &xmlLabel{Name: feature.Label}
		}
		for _, scenario := range feature.Scenarios() {
			xf.Scenarios = append(xf.Scenarios, buildXMLScenario(scenario))
		}
		doc.Features = append(doc.Features, xf)
	}
	return doc
}

func buildXMLScenario(scenario *types.ScenarioResult) xmlScenario {
	xs := xmlScenario{
		Name:           scenario.Name,
		Status:         scenario.Status.String(),
		ExecutionStart: FormatInstant(scenario.ExecutionStart),
		ExecutionTime:  FormatISODuration(scenario.ExecutionTime),
		StatusDetails:  scenario.Details,
	}
	if scenario.Label != "" {
		xs.Label = &xmlLabel{Name: scenario.Label}
	}
	for _, step := range scenario.Steps {
		x := xmlStep{
			Number:        step.Info.Number,
			Name:          step.Info.Name,
			Status:        step.Status.String(),
			StatusDetails: step.Details,
		}
		if step.Executed {
			x.ExecutionStart = FormatInstant(step.ExecutionStart)
			x.ExecutionTime = FormatISODuration(step.ExecutionTime)
		}
		xs.Steps = append(xs.Steps, x)
	}
	return xs
}
