package reporting

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ethereum-optimism/infra/op-bdd/templates"
	"github.com/ethereum-optimism/infra/op-bdd/types"
)

const defaultHTMLTemplate = "report.html.tmpl"

// HTMLReportData is the view model handed to the HTML template.
type HTMLReportData struct {
	Status   types.ExecutionStatus
	Summary  Summary
	Features []*types.FeatureResult
}

// HTMLFormatter renders results as a standalone HTML document.
type HTMLFormatter struct {
	template *template.Template
}

// NewHTMLFormatter creates an HTML formatter from the given template content.
func NewHTMLFormatter(templateContent string) (*HTMLFormatter, error) {
	tmpl, err := template.New("report").Funcs(templates.GetTemplateFunc()).Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return &HTMLFormatter{template: tmpl}, nil
}

// NewDefaultHTMLFormatter creates an HTML formatter using the embedded
// report template.
func NewDefaultHTMLFormatter() (*HTMLFormatter, error) {
	tmpl, err := getHTMLTemplate(defaultHTMLTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLFormatter{template: tmpl}, nil
}

func (f *HTMLFormatter) Name() string { return "html" }

// Format formats the feature results as an HTML document
func (f *HTMLFormatter) Format(features []*types.FeatureResult) (string, error) {
	summary := Summarize(features)
	data := HTMLReportData{
		Status:   summary.Status(),
		Summary:  summary,
		Features: features,
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return buf.String(), nil
}
