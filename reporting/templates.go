package reporting

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/ethereum-optimism/infra/op-bdd/templates"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// getHTMLTemplate loads a named template from the embedded filesystem with
// the shared template functions attached.
func getHTMLTemplate(name string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templates.GetTemplateFunc()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}
