package templates

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// GetTemplateFunc returns the centralized template functions used across the application
func GetTemplateFunc() template.FuncMap {
	return template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return d.Truncate(time.Millisecond).String()
		},
		"formatTime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04:05 UTC")
		},
		"getStatusClass": func(status types.ExecutionStatus) string {
			return getStatusString(status)
		},
		"getStatusText": func(status types.ExecutionStatus) string {
			return strings.ToUpper(status.String())
		},
	}
}

// getStatusString returns a consistent lowercase status string
func getStatusString(status types.ExecutionStatus) string {
	return strings.ToLower(status.String())
}
