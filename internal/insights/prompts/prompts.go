package prompts

import (
	_ "embed"
	"os"
	"strings"
	"text/template"
)

//go:embed system.md
var defaultSystemPrompt string

//go:embed report.md
var defaultReportPrompt string

// ReportData fills the report prompt template.
type ReportData struct {
	Symbol       string
	PriceSummary string
	Fundamentals string
	News         string
}

func DefaultSystemPrompt() string {
	return defaultSystemPrompt
}

func DefaultReportPrompt() string {
	return defaultReportPrompt
}

// LoadTemplate reads an override from disk, falling back when the path is
// empty or unreadable.
func LoadTemplate(path string, fallback string) string {
	if path == "" {
		return fallback
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	return string(contents)
}

func RenderReportPrompt(templateText string, data ReportData) (string, error) {
	tmpl, err := template.New("report").Parse(templateText)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", err
	}
	return builder.String(), nil
}
