// Package renderer renders analyses as markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderAnalysis renders a full analysis report.
func RenderAnalysis(a *Analysis) string {
	partials := map[string]string{
		"analysis_title":    "templates/analysis_title.md",
		"analysis_metrics":  "templates/analysis_metrics.md",
		"analysis_signals":  "templates/analysis_signals.md",
		"analysis_warnings": "templates/analysis_warnings.md",
	}
	return renderTemplate("analysis", "templates/analysis.md", partials, a)
}

// RenderSignals renders the latest signals only.
func RenderSignals(a *Analysis) string {
	partials := map[string]string{
		"analysis_signals":  "templates/analysis_signals.md",
		"analysis_warnings": "templates/analysis_warnings.md",
	}
	return renderTemplate("signals", "templates/signals.md", partials, a)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
