package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generator renders a Report in one output format.
type Generator struct {
	format string
}

// NewGenerator creates a generator for json, yaml, or text output.
func NewGenerator(format string) *Generator {
	return &Generator{format: format}
}

// Generate renders the report as a string.
func (g *Generator) Generate(r *Report) (string, error) {
	switch g.format {
	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("encoding yaml report: %w", err)
		}
		return string(data), nil
	case "text":
		return g.generateText(r), nil
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding json report: %w", err)
		}
		return string(data), nil
	}
}

// Save renders the report and writes it to path.
func (g *Generator) Save(r *Report, path string) error {
	content, err := g.Generate(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Extension returns the file extension for the generator's format.
func (g *Generator) Extension() string {
	switch g.format {
	case "yaml":
		return "yaml"
	case "text":
		return "txt"
	default:
		return "json"
	}
}

func (g *Generator) generateText(r *Report) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Masking Report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Project:   %s\n", r.ProjectPath)
	fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	fmt.Fprintf(&b, "Timestamp: %s\n", r.Timestamp)
	fmt.Fprintf(&b, "LLM used:  %t\n", r.Settings.LLMUsed)
	fmt.Fprintf(&b, "Dry run:   %t\n", r.Settings.DryRun)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Summary:")
	fmt.Fprintf(&b, "  Files scanned: %d\n", r.Summary.TotalFilesScanned)
	fmt.Fprintf(&b, "  Files masked:  %d\n", r.Summary.TotalFilesMasked)
	fmt.Fprintf(&b, "  Items masked:  %d\n", r.Summary.TotalItemsMasked)

	if len(r.Files) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Files:")
		for _, file := range r.Files {
			status := fmt.Sprintf("%d masked", file.MaskedCount)
			if file.Error != "" {
				status = "error: " + file.Error
			}
			fmt.Fprintf(&b, "  %s (%s)\n", file.RelPath, status)
			for _, item := range file.Items {
				fmt.Fprintf(&b, "    line %d: %s\n", item.Line, item.Key)
			}
		}
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}

	return b.String()
}
