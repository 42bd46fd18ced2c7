// Package scaffold renders resolved test steps into framework-specific
// test-case files using embedded templates.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"atg/internal/keyword"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed templates
var templateFS embed.FS

// Step is one raw input step for a test case.
type Step struct {
	Action         string
	ExpectedResult string
}

// ResolvedStep is a step with its keyword mapping attached. When an action
// cannot be resolved the action itself stands in as the keyword, at zero
// confidence, so the scaffold still documents the intent.
type ResolvedStep struct {
	Action         string
	ExpectedResult string
	Keyword        string
	Confidence     float64
}

// TestCase describes one test case to scaffold.
type TestCase struct {
	Name        string
	Description string
	Steps       []Step
}

// Generator renders test cases through the keyword resolver into files.
type Generator struct {
	resolver  *keyword.Resolver
	framework string
	outputDir string
	templates *template.Template
	logger    *zap.Logger
}

// NewGenerator creates a generator for the given framework and output dir.
func NewGenerator(resolver *keyword.Resolver, framework, outputDir string, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := template.New("scaffold").Funcs(template.FuncMap{
		"snake": snakeCase,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse scaffold templates: %w", err)
	}

	return &Generator{
		resolver:  resolver,
		framework: framework,
		outputDir: outputDir,
		templates: templates,
		logger:    logger,
	}, nil
}

// templateContext is the data handed to a scaffold template.
type templateContext struct {
	RunID       string
	Name        string
	Description string
	Steps       []ResolvedStep
}

// Generate resolves the test case's steps, renders the framework template
// and writes the scaffold file. It returns the written file path.
func (g *Generator) Generate(ctx context.Context, tc TestCase) (string, error) {
	tmpl := g.templates.Lookup("test_case_" + g.framework + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("no template found for framework: %s", g.framework)
	}

	steps := make([]ResolvedStep, 0, len(tc.Steps))
	for _, step := range tc.Steps {
		kw, confidence := g.resolver.MapActionToKeyword(ctx, step.Action)
		if kw == "" {
			kw = step.Action
		}
		steps = append(steps, ResolvedStep{
			Action:         step.Action,
			ExpectedResult: step.ExpectedResult,
			Keyword:        kw,
			Confidence:     confidence,
		})
	}

	var buf bytes.Buffer
	data := templateContext{
		RunID:       uuid.NewString(),
		Name:        tc.Name,
		Description: tc.Description,
		Steps:       steps,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(g.outputDir, Filename(tc.Name, g.framework))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write scaffold: %w", err)
	}

	g.logger.Info("generated test scaffold",
		zap.String("path", path),
		zap.String("framework", g.framework),
		zap.Int("steps", len(steps)),
		zap.String("run_id", data.RunID))

	return path, nil
}

// Filename derives the scaffold file name from the test name and framework.
func Filename(name, framework string) string {
	snake := snakeCase(name)
	if framework == "robot" {
		return snake + ".robot"
	}
	return "test_" + snake + ".py"
}

func snakeCase(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}
