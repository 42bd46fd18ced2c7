package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"atg/internal/ingest"
	"atg/internal/keyword"
	"atg/internal/llm"
	"atg/internal/report"
	"atg/internal/scaffold"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genFramework string
	genOutputDir string
)

// generateCmd runs the full pipeline: parse -> segment -> resolve -> render.
var generateCmd = &cobra.Command{
	Use:   "generate [document...]",
	Short: "Generate test scaffolds from requirement documents",
	Long: `Parses each document, extracts test steps, resolves every action
phrase to an automation keyword, and renders a test scaffold per document.

Example:
  atg generate docs/login_requirements.md --framework robot`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genFramework, "framework", "f", "", "Target framework: robot or pytest (default: config)")
	generateCmd.Flags().StringVarP(&genOutputDir, "output", "o", "", "Output directory (default: config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	resolver, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	framework := cfg.Scaffold.Framework
	if genFramework != "" {
		framework = genFramework
	}
	outputDir := cfg.Scaffold.OutputDir
	if genOutputDir != "" {
		outputDir = genOutputDir
	}

	gen, err := scaffold.NewGenerator(resolver, framework, outputDir, logger)
	if err != nil {
		return err
	}

	registry := ingest.NewRegistry()
	for _, path := range args {
		written, err := generateFromDocument(ctx, registry, gen, path)
		if err != nil {
			return fmt.Errorf("generating from %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
	}

	if unmapped := resolver.UnmappedActions(); len(unmapped) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), report.UnmappedTable(unmapped))
		fmt.Fprintln(cmd.OutOrStdout(), "Run `atg feedback` to supply mappings for unmapped actions.")
	}

	return nil
}

// generateFromDocument parses one document and renders its scaffold,
// returning the path written.
func generateFromDocument(ctx context.Context, registry *ingest.Registry, gen *scaffold.Generator, path string) (string, error) {
	text, err := registry.Parse(path)
	if err != nil {
		return "", err
	}

	steps := ingest.ExtractSteps(text)
	if len(steps) == 0 {
		return "", fmt.Errorf("no test steps found in %s", path)
	}
	logger.Info("extracted steps",
		zap.String("document", path),
		zap.Int("count", len(steps)))

	tc := scaffold.TestCase{
		Name:        caseName(path),
		Description: fmt.Sprintf("Generated from %s", filepath.Base(path)),
		Steps:       make([]scaffold.Step, 0, len(steps)),
	}
	for _, s := range steps {
		tc.Steps = append(tc.Steps, scaffold.Step{
			Action:         s.Action,
			ExpectedResult: s.ExpectedResult,
		})
	}

	return gen.Generate(ctx, tc)
}

// caseName derives a test-case name from the document filename.
func caseName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}

// buildResolver wires the configured LLM client and keyword store into a
// resolver.
func buildResolver(ctx context.Context) (*keyword.Resolver, error) {
	client, err := llm.NewClientFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store := keyword.NewStore(cfg.Keywords.LibraryPath, logger)
	return keyword.NewResolver(client, store, cfg.Keywords.MinConfidence, logger), nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
