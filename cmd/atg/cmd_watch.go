package main

import (
	"context"
	"fmt"

	"atg/internal/ingest"
	"atg/internal/scaffold"
	"atg/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd re-runs generation whenever a supported document changes.
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and regenerate scaffolds on document change",
	Long: `Watches the directory for changes to supported documents (txt, md,
docx, pdf) and re-runs the generate pipeline for each changed file after a
short settle window. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	resolver, err := buildResolver(ctx)
	if err != nil {
		return err
	}
	gen, err := scaffold.NewGenerator(resolver, cfg.Scaffold.Framework, cfg.Scaffold.OutputDir, logger)
	if err != nil {
		return err
	}
	registry := ingest.NewRegistry()

	handler := func(ctx context.Context, path string) {
		written, err := generateFromDocument(ctx, registry, gen, path)
		if err != nil {
			logger.Warn("regeneration failed",
				zap.String("document", path),
				zap.Error(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
	}

	w, err := watch.New(args[0], registry.Extensions(), handler, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (ctrl-c to stop)\n", args[0])
	<-ctx.Done()
	w.Stop()

	return nil
}
