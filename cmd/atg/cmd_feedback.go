package main

import (
	"context"
	"errors"
	"fmt"

	"atg/internal/keyword"

	"github.com/spf13/cobra"
)

var feedbackConfidence float64

// feedbackCmd records a human-supplied mapping in the keyword library.
var feedbackCmd = &cobra.Command{
	Use:   "feedback [action] [keyword]",
	Short: "Record a human-verified action-to-keyword mapping",
	Long: `Overwrites or creates the library entry for the action phrase and
persists it. Use this to correct a wrong mapping or to supply one for an
action the model could not resolve.

Example:
  atg feedback "select dropdown" "Select From List" --confidence 0.95`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().Float64Var(&feedbackConfidence, "confidence", 1.0, "Confidence for the mapping (0-1)")
}

// offlineClient satisfies the model interface for commands that must never
// reach the network.
type offlineClient struct{}

func (offlineClient) Complete(context.Context, string) (string, error) {
	return "", errors.New("model calls are disabled for this command")
}

func (offlineClient) CompleteWithSystem(context.Context, string, string) (string, error) {
	return "", errors.New("model calls are disabled for this command")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	action, kw := args[0], args[1]
	if feedbackConfidence < 0 || feedbackConfidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1, got %.2f", feedbackConfidence)
	}

	store := keyword.NewStore(cfg.Keywords.LibraryPath, logger)
	resolver := keyword.NewResolver(offlineClient{}, store, cfg.Keywords.MinConfidence, logger)
	resolver.AddFeedback(action, kw, feedbackConfidence)

	fmt.Fprintf(cmd.OutOrStdout(), "recorded %q -> %q (%.2f)\n", action, kw, feedbackConfidence)
	return nil
}
