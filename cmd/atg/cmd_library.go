package main

import (
	"fmt"

	"atg/internal/keyword"
	"atg/internal/report"

	"github.com/spf13/cobra"
)

// libraryCmd lists the persisted keyword library.
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List the persisted action-to-keyword library",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := keyword.NewStore(cfg.Keywords.LibraryPath, logger)
		lib := store.Load()

		fmt.Fprintln(cmd.OutOrStdout(), report.LibraryTable(lib))
		return nil
	},
}
