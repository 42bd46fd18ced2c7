// Package report renders terminal tables for the keyword library and the
// unmapped-actions report.
package report

import (
	"fmt"
	"sort"

	"atg/internal/keyword"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LibraryTable renders the keyword library sorted by action phrase.
func LibraryTable(lib keyword.Library) string {
	actions := make([]string, 0, len(lib))
	for action := range lib {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Action", "Keyword", "Confidence"})
	for _, action := range actions {
		entry := lib[action]
		w.AppendRow(table.Row{action, entry.Keyword, fmt.Sprintf("%.2f", entry.Confidence)})
	}
	w.AppendFooter(table.Row{"", "entries", len(lib)})

	return w.Render()
}

// UnmappedTable renders the actions that failed resolution and need human
// review via feedback.
func UnmappedTable(actions []string) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Unmapped Action"})
	for _, action := range actions {
		w.AppendRow(table.Row{action})
	}

	return w.Render()
}
