package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"reviewprompt/internal/render"
)

// SummaryTable formats run statistics as an aligned two-column table for
// console display after a generate run.
func SummaryTable(stats render.RunStatistics) string {
	rows := [][2]string{
		{"Comments found", fmt.Sprintf("%d", stats.TotalFound)},
		{"Excluded as resolved", fmt.Sprintf("%d (in %d threads)", stats.ExcludedResolved, len(stats.ExcludedThreadIDs))},
		{"Near-duplicates removed", fmt.Sprintf("%d", stats.DroppedDuplicates)},
		{"Dropped by retention caps", fmt.Sprintf("%d", stats.DroppedByCap)},
	}

	for _, priority := range []string{"critical", "high", "medium", "low"} {
		if n := stats.CountsByPriority[priority]; n > 0 {
			rows = append(rows, [2]string{"  " + priority, fmt.Sprintf("%d", n)})
		}
	}

	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > width {
			width = w
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(runewidth.FillRight(row[0], width))
		sb.WriteString("  ")
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	return sb.String()
}

// Truncate shortens a string to the given display width, appending an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
