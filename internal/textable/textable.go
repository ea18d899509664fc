// Package textable formats plain-text tables aligned by display width.
package textable

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format renders headers and rows as aligned lines. Columns listed in
// rightAlign are padded on the left. Missing cells render empty.
func Format(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlign map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = Pad(cell, width, rightAlign[i])
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

// Pad pads value with spaces to width display cells.
func Pad(value string, width int, right bool) string {
	gap := width - runewidth.StringWidth(value)
	if gap <= 0 {
		return value
	}
	if right {
		return strings.Repeat(" ", gap) + value
	}
	return value + strings.Repeat(" ", gap)
}
