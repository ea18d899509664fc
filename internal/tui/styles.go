// Package tui provides the Bubble Tea quiz, charts and settings interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	matchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mismatchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Underline(true)
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Underline(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	endingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	accentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))

	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	activePillStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1)
	inactivePillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Padding(0, 1)
	tableStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

func renderNav(items []string, active int, activeStyle, inactiveStyle lipgloss.Style) string {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		if i == active {
			parts = append(parts, activeStyle.Render(item))
		} else {
			parts = append(parts, inactiveStyle.Render(item))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
