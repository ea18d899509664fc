// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/conjuga/internal/model"
	"github.com/verte-zerg/conjuga/internal/stats"
)

const (
	tabOverview = iota
	tabTenses
	tabMissed
)

var (
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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	history stats.History
	cfg     model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(h stats.History, cfg model.StatsConfig) *Model {
	m := &Model{
		history:  h,
		cfg:      cfg,
		tabs:     []string{"Overview", "Tenses", "Missed"},
		overview: viewport.New(0, 0),
	}
	tenses := newTable(stats.TenseRows(nil))
	missed := newTable(stats.MissedRows(nil))
	m.tables = map[int]*table.Model{tabTenses: &tenses, tabMissed: &missed}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
		if t, ok := m.tables[m.activeTab]; ok {
			var cmd tea.Cmd
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderTabs() + "\n" + headerStyle.Render(m.filterSummary())
	body := m.renderBody()
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Reload: r  Quit: q")
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{header, body, footer}, "\n")
	}
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	return strings.Join([]string{
		fitLines(header, m.width, lipgloss.Height(header)),
		fitLines(body, m.width, bodyHeight),
		fitLines(footer, m.width, lipgloss.Height(footer)),
	}, "\n")
}

func (m *Model) bodyHeight() int {
	// tabs (3 lines with border) + filter line + help line
	return max(1, m.height-5)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.overview.Width = m.width
	m.overview.Height = m.bodyHeight()
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(1, m.bodyHeight()-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) filterSummary() string {
	tense := m.cfg.Tense
	if tense == "" {
		tense = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filters: tense=%s  since=%s  last=%s  window=%d", tense, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderBody() string {
	if len(m.report.Sessions) == 0 {
		return "No sessions found."
	}
	switch m.activeTab {
	case tabTenses:
		if len(m.report.TenseAggs) == 0 {
			return "No tense stats found."
		}
		return tableMutedStyle.Render(m.tables[tabTenses].View())
	case tabMissed:
		if len(m.report.Missed) == 0 {
			return "No missed forms. ¡Muy bien!"
		}
		return tableMutedStyle.Render(m.tables[tabMissed].View())
	default:
		return m.overview.View()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.history, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		return
	}
	m.errMsg = ""
	m.report = report
	headers, rows := stats.TenseRows(report.TenseAggs)
	setTable(m.tables[tabTenses], headers, rows)
	headers, rows = stats.MissedRows(report.Missed)
	setTable(m.tables[tabMissed], headers, rows)
	m.updateLayout()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, m.width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	sum := stats.Summarize(report.Sessions, report.TenseAggs)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", sum.Sessions)),
		metricCard("Answers", fmt.Sprintf("%d", sum.Answers)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", sum.Accuracy*100)),
		metricCard("Best", fmt.Sprintf("%.1f%%", sum.BestAccuracy*100)),
		metricCard("Avg Time", fmt.Sprintf("%.1fs", sum.AvgSeconds)),
	}
	var summary string
	if width > 0 && width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var buf bytes.Buffer
	if err := stats.RenderTenseTable(&buf, report.TenseAggsWindow); err != nil {
		return summary
	}
	trend := fmt.Sprintf("Accuracy trend (window %d): [%s]", window, stats.Sparkline(stats.AccuracyCurve(report.Sessions, window)))
	lines := []string{summary, "", trend}
	if weak := stats.WeakestTenses(report.TenseAggsWindow, 3); len(weak) > 0 {
		names := make([]string, len(weak))
		for i, w := range weak {
			names[i] = stats.DisplayTense(w)
		}
		lines = append(lines, "Needs practice: "+strings.Join(names, ", "))
	}
	lines = append(lines, "", fmt.Sprintf("Last %d sessions", len(report.WindowSessionIDs)), strings.TrimRight(buf.String(), "\n"))
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newTable(headers []string, rows [][]string) table.Model {
	t := table.New(table.WithHeight(1))
	t.SetStyles(tableStyles())
	setTable(&t, headers, rows)
	return t
}

func setTable(t *table.Model, headers []string, rows [][]string) {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, row := range rows {
			width = max(width, lipgloss.Width(row[i]))
		}
		cols[i] = table.Column{Title: h, Width: width}
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(tableRows)
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
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
