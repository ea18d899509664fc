package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/conjuga/internal/conjugation"
	"github.com/verte-zerg/conjuga/internal/textable"
)

type chartsView struct {
	moods    []conjugation.Mood
	moodIdx  int
	tenseIdx int
	width    int
}

func newChartsView() *chartsView {
	return &chartsView{moods: conjugation.Moods()}
}

func (v *chartsView) tenses() []conjugation.Tense {
	return conjugation.TensesFor(v.moods[v.moodIdx])
}

func (v *chartsView) selected() conjugation.Tense {
	return v.tenses()[v.tenseIdx]
}

func (v *chartsView) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "left", "h":
		v.moodIdx = (v.moodIdx + len(v.moods) - 1) % len(v.moods)
		v.tenseIdx = 0
	case "right", "l":
		v.moodIdx = (v.moodIdx + 1) % len(v.moods)
		v.tenseIdx = 0
	case "up", "k":
		n := len(v.tenses())
		v.tenseIdx = (v.tenseIdx + n - 1) % n
	case "down", "j":
		v.tenseIdx = (v.tenseIdx + 1) % len(v.tenses())
	}
	return nil
}

func (v *chartsView) view() string {
	moodNames := make([]string, len(v.moods))
	for i, m := range v.moods {
		moodNames[i] = titleCase(string(m))
	}
	tenses := v.tenses()
	tenseNames := make([]string, len(tenses))
	for i, t := range tenses {
		tenseNames[i] = t.Name
	}

	t := v.selected()
	tables := make([]string, 0, len(conjugation.Classes))
	for _, class := range conjugation.Classes {
		tables = append(tables, styledClassTable(t, class))
	}
	var body string
	if v.width > 0 && lipgloss.Width(lipgloss.JoinHorizontal(lipgloss.Top, tables...)) > v.width {
		body = lipgloss.JoinVertical(lipgloss.Left, tables...)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, tables...)
	}

	return strings.Join([]string{
		renderNav(moodNames, v.moodIdx, activeNavStyle, inactiveNavStyle),
		renderNav(tenseNames, v.tenseIdx, activePillStyle, inactivePillStyle),
		"",
		body,
		"",
		labelStyle.Render("Pronoun Legend"),
		pronounLegend(),
	}, "\n")
}

func styledClassTable(t conjugation.Tense, class conjugation.Class) string {
	verb := conjugation.ExampleVerbs[class]
	headers := []string{"Person", "Singular", "Plural"}
	rows := make([][]string, 0, len(conjugation.People))
	for i, p := range conjugation.People {
		rows = append(rows, []string{p.Label, styledCell(verb, t, i, false), styledCell(verb, t, i, true)})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
		for _, row := range rows {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	lines := []string{labelStyle.Render(fmt.Sprintf("-%s Verbs (%s)", class, verb))}
	for _, row := range append([][]string{headers}, rows...) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = padLine(cell, widths[i])
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return tableStyle.Render(strings.Join(lines, "\n"))
}

func styledCell(verb string, t conjugation.Tense, person int, plural bool) string {
	cell, err := conjugation.RenderPerson(verb, t, person, plural)
	if err != nil || cell.Empty {
		return conjugation.NoForm
	}
	return cell.Base + endingStyle.Render(cell.Ending)
}

func pronounLegend() string {
	lines := make([]string, 0, len(conjugation.People))
	for _, p := range conjugation.People {
		lines = append(lines, fmt.Sprintf("%s Person: %s (singular), %s (plural)", p.Label, p.Singular, p.Plural))
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WriteCharts prints every chart as plain text. Class tables sit side by side
// when they fit in width, otherwise they are stacked.
func WriteCharts(w io.Writer, width int) error {
	for _, mood := range conjugation.Moods() {
		for _, t := range conjugation.TensesFor(mood) {
			if _, err := fmt.Fprintf(w, "%s / %s\n\n", titleCase(string(mood)), t.Name); err != nil {
				return err
			}
			blocks := make([][]string, 0, len(conjugation.Classes))
			for _, class := range conjugation.Classes {
				blocks = append(blocks, plainClassTable(t, class))
			}
			for _, line := range arrangeBlocks(blocks, width) {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Pronoun Legend\n%s\n", pronounLegend())
	return err
}

func plainClassTable(t conjugation.Tense, class conjugation.Class) []string {
	verb := conjugation.ExampleVerbs[class]
	rows := make([][]string, 0, len(conjugation.People))
	for i, p := range conjugation.People {
		singular, _ := conjugation.RenderPerson(verb, t, i, false)
		plural, _ := conjugation.RenderPerson(verb, t, i, true)
		rows = append(rows, []string{p.Label, singular.String(), plural.String()})
	}
	title := fmt.Sprintf("-%s Verbs (%s)", class, verb)
	return append([]string{title}, textable.Format([]string{"Person", "Singular", "Plural"}, rows, nil)...)
}

const blockGap = "    "

// arrangeBlocks joins blocks horizontally when the result fits in width.
// A width of zero or less means unlimited.
func arrangeBlocks(blocks [][]string, width int) []string {
	widths := make([]int, len(blocks))
	total := 0
	height := 0
	for i, block := range blocks {
		for _, line := range block {
			widths[i] = max(widths[i], lipgloss.Width(line))
		}
		total += widths[i]
		height = max(height, len(block))
	}
	total += len(blockGap) * (len(blocks) - 1)

	if width > 0 && total > width {
		var out []string
		for i, block := range blocks {
			if i > 0 {
				out = append(out, "")
			}
			out = append(out, block...)
		}
		return out
	}

	out := make([]string, height)
	for row := 0; row < height; row++ {
		cells := make([]string, len(blocks))
		for i, block := range blocks {
			line := ""
			if row < len(block) {
				line = block[row]
			}
			cells[i] = textable.Pad(line, widths[i], false)
		}
		out[row] = strings.TrimRight(strings.Join(cells, blockGap), " ")
	}
	return out
}
