package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestChartsNavigation(t *testing.T) {
	v := newChartsView()
	if got := v.selected(); got.Name != "Present" || string(got.Mood) != "indicative" {
		t.Fatalf("unexpected initial tense %+v", got)
	}
	v.update(tea.KeyMsg{Type: tea.KeyDown})
	if got := v.selected(); got.Name != "Preterite" {
		t.Fatalf("expected preterite, got %s", got.Name)
	}
	v.update(tea.KeyMsg{Type: tea.KeyRight})
	if got := v.selected(); string(got.Mood) != "subjunctive" || got.Name != "Present" {
		t.Fatalf("mood change should reset tense, got %+v", got)
	}
	v.update(tea.KeyMsg{Type: tea.KeyLeft})
	v.update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := v.selected(); string(got.Mood) != "imperative" {
		t.Fatalf("expected wrap to imperative, got %s", got.Mood)
	}
}

func TestChartsViewShowsLegend(t *testing.T) {
	view := newChartsView().view()
	for _, want := range []string{"-ar Verbs (trabajar)", "-er Verbs (aprender)", "-ir Verbs (escribir)", "Pronoun Legend", "1st Person: yo (singular), nosotros/nosotras (plural)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("charts view missing %q:\n%s", want, view)
		}
	}
}

func TestWriteCharts(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCharts(&buf, 0); err != nil {
		t.Fatalf("write charts: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Indicative / Future", "trabajaré", "escribiríamos", "Imperative / Affirmative", "Pronoun Legend"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plain charts missing %q", want)
		}
	}
}

func TestArrangeBlocks(t *testing.T) {
	blocks := [][]string{{"ab", "c"}, {"de"}}
	side := arrangeBlocks(blocks, 0)
	if len(side) != 2 || side[0] != "ab    de" || side[1] != "c" {
		t.Fatalf("unexpected side-by-side layout %q", side)
	}
	stacked := arrangeBlocks(blocks, 5)
	if len(stacked) != 4 || stacked[2] != "" || stacked[3] != "de" {
		t.Fatalf("unexpected stacked layout %q", stacked)
	}
}
