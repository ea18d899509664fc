package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/conjuga/internal/model"
)

type fakeHistory struct {
	sessions []model.SessionAggregate
	aggs     []model.TenseAggregate
	missed   []model.MissedForm
	err      error
}

func (f *fakeHistory) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.sessions, f.err
}

func (f *fakeHistory) TenseAggregates(context.Context, model.StatsConfig, []string) ([]model.TenseAggregate, error) {
	return f.aggs, nil
}

func (f *fakeHistory) MissedForms(context.Context, model.StatsConfig, []string, int) ([]model.MissedForm, error) {
	return f.missed, nil
}

func sampleHistory() *fakeHistory {
	start := time.Unix(1_700_000_000, 0)
	return &fakeHistory{
		sessions: []model.SessionAggregate{
			{SessionID: "a", StartedAt: start, EndedAt: start.Add(time.Minute), Correct: 3, Incorrect: 1},
			{SessionID: "b", StartedAt: start.Add(time.Hour), EndedAt: start.Add(time.Hour + time.Minute), Correct: 1, Incorrect: 1},
		},
		aggs: []model.TenseAggregate{
			{Tense: "present", Correct: 4, Incorrect: 0, ElapsedSumMs: 8000},
			{Tense: "imperfect_subjunctive", Correct: 0, Incorrect: 2, ElapsedSumMs: 9000},
		},
		missed: []model.MissedForm{
			{Verb: "hablar", Tense: "imperfect_subjunctive", Pronoun: "yo", Expected: "hablara", Misses: 2, Attempts: 2},
		},
	}
}

func TestOverview(t *testing.T) {
	m := NewModel(sampleHistory(), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Sessions", "66.7%", "Needs practice: imperfect subjunctive"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestTabsShowTables(t *testing.T) {
	m := NewModel(sampleHistory(), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if view := m.View(); !strings.Contains(view, "imperfect subjunctive") || !strings.Contains(view, "Accuracy") {
		t.Fatalf("tenses tab missing table:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if view := m.View(); !strings.Contains(view, "hablara") {
		t.Fatalf("missed tab missing form:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to overview, got %d", m.activeTab)
	}
}

func TestEmptyAndErrorStates(t *testing.T) {
	m := NewModel(&fakeHistory{}, model.StatsConfig{})
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty state:\n%s", m.View())
	}
	m = NewModel(&fakeHistory{err: errors.New("disk gone")}, model.StatsConfig{})
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatalf("expected error message:\n%s", m.View())
	}
}

func TestCurveWindowSteps(t *testing.T) {
	tests := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tt := range tests {
		if got := nextCurveWindow(tt.in); got != tt.next {
			t.Fatalf("next(%d): expected %d, got %d", tt.in, tt.next, got)
		}
		if got := prevCurveWindow(tt.in); got != tt.prev {
			t.Fatalf("prev(%d): expected %d, got %d", tt.in, tt.prev, got)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeHistory{}, model.StatsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
