package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestToggleTense(t *testing.T) {
	available := []string{"present", "preterite", "future"}
	got := toggleTense(available, []string{"future"}, "present")
	if strings.Join(got, ",") != "present,future" {
		t.Fatalf("unexpected selection %v", got)
	}
	got = toggleTense(available, got, "future")
	if strings.Join(got, ",") != "present" {
		t.Fatalf("unexpected selection %v", got)
	}
	got = toggleTense(available, []string{"pluperfect"}, "present")
	if strings.Join(got, ",") != "present,pluperfect" {
		t.Fatalf("unknown tenses should be kept, got %v", got)
	}
}

func TestSettingsViewToggles(t *testing.T) {
	app, store := newTestApp(t, &fakeSource{verb: hablarYo()}, nil)
	app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	run(t, app, app.settings.loadTenses())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	run(t, app, cmd)
	if store.Snapshot().IncludeVosotros {
		t.Fatalf("expected vosotros toggled off")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	run(t, app, cmd)
	if got := store.Snapshot().TimerDuration; got != 11 {
		t.Fatalf("expected duration 11, got %d", got)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	run(t, app, cmd)
	if got := store.Snapshot().SelectedTenses; len(got) != 1 || got[0] != "preterite" {
		t.Fatalf("expected preterite selected, got %v", got)
	}
	if !strings.Contains(app.View(), "[x] preterite") {
		t.Fatalf("expected checked tense in view:\n%s", app.View())
	}
}

func TestSettingsDurationClamped(t *testing.T) {
	app, store := newTestApp(t, &fakeSource{verb: hablarYo()}, nil)
	if err := store.SetTimerDuration(context.Background(), 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	app.settings.cursor = rowDuration
	run(t, app, app.settings.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}))
	if got := store.Snapshot().TimerDuration; got != 1 {
		t.Fatalf("expected duration to stay at 1, got %d", got)
	}
}

func TestSettingsQuickTogglesAlternate(t *testing.T) {
	app, store := newTestApp(t, &fakeSource{verb: hablarYo()}, nil)
	app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	run(t, app, app.settings.loadTenses())

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	_, first := app.Update(space)
	_, second := app.Update(space)
	run(t, app, second)
	run(t, app, first)
	if !store.Snapshot().IncludeVosotros {
		t.Fatalf("two toggles should restore vosotros")
	}

	app.settings.cursor = rowFirstTense
	x := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
	_, first = app.Update(x)
	_, second = app.Update(x)
	run(t, app, first)
	run(t, app, second)
	if got := store.Snapshot().SelectedTenses; len(got) != 0 {
		t.Fatalf("two tense toggles should clear the selection, got %v", got)
	}
}
