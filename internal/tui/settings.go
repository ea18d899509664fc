package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/conjuga/internal/conjugation"
	"github.com/verte-zerg/conjuga/internal/settings"
	"github.com/verte-zerg/conjuga/internal/verbs"
)

const (
	rowVosotros = iota
	rowTimer
	rowDuration
	rowFirstTense
)

type tensesLoadedMsg struct {
	tenses []string
	err    error
}

type settingsSavedMsg struct {
	err error
}

type settingsView struct {
	ctx    context.Context
	store  *settings.Store
	source verbs.Source
	log    *zap.Logger
	tenses []string
	notice string
	errMsg string
	cursor int
}

func newSettingsView(d Deps) *settingsView {
	return &settingsView{ctx: d.Context, store: d.Settings, source: d.Source, log: d.Log}
}

func (v *settingsView) loadTenses() tea.Cmd {
	source := v.source
	parent := v.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		tenses, err := source.Tenses(ctx)
		return tensesLoadedMsg{tenses: tenses, err: err}
	}
}

func (v *settingsView) rows() int {
	return rowFirstTense + len(v.tenses)
}

func (v *settingsView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tensesLoadedMsg:
		if msg.err != nil || len(msg.tenses) == 0 {
			v.log.Warn("failed to load tenses, using built-in list", zap.Error(msg.err))
			v.tenses = conjugation.TenseKeys()
			v.notice = "Could not load tenses from the verb service; showing the built-in list."
			return nil
		}
		v.tenses = msg.tenses
		v.notice = ""
		return nil
	case settingsSavedMsg:
		if msg.err != nil {
			v.log.Error("failed to save settings", zap.Error(msg.err))
			v.errMsg = fmt.Sprintf("Could not save settings: %v", msg.err)
		} else {
			v.errMsg = ""
		}
		return nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *settingsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		v.cursor = (v.cursor + v.rows() - 1) % v.rows()
	case "down", "j":
		v.cursor = (v.cursor + 1) % v.rows()
	case " ", "space", "enter", "x":
		return v.toggle()
	case "-", "left":
		if v.cursor == rowDuration {
			return v.adjustDuration(-1)
		}
	case "+", "=", "right":
		if v.cursor == rowDuration {
			return v.adjustDuration(1)
		}
	case "c":
		return v.save(func(ctx context.Context) error {
			return v.store.SetSelectedTenses(ctx, nil)
		})
	}
	return nil
}

// toggle flips the row under the cursor. The store computes the new value
// from its latest state, so quick repeated presses alternate.
func (v *settingsView) toggle() tea.Cmd {
	switch {
	case v.cursor == rowVosotros:
		return v.save(v.store.ToggleIncludeVosotros)
	case v.cursor == rowTimer:
		return v.save(v.store.ToggleIsTimerEnabled)
	case v.cursor >= rowFirstTense:
		available := v.tenses
		tense := available[v.cursor-rowFirstTense]
		return v.save(func(ctx context.Context) error {
			return v.store.UpdateSelectedTenses(ctx, func(current []string) []string {
				return toggleTense(available, current, tense)
			})
		})
	}
	return nil
}

// toggleTense flips tense in selected, keeping the order of available.
// Selected tenses the source no longer offers are kept at the end.
func toggleTense(available, selected []string, tense string) []string {
	set := make(map[string]bool, len(selected))
	for _, t := range selected {
		set[t] = true
	}
	set[tense] = !set[tense]

	out := make([]string, 0, len(set))
	seen := make(map[string]bool, len(available))
	for _, t := range available {
		seen[t] = true
		if set[t] {
			out = append(out, t)
		}
	}
	for _, t := range selected {
		if !seen[t] && set[t] {
			out = append(out, t)
		}
	}
	return out
}

func (v *settingsView) adjustDuration(delta int) tea.Cmd {
	return v.save(func(ctx context.Context) error {
		return v.store.AdjustTimerDuration(ctx, delta)
	})
}

func (v *settingsView) save(apply func(ctx context.Context) error) tea.Cmd {
	parent := v.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		return settingsSavedMsg{err: apply(ctx)}
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (v *settingsView) line(row int, text string) string {
	marker := "  "
	if row == v.cursor {
		marker = accentStyle.Render("> ")
	}
	return marker + text
}

func (v *settingsView) view() string {
	snap := v.store.Snapshot()
	lines := []string{
		labelStyle.Render("Quiz"),
		v.line(rowVosotros, fmt.Sprintf("%s Include \"vosotros\" (Spain informal \"you all\")", checkbox(snap.IncludeVosotros))),
		v.line(rowTimer, fmt.Sprintf("%s Timer", checkbox(snap.IsTimerEnabled))),
		v.line(rowDuration, fmt.Sprintf("    Timer duration: - %d s +", snap.TimerDuration)),
		"",
		labelStyle.Render("Tenses") + footerStyle.Render("  (none selected = all tenses)"),
	}
	if v.tenses == nil {
		lines = append(lines, footerStyle.Render("  Loading tenses..."))
	}
	for i, t := range v.tenses {
		lines = append(lines, v.line(rowFirstTense+i, fmt.Sprintf("%s %s", checkbox(snap.HasTense(t)), displayTense(t))))
	}
	lines = append(lines, "", footerStyle.Render("up/down: move  space: toggle  -/+: duration  c: clear tenses"))
	if v.notice != "" {
		lines = append(lines, footerStyle.Render(v.notice))
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render(v.errMsg))
	}
	return strings.Join(lines, "\n")
}
