package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/conjuga/internal/model"
	"github.com/verte-zerg/conjuga/internal/quiz"
	"github.com/verte-zerg/conjuga/internal/settings"
	"github.com/verte-zerg/conjuga/internal/verbs"
)

const (
	fetchTimeout = 30 * time.Second
	timerTick    = 100 * time.Millisecond
)

// accentKeys maps alt+<key> to the character it inserts.
var accentKeys = map[rune]rune{
	'a': 'á',
	'e': 'é',
	'i': 'í',
	'o': 'ó',
	'u': 'ú',
	'n': 'ñ',
	'v': 'ü',
}

// AnswerRecorder persists submitted answers.
type AnswerRecorder interface {
	InsertAnswer(ctx context.Context, rec model.AnswerRecord) (int64, error)
}

type fetchedMsg struct {
	id   uint64
	verb verbs.VerbConjugations
	err  error
}

type timerTickMsg struct {
	id uint64
}

type answerSavedMsg struct {
	err error
}

type quizView struct {
	ctx       context.Context
	engine    *quiz.Engine
	source    verbs.Source
	settings  *settings.Store
	history   AnswerRecorder
	log       *zap.Logger
	sessionID string

	input textinput.Model
	timer progress.Model

	requestID uint64
	askedAt   time.Time
	ticking   bool
	now       func() time.Time
	saveErr   string
	width     int
}

func newQuizView(d Deps) *quizView {
	input := textinput.New()
	input.Placeholder = "Your answer"
	input.Prompt = "> "
	input.CharLimit = 64
	input.Width = 32

	timer := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	timer.Width = 40

	return &quizView{
		ctx:       d.Context,
		engine:    quiz.NewEngine(d.Rand),
		source:    d.Source,
		settings:  d.Settings,
		history:   d.History,
		log:       d.Log,
		sessionID: d.SessionID,
		input:     input,
		timer:     timer,
		now:       time.Now,
	}
}

func fetchKey(s settings.Settings) quiz.FetchKey {
	return quiz.FetchKey{IncludeVosotros: s.IncludeVosotros, Tenses: s.SelectedTenses}
}

// start requests the first question.
func (v *quizView) start() tea.Cmd {
	return v.fetch(v.engine.Request(fetchKey(v.settings.Snapshot())))
}

func (v *quizView) fetch(req quiz.Request) tea.Cmd {
	v.requestID = req.ID
	v.ticking = false
	v.input.Reset()
	v.input.Blur()
	source := v.source
	parent := v.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		verb, err := source.Random(ctx, req.Key.Query())
		return fetchedMsg{id: req.ID, verb: verb, err: err}
	}
}

// settingsChanged re-reads the snapshot and refetches when the fetch key moved.
func (v *quizView) settingsChanged() tea.Cmd {
	snap := v.settings.Snapshot()
	if req, ok := v.engine.Refresh(fetchKey(snap)); ok {
		v.log.Debug("fetch key changed, requesting new question", zap.Uint64("request", req.ID))
		return v.fetch(req)
	}
	if snap.IsTimerEnabled && v.engine.State() == quiz.StateActive && !v.ticking {
		v.ticking = true
		return v.tick()
	}
	return nil
}

func (v *quizView) tick() tea.Cmd {
	id := v.requestID
	return tea.Tick(timerTick, func(time.Time) tea.Msg {
		return timerTickMsg{id: id}
	})
}

func (v *quizView) setWidth(width int) {
	v.width = width
	v.timer.Width = max(10, min(60, width-4))
	v.input.Width = max(10, min(40, width-6))
}

func (v *quizView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case fetchedMsg:
		return v.delivered(msg)
	case timerTickMsg:
		if msg.id != v.requestID || v.engine.State() != quiz.StateActive || !v.settings.Snapshot().IsTimerEnabled {
			v.ticking = false
			return nil
		}
		if v.remaining() <= 0 {
			v.ticking = false
			return nil
		}
		return v.tick()
	case answerSavedMsg:
		if msg.err != nil {
			v.log.Error("failed to save answer", zap.Error(msg.err))
			v.saveErr = "Could not save answer history."
		} else {
			v.saveErr = ""
		}
		return nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *quizView) delivered(msg fetchedMsg) tea.Cmd {
	if !v.engine.Deliver(msg.id, msg.verb, msg.err) {
		v.log.Debug("dropped stale fetch result", zap.Uint64("request", msg.id))
		return nil
	}
	if v.engine.State() != quiz.StateActive {
		v.log.Warn("quiz fetch failed", zap.Error(v.engine.Err()))
		return nil
	}
	v.askedAt = v.now()
	cmds := []tea.Cmd{v.input.Focus()}
	if v.settings.Snapshot().IsTimerEnabled {
		v.ticking = true
		cmds = append(cmds, v.tick())
	}
	return tea.Batch(cmds...)
}

func (v *quizView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+r":
		v.engine.Reset()
		return nil
	case "ctrl+n":
		return v.next()
	case "enter":
		switch v.engine.State() {
		case quiz.StateActive:
			return v.submit()
		case quiz.StateResolved, quiz.StateError:
			if !v.input.Focused() {
				return v.next()
			}
		}
		return nil
	}
	if v.engine.State() != quiz.StateActive {
		return nil
	}
	if msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if accent, ok := accentFor(msg.Runes[0]); ok {
			v.insert(accent)
			return nil
		}
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func accentFor(r rune) (rune, bool) {
	accent, ok := accentKeys[unicode.ToLower(r)]
	if !ok {
		return 0, false
	}
	if unicode.IsUpper(r) {
		return unicode.ToUpper(accent), true
	}
	return accent, true
}

func (v *quizView) insert(r rune) {
	value := []rune(v.input.Value())
	pos := min(v.input.Position(), len(value))
	updated := make([]rune, 0, len(value)+1)
	updated = append(updated, value[:pos]...)
	updated = append(updated, r)
	updated = append(updated, value[pos:]...)
	v.input.SetValue(string(updated))
	v.input.SetCursor(pos + 1)
}

func (v *quizView) next() tea.Cmd {
	req, err := v.engine.Next(fetchKey(v.settings.Snapshot()))
	if err != nil {
		return nil
	}
	return v.fetch(req)
}

func (v *quizView) submit() tea.Cmd {
	answer := v.input.Value()
	if answer == "" {
		return nil
	}
	res, err := v.engine.Submit(answer)
	if err != nil {
		return nil
	}
	v.input.Blur()
	v.ticking = false
	return v.save(res)
}

func (v *quizView) save(res quiz.Result) tea.Cmd {
	if v.history == nil {
		return nil
	}
	rec := model.AnswerRecord{
		SessionID:  v.sessionID,
		AnsweredAt: v.now(),
		Verb:       res.Question.Verb,
		Tense:      res.Question.Tense,
		Pronoun:    string(res.Question.Pronoun),
		Expected:   res.Question.CorrectAnswer,
		Given:      res.Given,
		Correct:    res.Correct,
		ElapsedMs:  res.Elapsed.Milliseconds(),
	}
	history := v.history
	ctx := v.ctx
	return func() tea.Msg {
		_, err := history.InsertAnswer(ctx, rec)
		return answerSavedMsg{err: err}
	}
}

func (v *quizView) remaining() time.Duration {
	total := time.Duration(v.settings.Snapshot().TimerDuration) * time.Second
	return total - v.now().Sub(v.askedAt)
}

func (v *quizView) timerRatio() float64 {
	total := time.Duration(v.settings.Snapshot().TimerDuration) * time.Second
	if total <= 0 {
		return 0
	}
	ratio := float64(v.remaining()) / float64(total)
	return max(0, min(1, ratio))
}

func (v *quizView) scoreLine() string {
	score := v.engine.Score()
	return fmt.Sprintf("Score: %d / %d", score.CorrectCount, score.QuestionCount)
}

func (v *quizView) view() string {
	lines := []string{
		v.scoreLine() + footerStyle.Render("  (ctrl+r to reset)"),
		"",
	}
	switch v.engine.State() {
	case quiz.StateLoading:
		lines = append(lines, footerStyle.Render("Loading quiz..."))
		return strings.Join(lines, "\n")
	case quiz.StateError:
		lines = append(lines, errorStyle.Render("Error loading quiz! Press enter to try again."))
		return strings.Join(lines, "\n")
	}

	q, _ := v.engine.Question()
	if v.settings.Snapshot().IsTimerEnabled {
		ratio := v.timerRatio()
		if v.engine.State() == quiz.StateResolved {
			ratio = 0
		}
		lines = append(lines, v.timer.ViewAs(ratio), "")
	}
	lines = append(lines,
		labelStyle.Render("Verb:    ")+valueStyle.Render(q.Verb),
		labelStyle.Render("Tense:   ")+valueStyle.Render(displayTense(q.Tense)),
		labelStyle.Render("Pronoun: ")+valueStyle.Render(string(q.Pronoun)),
		"",
		v.input.View(),
		footerStyle.Render(accentHint()),
		"",
	)
	if res, ok := v.engine.Result(); ok {
		lines = append(lines, renderFeedback(res), "", footerStyle.Render("enter / ctrl+n: next question"))
	}
	if v.saveErr != "" {
		lines = append(lines, errorStyle.Render(v.saveErr))
	}
	return strings.Join(lines, "\n")
}

func accentHint() string {
	keys := []rune{'a', 'e', 'i', 'o', 'u', 'n', 'v'}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("alt+%c %s", k, accentStyle.Render(string(accentKeys[k]))))
	}
	return strings.Join(parts, "  ")
}

func displayTense(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
