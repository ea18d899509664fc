package quiz

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/verte-zerg/conjuga/internal/verbs"
)

func nosotrosOnly() verbs.VerbConjugations {
	return verbs.VerbConjugations{
		Verb: "hablar",
		Tenses: map[string]verbs.TenseConjugations{
			"present": {Forms: form(map[verbs.Pronoun]string{verbs.Nosotros: "hablamos"})},
		},
	}
}

func activeEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(rand.New(rand.NewSource(1)))
	req := e.Request(FetchKey{IncludeVosotros: true})
	if !e.Deliver(req.ID, nosotrosOnly(), nil) {
		t.Fatalf("expected delivery to apply")
	}
	if e.State() != StateActive {
		t.Fatalf("expected active, got %s", e.State())
	}
	return e
}

func TestEngineCorrectAnswer(t *testing.T) {
	e := activeEngine(t)
	q, ok := e.Question()
	if !ok || q.Pronoun != verbs.Nosotros || q.Tense != "present" {
		t.Fatalf("unexpected question %+v", q)
	}
	res, err := e.Submit("hablamos")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Correct || e.State() != StateResolved {
		t.Fatalf("expected correct resolved, got %+v in %s", res, e.State())
	}
	if s := e.Score(); s.QuestionCount != 1 || s.CorrectCount != 1 {
		t.Fatalf("expected 1/1, got %+v", s)
	}
}

func TestEngineIncorrectAnswerRevealsCorrect(t *testing.T) {
	e := activeEngine(t)
	res, err := e.Submit("hablo")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Correct {
		t.Fatalf("expected incorrect")
	}
	if res.Question.CorrectAnswer != "hablamos" {
		t.Fatalf("expected hablamos revealed, got %q", res.Question.CorrectAnswer)
	}
	if s := e.Score(); s.QuestionCount != 1 || s.CorrectCount != 0 {
		t.Fatalf("expected 0/1, got %+v", s)
	}
	if _, err := e.Submit("hablamos"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive on double submit, got %v", err)
	}
}

func TestEngineScoreInvariant(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(7)))
	key := FetchKey{IncludeVosotros: true}
	req := e.Request(key)
	answers := []string{"hablamos", "x", "HABLAMOS", "hablamos ", "hablamos"}
	for i, a := range answers {
		e.Deliver(req.ID, nosotrosOnly(), nil)
		if _, err := e.Submit(a); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		s := e.Score()
		if s.QuestionCount != i+1 || s.CorrectCount < 0 || s.CorrectCount > s.QuestionCount {
			t.Fatalf("score invariant broken after %d: %+v", i+1, s)
		}
		next, err := e.Next(key)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		req = next
	}
	if s := e.Score(); s.CorrectCount != 3 {
		t.Fatalf("expected 3 correct, got %+v", s)
	}
}

func TestEngineResetKeepsQuestion(t *testing.T) {
	e := activeEngine(t)
	before, _ := e.Question()
	if _, err := e.Submit("hablamos"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	e.Reset()
	if s := e.Score(); s != (Score{}) {
		t.Fatalf("expected zero score, got %+v", s)
	}
	if e.State() != StateResolved {
		t.Fatalf("reset must not change state, got %s", e.State())
	}
	after, ok := e.Question()
	if !ok || after != before {
		t.Fatalf("reset must not change question")
	}
}

func TestEngineLastRequestWins(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(1)))
	first := e.Request(FetchKey{IncludeVosotros: true})
	second := e.Request(FetchKey{IncludeVosotros: false})
	if e.Deliver(first.ID, hablarPresent(), nil) {
		t.Fatalf("stale delivery must be dropped")
	}
	if e.State() != StateLoading {
		t.Fatalf("expected loading, got %s", e.State())
	}
	if !e.Deliver(second.ID, nosotrosOnly(), nil) {
		t.Fatalf("latest delivery must apply")
	}
	q, _ := e.Question()
	if q.CorrectAnswer != "hablamos" {
		t.Fatalf("expected question from latest request, got %+v", q)
	}
	if e.Deliver(second.ID, hablarPresent(), nil) {
		t.Fatalf("duplicate delivery must be dropped")
	}
}

func TestEngineFetchError(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(1)))
	req := e.Request(FetchKey{})
	cause := errors.New("boom")
	e.Deliver(req.ID, verbs.VerbConjugations{}, cause)
	if e.State() != StateError {
		t.Fatalf("expected error state, got %s", e.State())
	}
	if !errors.Is(e.Err(), ErrFetchFailed) || !errors.Is(e.Err(), cause) {
		t.Fatalf("expected wrapped fetch error, got %v", e.Err())
	}
	if _, err := e.Next(FetchKey{}); err != nil {
		t.Fatalf("retry from error: %v", err)
	}
	if e.State() != StateLoading {
		t.Fatalf("expected loading after retry")
	}
}

func TestEngineEmptyDataError(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(1)))
	req := e.Request(FetchKey{})
	e.Deliver(req.ID, verbs.VerbConjugations{Verb: "hablar"}, nil)
	if e.State() != StateError || !errors.Is(e.Err(), ErrEmptyQuestionData) {
		t.Fatalf("expected empty data error, got %s %v", e.State(), e.Err())
	}
	if errors.Is(e.Err(), ErrFetchFailed) {
		t.Fatalf("empty data must be distinguishable from fetch failure")
	}
}

func TestEngineNextRequiresResolved(t *testing.T) {
	e := activeEngine(t)
	if _, err := e.Next(FetchKey{}); !errors.Is(err, ErrNotResolved) {
		t.Fatalf("expected ErrNotResolved, got %v", err)
	}
}

func TestEngineRefreshOnKeyChange(t *testing.T) {
	e := activeEngine(t)
	if _, changed := e.Refresh(FetchKey{IncludeVosotros: true}); changed {
		t.Fatalf("same key must not refetch")
	}
	if e.State() != StateActive {
		t.Fatalf("expected active after no-op refresh")
	}
	req, changed := e.Refresh(FetchKey{IncludeVosotros: true, Tenses: []string{"present"}})
	if !changed || e.State() != StateLoading {
		t.Fatalf("expected refetch on tense change")
	}
	if req.Key.Tenses[0] != "present" {
		t.Fatalf("unexpected request key %+v", req.Key)
	}
}

func TestFetchKeyEqualIgnoresOrder(t *testing.T) {
	a := FetchKey{IncludeVosotros: true, Tenses: []string{"present", "preterite"}}
	b := FetchKey{IncludeVosotros: true, Tenses: []string{"preterite", "present", "present"}}
	if !a.Equal(b) {
		t.Fatalf("expected keys to be equal")
	}
	if a.Equal(FetchKey{IncludeVosotros: false, Tenses: a.Tenses}) {
		t.Fatalf("vosotros flag must matter")
	}
	if a.Equal(FetchKey{IncludeVosotros: true}) {
		t.Fatalf("tense set must matter")
	}
}

func TestEngineRefreshBeforeFirstRequest(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(1)))
	if _, changed := e.Refresh(FetchKey{}); !changed {
		t.Fatalf("first refresh must request a question")
	}
}
