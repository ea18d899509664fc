package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/conjuga/internal/verbs"
)

var (
	// ErrFetchFailed wraps a failed verb fetch.
	ErrFetchFailed = errors.New("failed to fetch verb")
	// ErrNotActive is returned when submitting without an open question.
	ErrNotActive = errors.New("no active question")
	// ErrNotResolved is returned when advancing before the question is answered.
	ErrNotResolved = errors.New("question not answered yet")
)

// State is the engine's lifecycle state.
type State int

// Engine states.
const (
	StateLoading State = iota
	StateActive
	StateResolved
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateResolved:
		return "resolved"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FetchKey holds the settings a verb fetch depends on.
type FetchKey struct {
	IncludeVosotros bool
	Tenses          []string
}

// Equal compares keys, treating tenses as a set.
func (k FetchKey) Equal(other FetchKey) bool {
	if k.IncludeVosotros != other.IncludeVosotros {
		return false
	}
	a := normalizeTenses(k.Tenses)
	b := normalizeTenses(other.Tenses)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Query converts the key into a verb source query.
func (k FetchKey) Query() verbs.RandomQuery {
	return verbs.RandomQuery{IncludeVosotros: k.IncludeVosotros, Tenses: append([]string(nil), k.Tenses...)}
}

func normalizeTenses(tenses []string) []string {
	set := make(map[string]struct{}, len(tenses))
	out := make([]string, 0, len(tenses))
	for _, t := range tenses {
		if _, ok := set[t]; ok {
			continue
		}
		set[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Request identifies one verb fetch. Only the latest request is applied.
type Request struct {
	ID  uint64
	Key FetchKey
}

// Score counts answered and correct questions.
type Score struct {
	QuestionCount int
	CorrectCount  int
}

// Result is the outcome of a submitted answer.
type Result struct {
	Question Question
	Given    string
	Correct  bool
	Elapsed  time.Duration
}

// Engine drives one quiz view: fetch, derive, answer, advance.
// It is not safe for concurrent use; the UI owns it.
type Engine struct {
	rnd   *rand.Rand
	now   func() time.Time
	state State
	key   FetchKey
	seq   uint64

	question  Question
	askedAt   time.Time
	result    Result
	err       error
	score     Score
	requested bool
}

// NewEngine returns an engine drawing questions from rnd.
func NewEngine(rnd *rand.Rand) *Engine {
	return &Engine{rnd: rnd, now: time.Now, state: StateLoading}
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Key returns the fetch key of the latest request.
func (e *Engine) Key() FetchKey { return e.key }

// Score returns the running score.
func (e *Engine) Score() Score { return e.score }

// Err returns the cause of the error state.
func (e *Engine) Err() error { return e.err }

// Question returns the displayed question, if any.
func (e *Engine) Question() (Question, bool) {
	if e.state != StateActive && e.state != StateResolved {
		return Question{}, false
	}
	return e.question, true
}

// Result returns the last submission while resolved.
func (e *Engine) Result() (Result, bool) {
	if e.state != StateResolved {
		return Result{}, false
	}
	return e.result, true
}

// Request starts a new fetch, superseding any in flight.
func (e *Engine) Request(key FetchKey) Request {
	e.seq++
	e.requested = true
	e.key = FetchKey{IncludeVosotros: key.IncludeVosotros, Tenses: append([]string(nil), key.Tenses...)}
	e.state = StateLoading
	e.question = Question{}
	e.result = Result{}
	e.err = nil
	return Request{ID: e.seq, Key: e.key}
}

// Refresh requests a new question when key differs from the current one.
func (e *Engine) Refresh(key FetchKey) (Request, bool) {
	if e.requested && e.key.Equal(key) {
		return Request{}, false
	}
	return e.Request(key), true
}

// Deliver applies a fetch result. Results for superseded requests are dropped.
func (e *Engine) Deliver(id uint64, v verbs.VerbConjugations, fetchErr error) bool {
	if id != e.seq || e.state != StateLoading {
		return false
	}
	if fetchErr != nil {
		e.state = StateError
		e.err = fmt.Errorf("%w: %w", ErrFetchFailed, fetchErr)
		return true
	}
	q, err := Derive(e.rnd, v)
	if err != nil {
		e.state = StateError
		e.err = err
		return true
	}
	e.question = q
	e.askedAt = e.now()
	e.state = StateActive
	return true
}

// Submit evaluates an answer to the active question.
func (e *Engine) Submit(answer string) (Result, error) {
	if e.state != StateActive {
		return Result{}, ErrNotActive
	}
	correct := Matches(answer, e.question.CorrectAnswer)
	e.score.QuestionCount++
	if correct {
		e.score.CorrectCount++
	}
	e.result = Result{
		Question: e.question,
		Given:    answer,
		Correct:  correct,
		Elapsed:  e.now().Sub(e.askedAt),
	}
	e.state = StateResolved
	return e.result, nil
}

// Next advances from a resolved question, or retries after an error.
func (e *Engine) Next(key FetchKey) (Request, error) {
	if e.state != StateResolved && e.state != StateError {
		return Request{}, ErrNotResolved
	}
	return e.Request(key), nil
}

// Reset zeroes the score without touching the question.
func (e *Engine) Reset() {
	e.score = Score{}
}
