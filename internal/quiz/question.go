// Package quiz derives conjugation questions and tracks a quiz session.
package quiz

import (
	"errors"
	"math/rand"
	"sort"

	"golang.org/x/text/cases"

	"github.com/verte-zerg/conjuga/internal/verbs"
)

// ErrEmptyQuestionData reports verb data with no usable tense or pronoun.
var ErrEmptyQuestionData = errors.New("verb data has no usable forms")

// Question is a single prompt derived from verb data.
type Question struct {
	Verb          string
	Tense         string
	Pronoun       verbs.Pronoun
	CorrectAnswer string
}

// Derive picks a tense uniformly among those with at least one form, then a pronoun
// uniformly among that tense's usable forms.
func Derive(rnd *rand.Rand, v verbs.VerbConjugations) (Question, error) {
	tenses := make([]string, 0, len(v.Tenses))
	for name, tc := range v.Tenses {
		if len(tc.Forms.Available()) > 0 {
			tenses = append(tenses, name)
		}
	}
	if len(tenses) == 0 {
		return Question{}, ErrEmptyQuestionData
	}
	// Map order is random; sort so a seeded source gives a stable pick.
	sort.Strings(tenses)
	tense := tenses[rnd.Intn(len(tenses))]

	forms := v.Tenses[tense].Forms
	pronouns := forms.Available()
	pronoun := pronouns[rnd.Intn(len(pronouns))]
	answer, _ := forms.Get(pronoun)
	return Question{
		Verb:          v.Verb,
		Tense:         tense,
		Pronoun:       pronoun,
		CorrectAnswer: answer,
	}, nil
}

// Matches compares an answer case-insensitively. Whitespace and accents must match exactly.
func Matches(given, correct string) bool {
	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	return fold.String(given) == fold.String(correct)
}
