package quiz

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/verte-zerg/conjuga/internal/verbs"
)

func form(values map[verbs.Pronoun]string) verbs.ConjugationForm {
	var f verbs.ConjugationForm
	for p, v := range values {
		f.Set(p, v)
	}
	return f
}

func hablarPresent() verbs.VerbConjugations {
	return verbs.VerbConjugations{
		Verb: "hablar",
		Tenses: map[string]verbs.TenseConjugations{
			"present": {Forms: form(map[verbs.Pronoun]string{
				verbs.Yo:       "hablo",
				verbs.Tu:       "hablas",
				verbs.Usted:    "habla",
				verbs.Nosotros: "hablamos",
				verbs.Vosotros: "habláis",
				verbs.Ustedes:  "hablan",
			})},
		},
	}
}

func TestDeriveAlwaysPicksUsableForm(t *testing.T) {
	data := verbs.VerbConjugations{
		Verb: "comer",
		Tenses: map[string]verbs.TenseConjugations{
			"present":                {Forms: form(map[verbs.Pronoun]string{verbs.Tu: "comes"})},
			"affirmative_imperative": {Forms: form(map[verbs.Pronoun]string{verbs.Usted: "coma", verbs.Ustedes: "coman"})},
			"empty":                  {},
		},
	}
	for seed := int64(0); seed < 200; seed++ {
		q, err := Derive(rand.New(rand.NewSource(seed)), data)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		got, ok := data.Tenses[q.Tense].Forms.Get(q.Pronoun)
		if !ok {
			t.Fatalf("seed %d: picked %s/%s with no form", seed, q.Tense, q.Pronoun)
		}
		if got != q.CorrectAnswer || q.Verb != "comer" {
			t.Fatalf("seed %d: unexpected question %+v", seed, q)
		}
	}
}

func TestDeriveDeterministicWithSeed(t *testing.T) {
	a, err := Derive(rand.New(rand.NewSource(42)), hablarPresent())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b, err := Derive(rand.New(rand.NewSource(42)), hablarPresent())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical questions, got %+v and %+v", a, b)
	}
}

func TestDeriveEmptyData(t *testing.T) {
	cases := []verbs.VerbConjugations{
		{Verb: "hablar"},
		{Verb: "hablar", Tenses: map[string]verbs.TenseConjugations{}},
		{Verb: "hablar", Tenses: map[string]verbs.TenseConjugations{
			"present":   {},
			"preterite": {Forms: form(map[verbs.Pronoun]string{verbs.Yo: ""})},
		}},
	}
	for i, data := range cases {
		if _, err := Derive(rand.New(rand.NewSource(1)), data); !errors.Is(err, ErrEmptyQuestionData) {
			t.Fatalf("case %d: expected ErrEmptyQuestionData, got %v", i, err)
		}
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		given, correct string
		want           bool
	}{
		{"hablo", "hablo", true},
		{"HABLO", "hablo", true},
		{"Habláis", "habláis", true},
		{"HABLÁIS", "habláis", true},
		{"hablo ", "hablo", false},
		{" hablo", "hablo", false},
		{"hablais", "habláis", false},
		{"", "hablo", false},
		{"no HABLES", "no hables", true},
	}
	for _, tc := range cases {
		if got := Matches(tc.given, tc.correct); got != tc.want {
			t.Fatalf("Matches(%q, %q) = %v, want %v", tc.given, tc.correct, got, tc.want)
		}
	}
}
