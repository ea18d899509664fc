package conjugation

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/conjuga/internal/verbs"
)

// Cell is a rendered chart entry split into the unchanged base and the ending.
type Cell struct {
	Base   string
	Ending string
	Empty  bool
}

// String joins base and ending, or returns a dash for an empty cell.
func (c Cell) String() string {
	if c.Empty {
		return NoForm
	}
	return c.Base + c.Ending
}

// ClassOf returns the class of an infinitive from its suffix.
func ClassOf(infinitive string) (Class, bool) {
	switch {
	case strings.HasSuffix(infinitive, "ar"):
		return AR, true
	case strings.HasSuffix(infinitive, "er"):
		return ER, true
	case strings.HasSuffix(infinitive, "ir"):
		return IR, true
	default:
		return "", false
	}
}

// Stem strips the two-letter infinitive suffix.
func Stem(infinitive string) string {
	if len(infinitive) < 2 {
		return ""
	}
	return infinitive[:len(infinitive)-2]
}

// Render builds the chart cell for an infinitive and ending in tense t.
// Future and conditional attach the ending to the whole infinitive.
func Render(infinitive string, t Tense, ending string) Cell {
	if ending == NoForm {
		return Cell{Empty: true}
	}
	if t.KeepsInfinitive() {
		return Cell{Base: infinitive, Ending: ending}
	}
	return Cell{Base: Stem(infinitive), Ending: ending}
}

// RenderPerson renders the form of a person index in tense t.
func RenderPerson(infinitive string, t Tense, person int, plural bool) (Cell, error) {
	class, ok := ClassOf(infinitive)
	if !ok {
		return Cell{}, fmt.Errorf("not an infinitive: %q", infinitive)
	}
	ending, ok := t.Ending(class, person, plural)
	if !ok {
		return Cell{}, fmt.Errorf("no ending for %s person %d in %s %s", class, person, t.Mood, t.Name)
	}
	return Render(infinitive, t, ending), nil
}

// Conjugator produces regular conjugations from the reference table.
type Conjugator struct{}

// Conjugate returns the regular forms of infinitive in the tense identified by key.
func (Conjugator) Conjugate(infinitive, key string) (verbs.ConjugationForm, error) {
	t, ok := ByKey(key)
	if !ok {
		return verbs.ConjugationForm{}, fmt.Errorf("%w: %s", verbs.ErrTenseNotFound, key)
	}
	var form verbs.ConjugationForm
	for i, person := range People {
		for _, plural := range []bool{false, true} {
			cell, err := RenderPerson(infinitive, t, i, plural)
			if err != nil {
				return verbs.ConjugationForm{}, err
			}
			if cell.Empty {
				continue
			}
			value := cell.String()
			if key == "negative_imperative" {
				value = "no " + value
			}
			pronoun := person.Singular
			if plural {
				pronoun = person.Plural
			}
			form.Set(pronoun, value)
		}
	}
	return form, nil
}

// ConjugateAll returns every tense of a regular infinitive keyed by tense key.
func (c Conjugator) ConjugateAll(infinitive string) (map[string]verbs.TenseConjugations, error) {
	out := make(map[string]verbs.TenseConjugations, len(TenseKeys()))
	for _, key := range TenseKeys() {
		form, err := c.Conjugate(infinitive, key)
		if err != nil {
			return nil, err
		}
		out[key] = verbs.TenseConjugations{Forms: form}
	}
	return out, nil
}
