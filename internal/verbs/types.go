// Package verbs defines verb conjugation data and the sources that supply it.
package verbs

// Pronoun identifies one of the six grammatical persons used as conjugation keys.
type Pronoun string

// Pronoun keys as they appear in verb data.
const (
	Yo       Pronoun = "yo"
	Tu       Pronoun = "tú"
	Usted    Pronoun = "él/ella/usted"
	Nosotros Pronoun = "nosotros/nosotras"
	Vosotros Pronoun = "vosotros/vosotras"
	Ustedes  Pronoun = "ellos/ellas/ustedes"
)

// Pronouns lists every pronoun in canonical order.
var Pronouns = []Pronoun{Yo, Tu, Usted, Nosotros, Vosotros, Ustedes}

// ConjugationForm maps each pronoun to an optional conjugated form.
// A nil or empty value means the tense has no form for that pronoun.
type ConjugationForm struct {
	Yo       *string `json:"yo"`
	Tu       *string `json:"tú"`
	Usted    *string `json:"él/ella/usted"`
	Nosotros *string `json:"nosotros/nosotras"`
	Vosotros *string `json:"vosotros/vosotras"`
	Ustedes  *string `json:"ellos/ellas/ustedes"`
}

// TenseConjugations wraps the forms of a single tense.
type TenseConjugations struct {
	Forms ConjugationForm `json:"forms"`
}

// VerbConjugations holds every tense of a verb keyed by tense name.
type VerbConjugations struct {
	Verb   string                       `json:"verb"`
	Tenses map[string]TenseConjugations `json:"tenses"`
}

// RandomQuery parameterizes a random verb request.
type RandomQuery struct {
	IncludeVosotros bool
	Tenses          []string
}

func (f *ConjugationForm) slot(p Pronoun) **string {
	switch p {
	case Yo:
		return &f.Yo
	case Tu:
		return &f.Tu
	case Usted:
		return &f.Usted
	case Nosotros:
		return &f.Nosotros
	case Vosotros:
		return &f.Vosotros
	case Ustedes:
		return &f.Ustedes
	default:
		return nil
	}
}

// Get returns the form for p and whether it is usable.
func (f ConjugationForm) Get(p Pronoun) (string, bool) {
	slot := f.slot(p)
	if slot == nil || *slot == nil || **slot == "" {
		return "", false
	}
	return **slot, true
}

// Set stores a form for p. An empty value clears it.
func (f *ConjugationForm) Set(p Pronoun, value string) {
	slot := f.slot(p)
	if slot == nil {
		return
	}
	if value == "" {
		*slot = nil
		return
	}
	v := value
	*slot = &v
}

// Clear removes the form for p.
func (f *ConjugationForm) Clear(p Pronoun) {
	if slot := f.slot(p); slot != nil {
		*slot = nil
	}
}

// Available returns the pronouns that have a usable form, in canonical order.
func (f ConjugationForm) Available() []Pronoun {
	out := make([]Pronoun, 0, len(Pronouns))
	for _, p := range Pronouns {
		if _, ok := f.Get(p); ok {
			out = append(out, p)
		}
	}
	return out
}
