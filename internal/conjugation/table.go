// Package conjugation holds the regular conjugation reference table.
package conjugation

import "github.com/verte-zerg/conjuga/internal/verbs"

// Mood groups related tenses.
type Mood string

// Moods covered by the reference table.
const (
	Indicative  Mood = "indicative"
	Subjunctive Mood = "subjunctive"
	Imperative  Mood = "imperative"
)

// Class is a regular verb class named after its infinitive suffix.
type Class string

// Verb classes.
const (
	AR Class = "ar"
	ER Class = "er"
	IR Class = "ir"
)

// Classes lists verb classes in display order.
var Classes = []Class{AR, ER, IR}

// NoForm marks a person that has no form in a tense.
const NoForm = "-"

// Endings holds endings indexed by grammatical person (0 = 1st, 1 = 2nd, 2 = 3rd).
type Endings struct {
	Singular [3]string
	Plural   [3]string
}

// Tense is one row of the reference table.
type Tense struct {
	Mood    Mood
	Name    string
	Key     string
	Endings map[Class]Endings
}

// Person pairs singular and plural pronouns of one grammatical person.
type Person struct {
	Label    string
	Singular verbs.Pronoun
	Plural   verbs.Pronoun
}

// People is the pronoun legend.
var People = [3]Person{
	{Label: "1st", Singular: verbs.Yo, Plural: verbs.Nosotros},
	{Label: "2nd", Singular: verbs.Tu, Plural: verbs.Vosotros},
	{Label: "3rd", Singular: verbs.Usted, Plural: verbs.Ustedes},
}

// ExampleVerbs are the infinitives rendered in charts.
var ExampleVerbs = map[Class]string{
	AR: "trabajar",
	ER: "aprender",
	IR: "escribir",
}

var moodOrder = []Mood{Indicative, Subjunctive, Imperative}

var table = map[Mood][]Tense{
	Indicative: {
		{
			Mood: Indicative, Name: "Present", Key: "present",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"o", "as", "a"}, Plural: [3]string{"amos", "áis", "an"}},
				ER: {Singular: [3]string{"o", "es", "e"}, Plural: [3]string{"emos", "éis", "en"}},
				IR: {Singular: [3]string{"o", "es", "e"}, Plural: [3]string{"imos", "ís", "en"}},
			},
		},
		{
			Mood: Indicative, Name: "Preterite", Key: "preterite",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"é", "aste", "ó"}, Plural: [3]string{"amos", "asteis", "aron"}},
				ER: {Singular: [3]string{"í", "iste", "ió"}, Plural: [3]string{"imos", "isteis", "ieron"}},
				IR: {Singular: [3]string{"í", "iste", "ió"}, Plural: [3]string{"imos", "isteis", "ieron"}},
			},
		},
		{
			Mood: Indicative, Name: "Imperfect", Key: "imperfect",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"aba", "abas", "aba"}, Plural: [3]string{"ábamos", "abais", "aban"}},
				ER: {Singular: [3]string{"ía", "ías", "ía"}, Plural: [3]string{"íamos", "íais", "ían"}},
				IR: {Singular: [3]string{"ía", "ías", "ía"}, Plural: [3]string{"íamos", "íais", "ían"}},
			},
		},
		{
			Mood: Indicative, Name: "Future", Key: "future",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"é", "ás", "á"}, Plural: [3]string{"emos", "éis", "án"}},
				ER: {Singular: [3]string{"é", "ás", "á"}, Plural: [3]string{"emos", "éis", "án"}},
				IR: {Singular: [3]string{"é", "ás", "á"}, Plural: [3]string{"emos", "éis", "án"}},
			},
		},
		{
			Mood: Indicative, Name: "Conditional", Key: "conditional",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"ía", "ías", "ía"}, Plural: [3]string{"íamos", "íais", "ían"}},
				ER: {Singular: [3]string{"ía", "ías", "ía"}, Plural: [3]string{"íamos", "íais", "ían"}},
				IR: {Singular: [3]string{"ía", "ías", "ía"}, Plural: [3]string{"íamos", "íais", "ían"}},
			},
		},
	},
	Subjunctive: {
		{
			Mood: Subjunctive, Name: "Present", Key: "present_subjunctive",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"e", "es", "e"}, Plural: [3]string{"emos", "éis", "en"}},
				ER: {Singular: [3]string{"a", "as", "a"}, Plural: [3]string{"amos", "áis", "an"}},
				IR: {Singular: [3]string{"a", "as", "a"}, Plural: [3]string{"amos", "áis", "an"}},
			},
		},
		{
			Mood: Subjunctive, Name: "Imperfect", Key: "imperfect_subjunctive",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{"ara", "aras", "ara"}, Plural: [3]string{"áramos", "arais", "aran"}},
				ER: {Singular: [3]string{"iera", "ieras", "iera"}, Plural: [3]string{"iéramos", "ierais", "ieran"}},
				IR: {Singular: [3]string{"iera", "ieras", "iera"}, Plural: [3]string{"iéramos", "ierais", "ieran"}},
			},
		},
	},
	Imperative: {
		{
			Mood: Imperative, Name: "Affirmative", Key: "affirmative_imperative",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{NoForm, "a", "e"}, Plural: [3]string{"emos", "ad", "en"}},
				ER: {Singular: [3]string{NoForm, "e", "a"}, Plural: [3]string{"amos", "ed", "an"}},
				IR: {Singular: [3]string{NoForm, "e", "a"}, Plural: [3]string{"amos", "id", "an"}},
			},
		},
		{
			Mood: Imperative, Name: "Negative", Key: "negative_imperative",
			Endings: map[Class]Endings{
				AR: {Singular: [3]string{NoForm, "es", "e"}, Plural: [3]string{"emos", "éis", "en"}},
				ER: {Singular: [3]string{NoForm, "as", "a"}, Plural: [3]string{"amos", "áis", "an"}},
				IR: {Singular: [3]string{NoForm, "as", "a"}, Plural: [3]string{"amos", "áis", "an"}},
			},
		},
	},
}

// Moods returns the moods in display order.
func Moods() []Mood {
	return append([]Mood(nil), moodOrder...)
}

// TensesFor returns the tenses of a mood in display order.
func TensesFor(mood Mood) []Tense {
	return append([]Tense(nil), table[mood]...)
}

// Lookup finds a tense by mood and display name.
func Lookup(mood Mood, name string) (Tense, bool) {
	for _, t := range table[mood] {
		if t.Name == name {
			return t, true
		}
	}
	return Tense{}, false
}

// ByKey finds a tense by its data key.
func ByKey(key string) (Tense, bool) {
	for _, mood := range moodOrder {
		for _, t := range table[mood] {
			if t.Key == key {
				return t, true
			}
		}
	}
	return Tense{}, false
}

// TenseKeys returns every tense key in display order.
func TenseKeys() []string {
	var keys []string
	for _, mood := range moodOrder {
		for _, t := range table[mood] {
			keys = append(keys, t.Key)
		}
	}
	return keys
}

// Ending returns the ending for a class, person index and number.
func (t Tense) Ending(class Class, person int, plural bool) (string, bool) {
	endings, ok := t.Endings[class]
	if !ok || person < 0 || person > 2 {
		return "", false
	}
	if plural {
		return endings.Plural[person], true
	}
	return endings.Singular[person], true
}

// KeepsInfinitive reports whether endings attach to the whole infinitive.
func (t Tense) KeepsInfinitive() bool {
	return t.Mood == Indicative && (t.Name == "Future" || t.Name == "Conditional")
}
