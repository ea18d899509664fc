package verbs

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Conjugator produces the forms of an infinitive in one tense.
type Conjugator interface {
	Conjugate(infinitive, tense string) (ConjugationForm, error)
}

// Catalog is a local Source backed by an infinitive list and a conjugator.
type Catalog struct {
	verbs      []string
	known      map[string]struct{}
	tenses     []string
	conjugator Conjugator

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCatalog returns a Catalog seeded with the current time.
func NewCatalog(infinitives, tenses []string, conjugator Conjugator) (*Catalog, error) {
	return NewCatalogWithRand(infinitives, tenses, conjugator, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewCatalogWithRand returns a Catalog drawing verbs from rnd.
func NewCatalogWithRand(infinitives, tenses []string, conjugator Conjugator, rnd *rand.Rand) (*Catalog, error) {
	if len(infinitives) == 0 {
		return nil, fmt.Errorf("catalog needs at least one verb")
	}
	if len(tenses) == 0 {
		return nil, fmt.Errorf("catalog needs at least one tense")
	}
	known := make(map[string]struct{}, len(infinitives))
	for _, v := range infinitives {
		known[v] = struct{}{}
	}
	return &Catalog{
		verbs:      append([]string(nil), infinitives...),
		known:      known,
		tenses:     append([]string(nil), tenses...),
		conjugator: conjugator,
		rnd:        rnd,
	}, nil
}

// Random picks a verb uniformly and conjugates the requested tenses.
func (c *Catalog) Random(ctx context.Context, q RandomQuery) (VerbConjugations, error) {
	if err := ctx.Err(); err != nil {
		return VerbConjugations{}, err
	}
	tenses, err := c.selectTenses(q.Tenses)
	if err != nil {
		return VerbConjugations{}, err
	}
	c.mu.Lock()
	verb := c.verbs[c.rnd.Intn(len(c.verbs))]
	c.mu.Unlock()

	out, err := c.conjugate(verb, tenses)
	if err != nil {
		return VerbConjugations{}, err
	}
	if !q.IncludeVosotros {
		for key, tc := range out.Tenses {
			tc.Forms.Clear(Vosotros)
			out.Tenses[key] = tc
		}
	}
	return out, nil
}

// Verb conjugates every tense of a known verb.
func (c *Catalog) Verb(ctx context.Context, name string) (VerbConjugations, error) {
	if err := ctx.Err(); err != nil {
		return VerbConjugations{}, err
	}
	if _, ok := c.known[name]; !ok {
		return VerbConjugations{}, fmt.Errorf("%w: %s", ErrVerbNotFound, name)
	}
	return c.conjugate(name, c.tenses)
}

// Tense conjugates one tense of a known verb.
func (c *Catalog) Tense(ctx context.Context, name, tense string) (TenseConjugations, error) {
	if err := ctx.Err(); err != nil {
		return TenseConjugations{}, err
	}
	if _, ok := c.known[name]; !ok {
		return TenseConjugations{}, fmt.Errorf("%w: %s", ErrVerbNotFound, name)
	}
	if !c.hasTense(tense) {
		return TenseConjugations{}, fmt.Errorf("%w: %s", ErrTenseNotFound, tense)
	}
	form, err := c.conjugator.Conjugate(name, tense)
	if err != nil {
		return TenseConjugations{}, err
	}
	return TenseConjugations{Forms: form}, nil
}

// Tenses returns the catalog's tense names in order.
func (c *Catalog) Tenses(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), c.tenses...), nil
}

// Verbs returns the catalog's infinitives.
func (c *Catalog) Verbs() []string {
	return append([]string(nil), c.verbs...)
}

func (c *Catalog) selectTenses(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return c.tenses, nil
	}
	out := make([]string, 0, len(requested))
	for _, t := range requested {
		if !c.hasTense(t) {
			return nil, fmt.Errorf("%w: %s", ErrTenseNotFound, t)
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Catalog) hasTense(name string) bool {
	for _, t := range c.tenses {
		if t == name {
			return true
		}
	}
	return false
}

func (c *Catalog) conjugate(verb string, tenses []string) (VerbConjugations, error) {
	out := VerbConjugations{Verb: verb, Tenses: make(map[string]TenseConjugations, len(tenses))}
	for _, t := range tenses {
		form, err := c.conjugator.Conjugate(verb, t)
		if err != nil {
			return VerbConjugations{}, fmt.Errorf("conjugate %s %s: %w", verb, t, err)
		}
		out.Tenses[t] = TenseConjugations{Forms: form}
	}
	return out, nil
}
