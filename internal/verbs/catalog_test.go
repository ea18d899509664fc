package verbs_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/verte-zerg/conjuga/internal/conjugation"
	"github.com/verte-zerg/conjuga/internal/verbs"
)

func newCatalog(t *testing.T) *verbs.Catalog {
	t.Helper()
	c, err := verbs.NewCatalogWithRand(
		[]string{"hablar", "comer", "vivir"},
		conjugation.TenseKeys(),
		conjugation.Conjugator{},
		rand.New(rand.NewSource(1)),
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return c
}

func TestCatalogRandomFiltersTenses(t *testing.T) {
	c := newCatalog(t)
	got, err := c.Random(context.Background(), verbs.RandomQuery{IncludeVosotros: true, Tenses: []string{"present"}})
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(got.Tenses) != 1 {
		t.Fatalf("expected 1 tense, got %d", len(got.Tenses))
	}
	if _, ok := got.Tenses["present"]; !ok {
		t.Fatalf("expected present tense")
	}
	switch got.Verb {
	case "hablar", "comer", "vivir":
	default:
		t.Fatalf("unexpected verb %q", got.Verb)
	}
}

func TestCatalogRandomWithoutVosotros(t *testing.T) {
	c := newCatalog(t)
	got, err := c.Random(context.Background(), verbs.RandomQuery{IncludeVosotros: false})
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if len(got.Tenses) != len(conjugation.TenseKeys()) {
		t.Fatalf("expected all tenses, got %d", len(got.Tenses))
	}
	for name, tc := range got.Tenses {
		if _, ok := tc.Forms.Get(verbs.Vosotros); ok {
			t.Fatalf("tense %s still has a vosotros form", name)
		}
	}
}

func TestCatalogRandomUnknownTense(t *testing.T) {
	c := newCatalog(t)
	_, err := c.Random(context.Background(), verbs.RandomQuery{Tenses: []string{"pluperfect"}})
	if !errors.Is(err, verbs.ErrTenseNotFound) {
		t.Fatalf("expected ErrTenseNotFound, got %v", err)
	}
}

func TestCatalogVerbAndTense(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	v, err := c.Verb(ctx, "hablar")
	if err != nil {
		t.Fatalf("verb: %v", err)
	}
	if v.Verb != "hablar" || len(v.Tenses) == 0 {
		t.Fatalf("unexpected verb data: %+v", v)
	}
	tc, err := c.Tense(ctx, "comer", "present")
	if err != nil {
		t.Fatalf("tense: %v", err)
	}
	if got, _ := tc.Forms.Get(verbs.Yo); got != "como" {
		t.Fatalf("expected como, got %q", got)
	}
	if _, err := c.Verb(ctx, "notaverb"); !errors.Is(err, verbs.ErrVerbNotFound) {
		t.Fatalf("expected ErrVerbNotFound, got %v", err)
	}
	if _, err := c.Tense(ctx, "vivir", "notatense"); !errors.Is(err, verbs.ErrTenseNotFound) {
		t.Fatalf("expected ErrTenseNotFound, got %v", err)
	}
}

func TestNewCatalogRequiresVerbs(t *testing.T) {
	if _, err := verbs.NewCatalog(nil, conjugation.TenseKeys(), conjugation.Conjugator{}); err == nil {
		t.Fatalf("expected error for empty verb list")
	}
}
