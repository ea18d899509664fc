package verbs

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable reports a transport failure or a non-2xx response from the verb service.
	ErrUnavailable = errors.New("verb service unavailable")
	// ErrVerbNotFound reports an unknown verb.
	ErrVerbNotFound = errors.New("verb not found")
	// ErrTenseNotFound reports an unknown tense.
	ErrTenseNotFound = errors.New("tense not found")
)

// Source supplies verb conjugation data.
type Source interface {
	Random(ctx context.Context, q RandomQuery) (VerbConjugations, error)
	Verb(ctx context.Context, name string) (VerbConjugations, error)
	Tense(ctx context.Context, name, tense string) (TenseConjugations, error)
	Tenses(ctx context.Context) ([]string, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// Unwrap lets callers match ErrUnavailable with errors.Is.
func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}
