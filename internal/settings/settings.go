// Package settings keeps user preferences in durable storage and broadcasts changes.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys. Each field lives under its own key as a JSON value.
const (
	KeyIncludeVosotros = "includeVosotros"
	KeySelectedTenses  = "selectedTenses"
	KeyIsTimerEnabled  = "isTimerEnabled"
	KeyTimerDuration   = "timerDuration"
)

// Timer duration bounds in seconds.
const (
	MinTimerDuration = 1
	MaxTimerDuration = 120
)

// ErrInvalidValue reports a setter argument outside its allowed range.
var ErrInvalidValue = errors.New("invalid settings value")

// Settings holds quiz preferences. Empty SelectedTenses means all tenses.
type Settings struct {
	IncludeVosotros bool
	SelectedTenses  []string
	IsTimerEnabled  bool
	TimerDuration   int
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		IncludeVosotros: true,
		SelectedTenses:  []string{},
		IsTimerEnabled:  true,
		TimerDuration:   10,
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.SelectedTenses = append([]string{}, s.SelectedTenses...)
	return out
}

// HasTense reports whether tense is explicitly selected.
func (s Settings) HasTense(tense string) bool {
	for _, t := range s.SelectedTenses {
		if t == tense {
			return true
		}
	}
	return false
}

func encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeBool(raw string) (bool, error) {
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, err
	}
	return v, nil
}

func decodeTenses(raw string) ([]string, error) {
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("selected tenses is null")
	}
	return v, nil
}

func decodeDuration(raw string) (int, error) {
	var v int
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return 0, err
	}
	if err := validateDuration(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validateDuration(v int) error {
	if v < MinTimerDuration || v > MaxTimerDuration {
		return fmt.Errorf("%w: timer duration %d outside %d..%d", ErrInvalidValue, v, MinTimerDuration, MaxTimerDuration)
	}
	return nil
}
