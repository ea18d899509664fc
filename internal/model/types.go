// Package model defines shared data structures.
package model

import "time"

// Config defines quiz runtime settings resolved from flags and the config file.
type Config struct {
	APIURL        string
	Timeout       time.Duration
	VerbsPath     string
	SettingsStore string
	RedisURL      string
	PollInterval  time.Duration
	DBPath        string
	ServeAddr     string
	LogLevel      string
	LogFile       string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Tense       string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// AnswerRecord captures one submitted answer.
type AnswerRecord struct {
	SessionID  string
	AnsweredAt time.Time
	Verb       string
	Tense      string
	Pronoun    string
	Expected   string
	Given      string
	Correct    bool
	ElapsedMs  int64
}

// SessionAggregate summarizes a quiz session for reporting.
type SessionAggregate struct {
	SessionID string
	StartedAt time.Time
	EndedAt   time.Time
	Correct   int
	Incorrect int
}

// TenseAggregate aggregates answers per tense.
type TenseAggregate struct {
	Tense        string
	Correct      int
	Incorrect    int
	ElapsedSumMs int64
}

// MissedForm counts repeated misses of one expected form.
type MissedForm struct {
	Verb     string
	Tense    string
	Pronoun  string
	Expected string
	Misses   int
	Attempts int
}
