package store

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/verte-zerg/conjuga/internal/model"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conjuga.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}

func TestSettingsGetSet(t *testing.T) {
	st, _ := openTemp(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "includeVosotros"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, "includeVosotros", "false"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "includeVosotros", "true"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := st.Get(ctx, "includeVosotros")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != "true" {
		t.Fatalf("expected true, got %q", value)
	}
}

func TestWatchSeesOtherConnection(t *testing.T) {
	st, path := openTemp(t)
	st.SetPollInterval(10 * time.Millisecond)

	other, err := Open(path)
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	t.Cleanup(func() {
		_ = other.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- st.Watch(ctx, func() { calls.Add(1) })
	}()

	// Let the watcher record its starting version.
	time.Sleep(50 * time.Millisecond)
	if err := other.Set(context.Background(), "timerDuration", "30"); err != nil {
		t.Fatalf("set from other store: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatalf("expected watcher to observe the change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
}

func insertAnswers(t *testing.T, st *Store, records []model.AnswerRecord) {
	t.Helper()
	for _, rec := range records {
		if _, err := st.InsertAnswer(context.Background(), rec); err != nil {
			t.Fatalf("insert answer: %v", err)
		}
	}
}

func TestAnswerQueries(t *testing.T) {
	st, _ := openTemp(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)

	insertAnswers(t, st, []model.AnswerRecord{
		{SessionID: "a", AnsweredAt: base, Verb: "hablar", Tense: "present", Pronoun: "yo", Expected: "hablo", Given: "hablo", Correct: true, ElapsedMs: 1000},
		{SessionID: "a", AnsweredAt: base.Add(time.Second), Verb: "comer", Tense: "preterite", Pronoun: "yo", Expected: "comí", Given: "comi", ElapsedMs: 2000},
		{SessionID: "b", AnsweredAt: base.Add(time.Hour), Verb: "comer", Tense: "preterite", Pronoun: "yo", Expected: "comí", Given: "come", ElapsedMs: 1500},
		{SessionID: "b", AnsweredAt: base.Add(time.Hour + time.Second), Verb: "vivir", Tense: "present", Pronoun: "tú", Expected: "vives", Given: "vivis", ElapsedMs: 500},
	})

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != "a" || sessions[1].SessionID != "b" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	if sessions[0].Correct != 1 || sessions[0].Incorrect != 1 {
		t.Fatalf("unexpected counts for a: %+v", sessions[0])
	}
	if !sessions[1].StartedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected start for b: %v", sessions[1].StartedAt)
	}

	filtered, err := st.ListSessions(ctx, model.StatsConfig{Tense: "present"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 2 || filtered[1].Incorrect != 1 || filtered[1].Correct != 0 {
		t.Fatalf("unexpected filtered sessions: %+v", filtered)
	}

	aggs, err := st.TenseAggregates(ctx, model.StatsConfig{}, nil)
	if err != nil {
		t.Fatalf("tense aggregates: %v", err)
	}
	if len(aggs) != 2 || aggs[0].Tense != "present" || aggs[1].Tense != "preterite" {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
	if aggs[1].Incorrect != 2 || aggs[1].ElapsedSumMs != 3500 {
		t.Fatalf("unexpected preterite aggregate: %+v", aggs[1])
	}

	windowed, err := st.TenseAggregates(ctx, model.StatsConfig{}, []string{"b"})
	if err != nil {
		t.Fatalf("windowed aggregates: %v", err)
	}
	if len(windowed) != 2 || windowed[0].Correct != 0 {
		t.Fatalf("unexpected windowed aggregates: %+v", windowed)
	}

	missed, err := st.MissedForms(ctx, model.StatsConfig{}, nil, 5)
	if err != nil {
		t.Fatalf("missed forms: %v", err)
	}
	if len(missed) != 2 {
		t.Fatalf("expected 2 missed forms, got %+v", missed)
	}
	if missed[0].Expected != "comí" || missed[0].Misses != 2 || missed[0].Attempts != 2 {
		t.Fatalf("unexpected top miss: %+v", missed[0])
	}

	since := base.Add(30 * time.Minute)
	recent, err := st.MissedForms(ctx, model.StatsConfig{Since: &since}, nil, 1)
	if err != nil {
		t.Fatalf("recent missed: %v", err)
	}
	if len(recent) != 1 || recent[0].Misses != 1 {
		t.Fatalf("unexpected recent misses: %+v", recent)
	}
}
