// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/conjuga/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for answer history and settings.
type Store struct {
	db           *sql.DB
	pollInterval time.Duration
}

const defaultPollInterval = 500 * time.Millisecond

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, pollInterval: defaultPollInterval}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// SetPollInterval changes how often Watch checks for external changes.
func (s *Store) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS answers (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			answered_at TEXT NOT NULL,
			verb TEXT NOT NULL,
			tense TEXT NOT NULL,
			pronoun TEXT NOT NULL,
			expected TEXT NOT NULL,
			given TEXT NOT NULL,
			correct INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_answered_at ON answers(answered_at);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_session ON answers(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnswer stores one submitted answer.
func (s *Store) InsertAnswer(ctx context.Context, rec model.AnswerRecord) (int64, error) {
	correct := 0
	if rec.Correct {
		correct = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (session_id, answered_at, verb, tense, pronoun, expected, given, correct, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.AnsweredAt.UTC().Format(timeLayout),
		rec.Verb,
		rec.Tense,
		rec.Pronoun,
		rec.Expected,
		rec.Given,
		correct,
		rec.ElapsedMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func answerFilter(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Tense != "" {
		clauses = append(clauses, "tense = ?")
		args = append(args, cfg.Tense)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "answered_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

// ListSessions returns session aggregates ordered by end time.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	where, args := answerFilter(cfg)
	query := fmt.Sprintf(`SELECT session_id, MIN(answered_at), MAX(answered_at),
		SUM(correct), SUM(1 - correct)
		FROM answers
		WHERE %s
		GROUP BY session_id
		ORDER BY MAX(answered_at) ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var startedAt, endedAt string
		if err := rows.Scan(&agg.SessionID, &startedAt, &endedAt, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		if agg.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// TenseAggregates returns per-tense answer counts for the given sessions.
// An empty session list aggregates every matching answer.
func (s *Store) TenseAggregates(ctx context.Context, cfg model.StatsConfig, sessionIDs []string) ([]model.TenseAggregate, error) {
	where, args := answerFilter(cfg)
	where, args = withSessions(where, args, sessionIDs)
	query := fmt.Sprintf(`SELECT tense, SUM(correct), SUM(1 - correct), SUM(elapsed_ms)
		FROM answers
		WHERE %s
		GROUP BY tense
		ORDER BY tense`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TenseAggregate
	for rows.Next() {
		var agg model.TenseAggregate
		if err := rows.Scan(&agg.Tense, &agg.Correct, &agg.Incorrect, &agg.ElapsedSumMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MissedForms returns the forms missed most often, at most limit rows.
func (s *Store) MissedForms(ctx context.Context, cfg model.StatsConfig, sessionIDs []string, limit int) ([]model.MissedForm, error) {
	if limit <= 0 {
		return nil, nil
	}
	where, args := answerFilter(cfg)
	where, args = withSessions(where, args, sessionIDs)
	query := fmt.Sprintf(`SELECT verb, tense, pronoun, expected, SUM(1 - correct) AS misses, COUNT(*)
		FROM answers
		WHERE %s
		GROUP BY verb, tense, pronoun, expected
		HAVING misses > 0
		ORDER BY misses DESC, verb ASC, tense ASC, pronoun ASC
		LIMIT ?`, where)
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.MissedForm
	for rows.Next() {
		var m model.MissedForm
		if err := rows.Scan(&m.Verb, &m.Tense, &m.Pronoun, &m.Expected, &m.Misses, &m.Attempts); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func withSessions(where string, args []any, sessionIDs []string) (string, []any) {
	if len(sessionIDs) == 0 {
		return where, args
	}
	placeholders := make([]string, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return fmt.Sprintf("%s AND session_id IN (%s)", where, strings.Join(placeholders, ",")), args
}
