package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Get implements settings.Backend.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements settings.Backend.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(timeLayout))
	return err
}

// Watch implements settings.Watcher. It polls PRAGMA data_version on a pinned
// connection, which changes whenever another connection commits.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort release of the pinned connection.
			_ = cerr
		}
	}()

	last, err := dataVersion(ctx, conn)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			version, err := dataVersion(ctx, conn)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if version != last {
				last = version
				onChange()
			}
		}
	}
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
