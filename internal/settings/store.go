package settings

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Store is the observable settings object. It is safe for concurrent use.
type Store struct {
	backend Backend
	log     *zap.Logger

	// writeMu orders updates and reloads so memory and backend agree.
	writeMu sync.Mutex
	mu      sync.RWMutex
	current Settings

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// Open builds a Store from backend. Each field is read independently; a missing
// or malformed value falls back to that field's default.
func Open(ctx context.Context, backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{backend: backend, log: log, subs: map[int]func(){}}
	s.current = s.read(ctx)
	return s
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Subscribe registers fn for change notifications and returns a function that removes it.
// Notifications carry no payload; subscribers should read Snapshot.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// SetIncludeVosotros updates the vosotros toggle.
func (s *Store) SetIncludeVosotros(ctx context.Context, v bool) error {
	return s.update(ctx, KeyIncludeVosotros, func(cur *Settings) any {
		cur.IncludeVosotros = v
		return v
	})
}

// ToggleIncludeVosotros flips the vosotros toggle against the latest value.
func (s *Store) ToggleIncludeVosotros(ctx context.Context) error {
	return s.update(ctx, KeyIncludeVosotros, func(cur *Settings) any {
		cur.IncludeVosotros = !cur.IncludeVosotros
		return cur.IncludeVosotros
	})
}

// SetSelectedTenses replaces the selected tenses. Nil is stored as an empty list.
func (s *Store) SetSelectedTenses(ctx context.Context, tenses []string) error {
	return s.UpdateSelectedTenses(ctx, func([]string) []string { return tenses })
}

// UpdateSelectedTenses replaces the selected tenses with fn applied to the
// latest selection.
func (s *Store) UpdateSelectedTenses(ctx context.Context, fn func(current []string) []string) error {
	return s.update(ctx, KeySelectedTenses, func(cur *Settings) any {
		list := append([]string{}, fn(cur.SelectedTenses)...)
		cur.SelectedTenses = list
		return list
	})
}

// SetIsTimerEnabled updates the timer toggle.
func (s *Store) SetIsTimerEnabled(ctx context.Context, v bool) error {
	return s.update(ctx, KeyIsTimerEnabled, func(cur *Settings) any {
		cur.IsTimerEnabled = v
		return v
	})
}

// ToggleIsTimerEnabled flips the timer toggle against the latest value.
func (s *Store) ToggleIsTimerEnabled(ctx context.Context) error {
	return s.update(ctx, KeyIsTimerEnabled, func(cur *Settings) any {
		cur.IsTimerEnabled = !cur.IsTimerEnabled
		return cur.IsTimerEnabled
	})
}

// SetTimerDuration updates the timer duration in seconds.
func (s *Store) SetTimerDuration(ctx context.Context, seconds int) error {
	if err := validateDuration(seconds); err != nil {
		return err
	}
	return s.update(ctx, KeyTimerDuration, func(cur *Settings) any {
		cur.TimerDuration = seconds
		return seconds
	})
}

// AdjustTimerDuration adds delta seconds to the latest duration, clamped to
// MinTimerDuration..MaxTimerDuration.
func (s *Store) AdjustTimerDuration(ctx context.Context, delta int) error {
	return s.update(ctx, KeyTimerDuration, func(cur *Settings) any {
		cur.TimerDuration = max(MinTimerDuration, min(MaxTimerDuration, cur.TimerDuration+delta))
		return cur.TimerDuration
	})
}

// Reload re-reads every field from the backend and notifies subscribers.
func (s *Store) Reload(ctx context.Context) {
	s.writeMu.Lock()
	next := s.read(ctx)
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.writeMu.Unlock()
	s.notify()
}

// Watch reloads on every change the backend observes from elsewhere.
// It blocks until ctx is done. Backends without change detection return immediately.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return nil
	}
	return w.Watch(ctx, func() { s.Reload(ctx) })
}

// update applies change to the latest settings and persists the returned
// value under key. Memory and backend are written under writeMu, so
// concurrent updates land in the same order in both. Publish runs after the
// lock is released because watchers may call Reload synchronously.
func (s *Store) update(ctx context.Context, key string, change func(*Settings) any) error {
	s.writeMu.Lock()
	next := s.Snapshot()
	raw, err := encode(change(&next))
	if err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	var persistErr error
	if err := s.backend.Set(ctx, key, raw); err != nil {
		persistErr = fmt.Errorf("failed to persist %s: %w", key, err)
	}
	s.writeMu.Unlock()

	s.notify()
	if persistErr != nil {
		return persistErr
	}
	if p, ok := s.backend.(Publisher); ok {
		if err := p.Publish(ctx); err != nil {
			return fmt.Errorf("failed to publish settings change: %w", err)
		}
	}
	return nil
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *Store) read(ctx context.Context) Settings {
	out := Defaults()
	if raw, ok := s.lookup(ctx, KeyIncludeVosotros); ok {
		if v, err := decodeBool(raw); err == nil {
			out.IncludeVosotros = v
		} else {
			s.log.Debug("ignoring stored setting", zap.String("key", KeyIncludeVosotros), zap.Error(err))
		}
	}
	if raw, ok := s.lookup(ctx, KeySelectedTenses); ok {
		if v, err := decodeTenses(raw); err == nil {
			out.SelectedTenses = v
		} else {
			s.log.Debug("ignoring stored setting", zap.String("key", KeySelectedTenses), zap.Error(err))
		}
	}
	if raw, ok := s.lookup(ctx, KeyIsTimerEnabled); ok {
		if v, err := decodeBool(raw); err == nil {
			out.IsTimerEnabled = v
		} else {
			s.log.Debug("ignoring stored setting", zap.String("key", KeyIsTimerEnabled), zap.Error(err))
		}
	}
	if raw, ok := s.lookup(ctx, KeyTimerDuration); ok {
		if v, err := decodeDuration(raw); err == nil {
			out.TimerDuration = v
		} else {
			s.log.Debug("ignoring stored setting", zap.String("key", KeyTimerDuration), zap.Error(err))
		}
	}
	return out
}

func (s *Store) lookup(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn("failed to read setting", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
