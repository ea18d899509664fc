package settings

import (
	"context"
	"sync"
)

// Backend is durable string-keyed storage.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Publisher is implemented by backends that broadcast changes to other processes.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Watcher is implemented by backends that can observe changes made elsewhere.
// Watch blocks until ctx is done and calls onChange for every observed change.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// MemoryBackend is an in-process Backend. Stores sharing one MemoryBackend
// observe each other's changes through Publish and Watch.
type MemoryBackend struct {
	mu       sync.Mutex
	values   map[string]string
	watchers map[int]func()
	nextID   int
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}, watchers: map[int]func(){}}
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Publish implements Publisher.
func (m *MemoryBackend) Publish(context.Context) error {
	m.mu.Lock()
	watchers := make([]func(), 0, len(m.watchers))
	for _, fn := range m.watchers {
		watchers = append(watchers, fn)
	}
	m.mu.Unlock()
	for _, fn := range watchers {
		fn()
	}
	return nil
}

// Watch implements Watcher.
func (m *MemoryBackend) Watch(ctx context.Context, onChange func()) error {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = onChange
	m.mu.Unlock()

	<-ctx.Done()

	m.mu.Lock()
	delete(m.watchers, id)
	m.mu.Unlock()
	return nil
}
