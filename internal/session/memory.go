package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	rec     Record
	expires time.Time
}

// MemoryStore keeps sessions in process. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *MemoryStore) Get(_ context.Context, id string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return Record{}, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, id)
		return Record{}, false, nil
	}
	return e.rec, true, nil
}

func (m *MemoryStore) Put(_ context.Context, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memEntry{rec: rec, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Purge(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, e := range m.entries {
		if e.expires.Before(before) {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// Len reports the number of stored records, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
