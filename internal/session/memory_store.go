package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the memory store sweeps expired sessions.
const DefaultCleanupInterval = 10 * time.Minute

// MemoryStore is the single-process fallback used when Redis is not configured.
// Entries expire with their TTL and a janitor goroutine removes abandoned ones.
type MemoryStore struct {
	sessions *gocache.Cache
}

func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryStore{sessions: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if ttl <= 0 {
		m.sessions.Delete(s.ID)
		return nil
	}
	m.sessions.Set(s.ID, *s, ttl)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := v.(Session)
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.sessions.Delete(id)
	return nil
}

// DeleteExpired sweeps expired sessions without waiting for the janitor.
func (m *MemoryStore) DeleteExpired() {
	m.sessions.DeleteExpired()
}

// Len returns the number of stored sessions, including expired ones the
// janitor has not swept yet.
func (m *MemoryStore) Len() int {
	return m.sessions.ItemCount()
}
