package cache

import (
	"sync"
	"time"
)

// ttlMap is the in-process verdict tier. Expired entries are dropped on
// read, so a local hit never outlives the redis TTL and the map only
// holds verdicts from the last TTL window.
type ttlMap struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
	ttl     time.Duration
}

type ttlEntry struct {
	verdict   *CachedVerdict
	expiresAt time.Time
}

func newTTLMap(ttl time.Duration) *ttlMap {
	return &ttlMap{
		entries: make(map[string]ttlEntry),
		ttl:     ttl,
	}
}

func (m *ttlMap) get(key string) (*CachedVerdict, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && time.Now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return entry.verdict, true
}

func (m *ttlMap) set(key string, verdict *CachedVerdict) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = ttlEntry{
		verdict:   verdict,
		expiresAt: time.Now().Add(m.ttl),
	}
}

func (m *ttlMap) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
