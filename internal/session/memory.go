package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value   string
	expires time.Time // zero = never
}

// MemoryBackend keeps sessions in process memory; they vanish on restart.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]memEntry
	now  func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string]map[string]memEntry{}, now: time.Now}
}

func (m *MemoryBackend) Get(_ context.Context, sid, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[sid][key]
	if !ok || (!e.expires.IsZero() && m.now().After(e.expires)) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, sid, key, value string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vals, ok := m.data[sid]
	if !ok {
		vals = map[string]memEntry{}
		m.data[sid] = vals
	}
	vals[key] = memEntry{value: value, expires: exp}
	return nil
}

// Purge drops expired values and sessions left with none.
func (m *MemoryBackend) Purge(_ context.Context) (int64, error) {
	now := m.now()
	var n int64
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, vals := range m.data {
		for k, e := range vals {
			if !e.expires.IsZero() && now.After(e.expires) {
				delete(vals, k)
				n++
			}
		}
		if len(vals) == 0 {
			delete(m.data, sid)
		}
	}
	return n, nil
}

func (m *MemoryBackend) Close() error { return nil }
