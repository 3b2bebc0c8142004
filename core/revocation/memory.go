package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Revoker. Entries are dropped lazily once their
// expiry has passed. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemory returns an empty in-memory revocation list.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock is NewMemory with an injectable clock.
func NewMemoryWithClock(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{entries: make(map[string]time.Time), now: now}
}

// IsRevoked reports whether jti is revoked and not yet past its expiry.
func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if !until.IsZero() && !m.now().Before(until) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

// Revoke records jti until the given time. Entries already past until are ignored.
func (m *Memory) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" {
		return ErrEmptyTokenID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !until.IsZero() && !now.Before(until) {
		return nil
	}
	m.entries[jti] = until
	m.purge(now)
	return nil
}

// Len returns the number of tracked entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) purge(now time.Time) {
	for jti, until := range m.entries {
		if !until.IsZero() && !now.Before(until) {
			delete(m.entries, jti)
		}
	}
}
