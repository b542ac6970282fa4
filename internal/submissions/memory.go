package submissions

import (
	"context"
	"sync"
)

type MemoryLog struct {
	mu      sync.RWMutex
	entries map[Kind][]Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{entries: make(map[Kind][]Entry)}
}

func (m *MemoryLog) Append(_ context.Context, kind Kind, payload any) (Entry, error) {
	e, err := newEntry(kind, payload)
	if err != nil {
		return Entry{}, err
	}
	m.mu.Lock()
	m.entries[kind] = append(m.entries[kind], e)
	m.mu.Unlock()
	return e, nil
}

func (m *MemoryLog) List(_ context.Context, kind Kind) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Entry(nil), m.entries[kind]...), nil
}

func (m *MemoryLog) Close() error { return nil }
