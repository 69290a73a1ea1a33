package prefs

import "sync"

// Memory keeps preferences for the lifetime of the process only. It backs
// tests and serves as the fallback when the configured store cannot open.
type Memory struct {
	mu sync.RWMutex
	d  data
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ListLinked() ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.list(), nil
}

func (m *Memory) UpsertLinked(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.upsert(rec)
	return nil
}

func (m *Memory) UpdateLinked(path string, p Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.update(path, p), nil
}

func (m *Memory) RemoveLinked(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.remove(path)
	return nil
}

func (m *Memory) SetOpen(path string, open bool) (bool, error) {
	return m.UpdateLinked(path, Patch{IsOpen: Bool(open)})
}

func (m *Memory) GetCurrentView() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.currentView(), nil
}

func (m *Memory) SetCurrentView(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.setCurrentView(path)
	return nil
}

func (m *Memory) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d = data{}
	return nil
}

func (m *Memory) Close() error { return nil }
