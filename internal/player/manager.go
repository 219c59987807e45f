package player

import (
	"sync"
)

// Manager tracks live widget instances by ID. One widget exists per track or
// album surface on the page; widgets are registered when the surface is
// rendered and removed by explicit teardown when it goes away.
type Manager struct {
	start   StartFunc
	mu      sync.RWMutex
	widgets map[string]*Widget
}

// NewManager creates a widget manager. start applies to every widget it
// creates; nil means playback requests always succeed.
func NewManager(start StartFunc) *Manager {
	return &Manager{
		start:   start,
		widgets: make(map[string]*Widget),
	}
}

// Create builds and registers a widget, loading source when non-empty
func (m *Manager) Create(source string) *Widget {
	w := NewWidget(m.start)
	if source != "" {
		w.LoadTrack(source)
	}

	m.mu.Lock()
	m.widgets[w.ID()] = w
	m.mu.Unlock()
	return w
}

// Get looks up a widget by instance ID
func (m *Manager) Get(id string) (*Widget, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.widgets[id]
	return w, ok
}

// Remove tears down a widget instance. Widget state does not survive
// removal; a re-attached surface gets a fresh instance.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.widgets, id)
}

// Count returns the number of live widget instances
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.widgets)
}
