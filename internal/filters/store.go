package filters

import "sync"

// Store owns the filter state of one context. Mutations funnel through
// SetSidebarFilter, ToggleCrossFilter and ClearAll; each swaps in a whole new
// snapshot so readers never observe a partial update.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore returns a store holding the empty baseline of schema.
func NewStore(schema *Schema) *Store {
	return &Store{state: Empty(schema)}
}

// Snapshot returns the current immutable state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetSidebarFilter replaces the value at a sidebar key; "" clears it.
func (s *Store) SetSidebarFilter(key Key, value string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.Set(key, value)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// ToggleCrossFilter sets key to value, or clears it when it already holds value.
func (s *Store) ToggleCrossFilter(key Key, value string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.Toggle(key, value)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// ClearAll resets the store to its empty baseline.
func (s *Store) ClearAll() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Empty(s.state.schema)
	return s.state
}
