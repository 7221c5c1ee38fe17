package filters

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownKey       = errors.New("unknown filter key")
	ErrNotCrossFilter   = errors.New("filter key is not a cross-filter")
	ErrNotSidebarFilter = errors.New("filter key is not a sidebar filter")
)

// State is an immutable filter snapshot. An empty value means the key is inactive.
// Every mutation returns a new State; the receiver is never modified.
type State struct {
	schema *Schema
	values map[Key]string
}

// Pair is one active key/value constraint.
type Pair struct {
	Key   Key    `json:"key"`
	Value string `json:"value"`
}

// Empty returns the baseline snapshot of schema with no active constraints.
func Empty(schema *Schema) State {
	return State{schema: schema}
}

func (s State) Schema() *Schema { return s.schema }

// Get returns the value at key, "" when inactive.
func (s State) Get(key Key) string {
	return s.values[key]
}

// Active lists active constraints in schema order.
func (s State) Active() []Pair {
	if s.schema == nil {
		return nil
	}
	out := []Pair{}
	for _, f := range s.schema.fields {
		if v := s.values[f.Key]; v != "" {
			out = append(out, Pair{Key: f.Key, Value: v})
		}
	}
	return out
}

// IsEmpty reports whether no constraint is active.
func (s State) IsEmpty() bool {
	return len(s.values) == 0
}

// With returns a copy with key set to value; "" clears the key.
func (s State) With(key Key, value string) (State, error) {
	if _, ok := s.schema.Field(key); !ok {
		return s, fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, s.schema.Name())
	}
	next := State{schema: s.schema, values: make(map[Key]string, len(s.values)+1)}
	for k, v := range s.values {
		next.values[k] = v
	}
	if value == "" {
		delete(next.values, key)
	} else {
		next.values[key] = value
	}
	return next, nil
}

// Toggle clears key when it already holds value, otherwise sets it.
// Only cross-filter keys can be toggled.
func (s State) Toggle(key Key, value string) (State, error) {
	f, ok := s.schema.Field(key)
	if !ok {
		return s, fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, s.schema.Name())
	}
	if f.Group != Cross {
		return s, fmt.Errorf("%w: %q", ErrNotCrossFilter, key)
	}
	if s.values[key] == value {
		return s.With(key, "")
	}
	return s.With(key, value)
}

// Set is With restricted to sidebar keys.
func (s State) Set(key Key, value string) (State, error) {
	f, ok := s.schema.Field(key)
	if !ok {
		return s, fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, s.schema.Name())
	}
	if f.Group != Sidebar {
		return s, fmt.Errorf("%w: %q", ErrNotSidebarFilter, key)
	}
	return s.With(key, value)
}

// Without returns a copy with key cleared. Unknown keys are ignored.
func (s State) Without(key Key) State {
	if s.values[key] == "" {
		return s
	}
	next, err := s.With(key, "")
	if err != nil {
		return s
	}
	return next
}

// MarshalJSON renders every declared key, inactive ones as null.
func (s State) MarshalJSON() ([]byte, error) {
	out := make(map[Key]*string)
	if s.schema != nil {
		for _, f := range s.schema.fields {
			out[f.Key] = nil
		}
	}
	for k, v := range s.values {
		v := v
		out[k] = &v
	}
	return json.Marshal(out)
}
