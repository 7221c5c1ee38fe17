package filters

import (
	"strings"

	"pilgrim-insights-go/internal/types"
)

// Option configures Apply.
type Option func(*applyConfig)

type applyConfig struct {
	booking BookingMatch
}

// WithBookingMatch selects how booking reference filters compare.
func WithBookingMatch(m BookingMatch) Option {
	return func(c *applyConfig) { c.booking = m }
}

type constraint struct {
	field Field
	value string
}

// Apply returns the records matching every active constraint of st.
// Constraints combine with AND; inactive keys impose nothing.
// The input slice is never modified.
func Apply(records []types.Pilgrim, st State, opts ...Option) []types.Pilgrim {
	cfg := applyConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	active := st.Active()
	if len(active) == 0 {
		out := make([]types.Pilgrim, len(records))
		copy(out, records)
		return out
	}
	cons := make([]constraint, 0, len(active))
	for _, p := range active {
		f, _ := st.schema.Field(p.Key)
		cons = append(cons, constraint{field: f, value: p.Value})
	}

	out := make([]types.Pilgrim, 0, len(records))
	for i := range records {
		if matchAll(&records[i], cons, cfg) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchAll(p *types.Pilgrim, cons []constraint, cfg applyConfig) bool {
	for _, c := range cons {
		v := c.field.Dim.Value(p)
		switch c.field.Op {
		case OpEqual:
			if v != c.value {
				return false
			}
		case OpFrom:
			// ISO dates compare lexicographically in calendar order
			if v < c.value {
				return false
			}
		case OpTo:
			if v > c.value {
				return false
			}
		case OpBooking:
			if !matchBooking(v, c.value, cfg.booking) {
				return false
			}
		}
	}
	return true
}

func matchBooking(v, want string, m BookingMatch) bool {
	switch m {
	case BookingPrefix:
		return strings.HasPrefix(strings.ToUpper(v), strings.ToUpper(strings.TrimSpace(want)))
	case BookingContains:
		return strings.Contains(strings.ToUpper(v), strings.ToUpper(strings.TrimSpace(want)))
	default:
		return v == want
	}
}

// ParseBookingMatch maps "exact", "prefix" or "contains" to a BookingMatch.
func ParseBookingMatch(s string) (BookingMatch, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return BookingExact, true
	case "prefix":
		return BookingPrefix, true
	case "contains":
		return BookingContains, true
	}
	return BookingExact, false
}
