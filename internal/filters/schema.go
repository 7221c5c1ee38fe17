package filters

import (
	"pilgrim-insights-go/internal/dimension"
)

// Key names one filter slot, e.g. "chart_gender" or "node_arrival_city".
type Key string

// Group partitions keys by how they are mutated.
type Group int

const (
	// Sidebar keys are replaced through SetSidebarFilter.
	Sidebar Group = iota
	// Cross keys are toggled from a chart segment or a journey node.
	Cross
)

// Op is the matching rule a key applies to its dimension.
type Op int

const (
	OpEqual Op = iota
	OpFrom
	OpTo
	OpBooking
)

// BookingMatch selects how OpBooking compares the booking reference.
type BookingMatch int

const (
	BookingExact BookingMatch = iota
	BookingPrefix
	BookingContains
)

// Field declares one key of a schema.
type Field struct {
	Key   Key
	Dim   dimension.ID
	Op    Op
	Group Group
}

// Schema is the declared key set of one filter context.
type Schema struct {
	name   string
	fields []Field
	index  map[Key]int
}

// NewSchema builds a schema from its fields; field order is the display order.
func NewSchema(name string, fields ...Field) *Schema {
	s := &Schema{name: name, fields: fields, index: make(map[Key]int, len(fields))}
	for i, f := range fields {
		s.index[f.Key] = i
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Fields returns the declared fields in order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up the declaration of key.
func (s *Schema) Field(key Key) (Field, bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// CrossKey returns the cross-filter key bound to dim, if any.
func (s *Schema) CrossKey(dim dimension.ID) (Key, bool) {
	for _, f := range s.fields {
		if f.Group == Cross && f.Dim == dim {
			return f.Key, true
		}
	}
	return "", false
}

func eq(key Key, dim dimension.ID, g Group) Field {
	return Field{Key: key, Dim: dim, Op: OpEqual, Group: g}
}

// Flat is the dashboard schema.
var Flat = NewSchema("dashboard",
	Field{Key: "from_date", Dim: dimension.ArrivalDate, Op: OpFrom},
	Field{Key: "to_date", Dim: dimension.ArrivalDate, Op: OpTo},
	eq("year", dimension.ArrivalYear, Sidebar),
	eq("month", dimension.ArrivalMonth, Sidebar),
	eq("day", dimension.ArrivalDay, Sidebar),
	eq("arrival_city", dimension.ArrivalCity, Sidebar),
	eq("arrival_point", dimension.ArrivalPoint, Sidebar),
	eq("departure_city", dimension.DepartureCity, Sidebar),
	eq("departure_point", dimension.DeparturePoint, Sidebar),
	eq("package", dimension.Package, Sidebar),
	eq("gender", dimension.Gender, Sidebar),
	eq("accommodation_status", dimension.AccommodationStatus, Sidebar),
	eq("chart_gender", dimension.Gender, Cross),
	eq("chart_arrival_city", dimension.ArrivalCity, Cross),
	eq("chart_arrival_date", dimension.ArrivalDate, Cross),
	eq("chart_departure_date", dimension.DepartureDate, Cross),
	eq("chart_arrival_hotel", dimension.ArrivalHotel, Cross),
	eq("chart_departure_hotel", dimension.DepartureHotel, Cross),
	eq("chart_nationality", dimension.Nationality, Cross),
	eq("chart_accommodation_status", dimension.AccommodationStatus, Cross),
	eq("chart_package", dimension.Package, Cross),
	eq("chart_company", dimension.Company, Cross),
	eq("chart_age_bucket", dimension.AgeBucket, Cross),
)

// Journey is the journey-flow schema.
var Journey = NewSchema("journey",
	Field{Key: "arrival_date_from", Dim: dimension.ArrivalDate, Op: OpFrom},
	Field{Key: "arrival_date_to", Dim: dimension.ArrivalDate, Op: OpTo},
	Field{Key: "departure_date_from", Dim: dimension.DepartureDate, Op: OpFrom},
	Field{Key: "departure_date_to", Dim: dimension.DepartureDate, Op: OpTo},
	eq("dropdown_arrival_city", dimension.ArrivalCity, Sidebar),
	eq("dropdown_arrival_hotel", dimension.ArrivalHotel, Sidebar),
	eq("dropdown_departure_city", dimension.DepartureCity, Sidebar),
	eq("dropdown_departure_hotel", dimension.DepartureHotel, Sidebar),
	eq("dropdown_gender", dimension.Gender, Sidebar),
	eq("dropdown_nationality", dimension.Nationality, Sidebar),
	Field{Key: "dropdown_booking_id", Dim: dimension.BookingID, Op: OpBooking},
	eq("node_arrival_date", dimension.ArrivalDate, Cross),
	eq("node_arrival_city", dimension.ArrivalCity, Cross),
	eq("node_arrival_hotel", dimension.ArrivalHotel, Cross),
	eq("node_arrival_hotel_checkout_date", dimension.ArrivalHotelCheckoutDate, Cross),
	eq("node_departure_city", dimension.DepartureCity, Cross),
	eq("node_departure_city_arrival_date", dimension.DepartureCityArrivalDate, Cross),
	eq("node_departure_hotel", dimension.DepartureHotel, Cross),
	eq("node_departure_hotel_checkout_date", dimension.DepartureHotelCheckoutDate, Cross),
	eq("node_departure_date", dimension.DepartureDate, Cross),
)

// SchemaByName returns Flat for "dashboard" and Journey for "journey".
func SchemaByName(name string) (*Schema, bool) {
	switch name {
	case Flat.name:
		return Flat, true
	case Journey.name:
		return Journey, true
	}
	return nil, false
}
