// Package dimension maps dimension identifiers to typed field extractors.
package dimension

import (
	"fmt"
	"strconv"
	"strings"

	"pilgrim-insights-go/internal/types"
)

// ID identifies a groupable or filterable field of a Pilgrim.
type ID int

const (
	Unknown ID = iota
	BookingID
	Gender
	Nationality
	Company
	Package
	FlightContractType
	ArrivalCity
	ArrivalPoint
	DepartureCity
	DeparturePoint
	ArrivalHotel
	MakkahHotel
	DepartureHotel
	AccommodationStatus
	ArrivalDate
	ArrivalHotelCheckoutDate
	DepartureCityArrivalDate
	DepartureHotelCheckoutDate
	DepartureDate
	MakkahRoomType
	MadinahRoomType
	AgeBucket
	ArrivalYear
	ArrivalMonth
	ArrivalDay
)

type def struct {
	name    string
	extract func(p *types.Pilgrim) string
	date    bool
}

var defs = map[ID]def{
	BookingID:                  {"booking_id", func(p *types.Pilgrim) string { return p.BookingID }, false},
	Gender:                     {"gender", func(p *types.Pilgrim) string { return p.Gender }, false},
	Nationality:                {"nationality", func(p *types.Pilgrim) string { return p.Nationality }, false},
	Company:                    {"company", func(p *types.Pilgrim) string { return p.Company }, false},
	Package:                    {"package", func(p *types.Pilgrim) string { return p.Package }, false},
	FlightContractType:         {"flight_contract_type", func(p *types.Pilgrim) string { return p.FlightContractType }, false},
	ArrivalCity:                {"arrival_city", func(p *types.Pilgrim) string { return p.ArrivalCity }, false},
	ArrivalPoint:               {"arrival_point", func(p *types.Pilgrim) string { return p.ArrivalPoint }, false},
	DepartureCity:              {"departure_city", func(p *types.Pilgrim) string { return p.DepartureCity }, false},
	DeparturePoint:             {"departure_point", func(p *types.Pilgrim) string { return p.DeparturePoint }, false},
	ArrivalHotel:               {"arrival_hotel", func(p *types.Pilgrim) string { return p.ArrivalHotel }, false},
	MakkahHotel:                {"makkah_hotel", func(p *types.Pilgrim) string { return p.MakkahHotel }, false},
	DepartureHotel:             {"departure_hotel", func(p *types.Pilgrim) string { return p.DepartureHotel }, false},
	AccommodationStatus:        {"accommodation_status", func(p *types.Pilgrim) string { return p.AccommodationStatus }, false},
	ArrivalDate:                {"arrival_date", func(p *types.Pilgrim) string { return p.ArrivalDate }, true},
	ArrivalHotelCheckoutDate:   {"arrival_hotel_checkout_date", func(p *types.Pilgrim) string { return p.ArrivalHotelCheckoutDate }, true},
	DepartureCityArrivalDate:   {"departure_city_arrival_date", func(p *types.Pilgrim) string { return p.DepartureCityArrivalDate }, true},
	DepartureHotelCheckoutDate: {"departure_hotel_checkout_date", func(p *types.Pilgrim) string { return p.DepartureHotelCheckoutDate }, true},
	DepartureDate:              {"departure_date", func(p *types.Pilgrim) string { return p.DepartureDate }, true},
	MakkahRoomType:             {"makkah_room_type", func(p *types.Pilgrim) string { return p.MakkahRoomType }, false},
	MadinahRoomType:            {"madinah_room_type", func(p *types.Pilgrim) string { return p.MadinahRoomType }, false},
	AgeBucket:                  {"age_bucket", func(p *types.Pilgrim) string { return Bucket(p.Age) }, false},
	ArrivalYear:                {"arrival_year", func(p *types.Pilgrim) string { return Year(p.ArrivalDate) }, false},
	ArrivalMonth:               {"arrival_month", func(p *types.Pilgrim) string { return Month(p.ArrivalDate) }, false},
	ArrivalDay:                 {"arrival_day", func(p *types.Pilgrim) string { return Day(p.ArrivalDate) }, false},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(defs))
	for id, d := range defs {
		m[d.name] = id
	}
	return m
}()

// Parse resolves a wire name such as "arrival_city" to its ID.
func Parse(name string) (ID, error) {
	if id, ok := byName[strings.TrimSpace(name)]; ok {
		return id, nil
	}
	return Unknown, fmt.Errorf("unknown dimension %q", name)
}

func (d ID) String() string {
	if def, ok := defs[d]; ok {
		return def.name
	}
	return "unknown"
}

// IsDate reports whether the dimension holds an ISO date.
func (d ID) IsDate() bool {
	return defs[d].date
}

// Value extracts the dimension's string value from p.
// Unknown dimensions yield "".
func (d ID) Value(p *types.Pilgrim) string {
	if def, ok := defs[d]; ok {
		return def.extract(p)
	}
	return ""
}

// Bucket returns the 5-year age bucket label, e.g. 23 -> "20-24".
// Filtering and grouping both go through this function.
func Bucket(age int) string {
	low := (age / 5) * 5
	if age < 0 && age%5 != 0 {
		low -= 5
	}
	return strconv.Itoa(low) + "-" + strconv.Itoa(low+4)
}

// Year returns the year component of an ISO date ("2025-06-01" -> "2025").
func Year(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// Month returns the month without a leading zero ("2025-06-01" -> "6").
func Month(date string) string {
	if len(date) < 7 {
		return ""
	}
	return strings.TrimLeft(date[5:7], "0")
}

// Day returns the day of month without a leading zero ("2025-06-01" -> "1").
func Day(date string) string {
	if len(date) < 10 {
		return ""
	}
	return strings.TrimLeft(date[8:10], "0")
}

// Measure identifies a numeric field usable by sum and average.
type Measure int

const (
	NoMeasure Measure = iota
	Age
	RecordID
)

// ParseMeasure resolves "age" or "id". An empty name is NoMeasure.
func ParseMeasure(name string) (Measure, error) {
	switch strings.TrimSpace(name) {
	case "":
		return NoMeasure, nil
	case "age":
		return Age, nil
	case "id":
		return RecordID, nil
	}
	return NoMeasure, fmt.Errorf("unknown measure %q", name)
}

// Value extracts the numeric value of the measure from p.
func (m Measure) Value(p *types.Pilgrim) float64 {
	switch m {
	case Age:
		return float64(p.Age)
	case RecordID:
		return float64(p.ID)
	}
	return 0
}

func (m Measure) String() string {
	switch m {
	case Age:
		return "age"
	case RecordID:
		return "id"
	}
	return ""
}
