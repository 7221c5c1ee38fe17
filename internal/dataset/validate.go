package dataset

import (
	"fmt"
	"time"

	"pilgrim-insights-go/internal/types"
)

const isoDate = "2006-01-02"

// Validate rejects records that would put corrupt labels into aggregates:
// non-ISO dates, negative ages, itinerary dates out of order, duplicate ids or
// booking references.
func Validate(records []types.Pilgrim) error {
	ids := make(map[int]struct{}, len(records))
	bookings := make(map[string]struct{}, len(records))
	for i := range records {
		p := &records[i]
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("record %d: duplicate id", p.ID)
		}
		ids[p.ID] = struct{}{}
		if p.BookingID != "" {
			if _, dup := bookings[p.BookingID]; dup {
				return fmt.Errorf("record %d: duplicate booking_id %q", p.ID, p.BookingID)
			}
			bookings[p.BookingID] = struct{}{}
		}
		if p.Age < 0 {
			return fmt.Errorf("record %d: negative age %d", p.ID, p.Age)
		}
		itinerary := []struct {
			name, value string
		}{
			{"arrival_date", p.ArrivalDate},
			{"arrival_hotel_checkout_date", p.ArrivalHotelCheckoutDate},
			{"departure_city_arrival_date", p.DepartureCityArrivalDate},
			{"departure_hotel_checkout_date", p.DepartureHotelCheckoutDate},
			{"departure_date", p.DepartureDate},
		}
		prev := ""
		for _, d := range itinerary {
			if _, err := time.Parse(isoDate, d.value); err != nil {
				return fmt.Errorf("record %d: %s: %w", p.ID, d.name, err)
			}
			if d.value < prev {
				return fmt.Errorf("record %d: %s %s precedes %s", p.ID, d.name, d.value, prev)
			}
			prev = d.value
		}
	}
	return nil
}
