package dataset

import (
	"fmt"
	"math"
	"time"

	"pilgrim-insights-go/internal/types"
)

// rng is the seeded linear congruential generator every synthetic dataset uses,
// so a seed always reproduces the same records.
type rng struct {
	s uint32
}

func newRNG(seed uint32) *rng { return &rng{s: seed} }

func (r *rng) next() float64 {
	r.s = r.s*1664525 + 1013904223
	return float64(r.s) / 0xffffffff
}

type weighted struct {
	name   string
	weight float64
}

func pickWeighted(items []weighted, r *rng) string {
	var total float64
	for _, it := range items {
		total += it.weight
	}
	x := r.next() * total
	for _, it := range items {
		x -= it.weight
		if x <= 0 {
			return it.name
		}
	}
	return items[len(items)-1].name
}

func pickIndex(weights []float64, r *rng) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	x := r.next() * total
	for i, w := range weights {
		x -= w
		if x <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

var roomTypes = []string{types.RoomTriple, types.RoomDouble, types.RoomQuad}
var roomWeights = []float64{50, 30, 20}

// GeneratorConfig controls Generate.
type GeneratorConfig struct {
	Size int
	Seed uint32
	// MinStayDays is the shortest arrival-to-departure span.
	MinStayDays int
}

// DefaultGeneratorConfig mirrors the demo dataset.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Size: 1350, Seed: 42, MinStayDays: 4}
}

// Generate produces a deterministic synthetic dataset.
func Generate(cfg GeneratorConfig) ([]types.Pilgrim, error) {
	def := DefaultGeneratorConfig()
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.MinStayDays <= 0 {
		cfg.MinStayDays = def.MinStayDays
	}
	r := newRNG(cfg.Seed)
	out := make([]types.Pilgrim, 0, cfg.Size)

	for i := 1; i <= cfg.Size; i++ {
		age := min(max(gaussianAge(r), 18), 80)
		roomIdx := pickIndex(roomWeights, r)

		arrival := pickWeighted(arrivalDateWeights, r)
		departure := pickWeighted(departureDateWeights, r)
		minDeparture, err := addDays(arrival, cfg.MinStayDays)
		if err != nil {
			return nil, err
		}
		if departure < minDeparture {
			departure = minDeparture
		}
		totalDays, err := dayDiff(arrival, departure)
		if err != nil {
			return nil, err
		}
		checkoutOffset := min(max(1, 1+int(math.Floor(r.next()*3))), max(1, totalDays-2))
		cityArrivalOffset := min(
			max(checkoutOffset+1, checkoutOffset+int(math.Floor(r.next()*2))),
			max(checkoutOffset+1, totalDays-1),
		)
		hotelCheckoutOffset := max(cityArrivalOffset, totalDays-1)

		gender := "Female"
		if r.next() < 0.52 {
			gender = "Male"
		}
		p := types.Pilgrim{
			ID:                  i,
			BookingID:           fmt.Sprintf("HJ-2025-%05d", i),
			Gender:              gender,
			Nationality:         pickWeighted(nationalities, r),
			Company:             pickWeighted(companies, r),
			Package:             pickWeighted(packages, r),
			ArrivalCity:         pickWeighted(arrivalCities, r),
			ArrivalPoint:        pickWeighted(arrivalPoints, r),
			DepartureCity:       pickWeighted(departureCities, r),
			DeparturePoint:      pickWeighted(departurePoints, r),
			ArrivalHotel:        pickWeighted(arrivalHotels, r),
			MakkahHotel:         pickWeighted(makkahHotels, r),
			DepartureHotel:      pickWeighted(departureHotels, r),
			AccommodationStatus: pickWeighted(accommodationStatuses, r),
			Age:                 age,
			ArrivalDate:         arrival,
			DepartureDate:       departure,
			MakkahRoomType:      roomTypes[roomIdx],
		}
		p.MadinahRoomType = roomTypes[pickIndex(roomWeights, r)]
		if p.ArrivalHotelCheckoutDate, err = addDays(arrival, checkoutOffset); err != nil {
			return nil, err
		}
		if p.DepartureCityArrivalDate, err = addDays(arrival, cityArrivalOffset); err != nil {
			return nil, err
		}
		if p.DepartureHotelCheckoutDate, err = addDays(arrival, hotelCheckoutOffset); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// gaussianAge draws from a bell curve around 46 (sd 10) via Box-Muller.
func gaussianAge(r *rng) int {
	u1 := r.next()
	u2 := r.next()
	z := math.Sqrt(-2*math.Log(u1+1e-10)) * math.Cos(2*math.Pi*u2)
	return int(math.Floor(46 + z*10 + 0.5))
}

func addDays(date string, days int) (string, error) {
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, days).Format(isoDate), nil
}

func dayDiff(from, to string) (int, error) {
	a, err := time.Parse(isoDate, from)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", from, err)
	}
	b, err := time.Parse(isoDate, to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}
	return int(math.Round(b.Sub(a).Hours() / 24)), nil
}

var nationalities = []weighted{
	{"Saudi Arabia", 970}, {"Egypt", 80}, {"Jordan", 50}, {"Pakistan", 40}, {"Indonesia", 35},
	{"Turkey", 30}, {"Morocco", 25}, {"UAE", 20}, {"Kuwait", 20}, {"Malaysia", 15},
}

var companies = []weighted{
	{"Al Noor Travel", 440}, {"Zamzam Tours", 280}, {"Golden Hajj", 200}, {"Mawadda Agency", 150},
	{"Rahma Services", 120}, {"Baraka Travel", 95}, {"Itqan Group", 65},
}

var packages = []weighted{
	{"SV Platinum", 165}, {"SV Express", 140}, {"Public MED", 130}, {"VIP Elite", 110},
	{"Economy Plus", 100}, {"Standard Pack", 95}, {"Family Comfort", 90}, {"Silver Package", 85},
	{"Bronze Pack", 75}, {"Group Special", 70}, {"Youth Program", 60}, {"Senior Care", 50},
	{"Budget Basics", 40}, {"Corporate Elite", 35}, {"Deluxe Suite", 30}, {"Hajj Classic", 25},
}

var arrivalCities = []weighted{{"Madinah", 780}, {"Makkah", 420}, {"Jeddah", 150}}

var arrivalPoints = []weighted{
	{"Prince Mohammad Airport", 600}, {"King Abdulaziz Airport", 400},
	{"King Fahd Airport", 200}, {"Land Border Haramain", 150},
}

var departureCities = []weighted{{"Makkah", 700}, {"Madinah", 450}, {"Jeddah", 200}}

var departurePoints = []weighted{
	{"King Abdulaziz Airport", 550}, {"Prince Mohammad Airport", 400},
	{"King Fahd Airport", 250}, {"Land Border South", 150},
}

var arrivalHotels = []weighted{
	{"Anwar Al Madinah", 340}, {"Dar Al Taqwa", 280}, {"Crown Plaza Madinah", 210}, {"Swiss Makkah", 200},
	{"Hilton Makkah", 160}, {"Sheraton Makkah", 100}, {"Movenpick Makkah", 60},
}

var makkahHotels = []weighted{
	{"Abraj Al-Bait Towers", 340}, {"Swissotel Al Zahiyah", 260}, {"Hilton Suites Makkah", 200},
	{"Pullman ZamZam Makkah", 180}, {"Le Méridien Makkah", 160}, {"Millennium Makkah", 120},
	{"Mövenpick Ajyad", 50}, {"Grand Hyatt Makkah", 40},
}

var departureHotels = []weighted{
	{"Swiss Makkah", 310}, {"Hilton Makkah", 260}, {"Crown Plaza Makkah", 220}, {"Anwar Al Madinah", 180},
	{"Dar Al Taqwa", 150}, {"Sheraton Madinah", 130}, {"Movenpick Madinah", 100},
}

var accommodationStatuses = []weighted{
	{"Confirmed", 1050}, {"Pending", 180}, {"Waitlisted", 70}, {"Cancelled", 50},
}

// arrivals peak in early June
var arrivalDateWeights = []weighted{
	{"2025-05-22", 20}, {"2025-05-23", 30}, {"2025-05-24", 50}, {"2025-05-25", 65},
	{"2025-05-26", 80}, {"2025-05-27", 100}, {"2025-05-28", 130}, {"2025-05-29", 190},
	{"2025-05-30", 250}, {"2025-05-31", 330}, {"2025-06-01", 420}, {"2025-06-02", 560},
	{"2025-06-03", 570}, {"2025-06-04", 490}, {"2025-06-05", 380}, {"2025-06-06", 270},
	{"2025-06-07", 180}, {"2025-06-08", 110}, {"2025-06-09", 70}, {"2025-06-10", 40},
}

var departureDateWeights = []weighted{
	{"2025-06-08", 40}, {"2025-06-09", 70}, {"2025-06-10", 120}, {"2025-06-11", 200},
	{"2025-06-12", 310}, {"2025-06-13", 430}, {"2025-06-14", 560}, {"2025-06-15", 500},
	{"2025-06-16", 390}, {"2025-06-17", 280}, {"2025-06-18", 180}, {"2025-06-19", 110},
	{"2025-06-20", 70}, {"2025-06-21", 40}, {"2025-06-22", 20},
}
