package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"pilgrim-insights-go/internal/types"
)

// Report is an operator report: distribution tables plus per-package
// itinerary details.
type Report struct {
	Nationality []struct {
		Nationality string  `json:"nationality"`
		Count       float64 `json:"count"`
	} `json:"nationality"`
	AgeBreakdown []struct {
		Age   int     `json:"age"`
		Count float64 `json:"count"`
	} `json:"age_breakdown"`
	PackageBreakdown []struct {
		Package  string  `json:"package"`
		Pilgrims float64 `json:"pilgrims"`
	} `json:"package_breakdown"`
	Summary        map[string]any  `json:"summary"`
	PackagesDetail []PackageDetail `json:"packages_detail"`
}

// PackageDetail is one itinerary shared by Pilgrims travellers.
type PackageDetail struct {
	Pilgrims           int    `json:"pilgrims"`
	DepDestination     string `json:"dep_destination"`
	RetOrigin          string `json:"ret_origin"`
	FirstHotelName     string `json:"first_hotel_name"`
	LastHotelName      string `json:"last_hotel_name"`
	DepArrDate         string `json:"dep_arr_date"`
	FirstHotelCheckOut string `json:"first_hotel_check_out"`
	LastHotelCheckIn   string `json:"last_hotel_check_in"`
	LastHotelCheckOut  string `json:"last_hotel_check_out"`
	RetDate            string `json:"ret_date"`
	FlightContractType string `json:"flight_contract_type"`
}

// Summary keys carrying the gender totals.
const (
	summaryMale   = "عدد الحجاج الذكور"
	summaryFemale = "عدد الحجاج الاناث"
)

func (r Report) summaryInt(key string) int {
	if v, ok := r.Summary[key].(float64); ok {
		return int(v)
	}
	return 0
}

// FromReport expands a report into one record per traveller. Itineraries come
// from the package details; nationality, package and age are drawn from the
// report's distributions, and genders honour the summary's male/female totals.
func FromReport(r Report, seed uint32) ([]types.Pilgrim, error) {
	if len(r.PackagesDetail) == 0 {
		return nil, fmt.Errorf("report has no package details")
	}
	rnd := newRNG(seed)

	nat := make([]weighted, 0, len(r.Nationality))
	for _, n := range r.Nationality {
		nat = append(nat, weighted{n.Nationality, n.Count})
	}
	pkg := make([]weighted, 0, len(r.PackageBreakdown))
	for _, p := range r.PackageBreakdown {
		pkg = append(pkg, weighted{p.Package, p.Pilgrims})
	}
	ageWeights := make([]float64, 0, len(r.AgeBreakdown))
	for _, a := range r.AgeBreakdown {
		ageWeights = append(ageWeights, a.Count)
	}
	if len(nat) == 0 || len(pkg) == 0 || len(ageWeights) == 0 {
		return nil, fmt.Errorf("report is missing a nationality, package or age breakdown")
	}

	totalMale := r.summaryInt(summaryMale)
	totalFemale := r.summaryInt(summaryFemale)

	var out []types.Pilgrim
	id := 1
	male, female := 0, 0
	for _, d := range r.PackagesDetail {
		for i := 0; i < d.Pilgrims; i++ {
			remaining := totalMale + totalFemale - (id - 1)
			remainingMale := totalMale - male
			remainingFemale := totalFemale - female

			var gender string
			switch {
			case remainingMale <= 0:
				gender = "Female"
			case remainingFemale <= 0:
				gender = "Male"
			case rnd.next() < float64(remainingMale)/float64(max(remaining, 1)):
				gender = "Male"
			default:
				gender = "Female"
			}
			if gender == "Male" {
				male++
			} else {
				female++
			}

			contract := "GDS"
			if d.FlightContractType == "B2B" {
				contract = "B2B"
			}
			p := types.Pilgrim{
				ID:                         id,
				BookingID:                  fmt.Sprintf("SV-2026-%05d", id),
				Gender:                     gender,
				Nationality:                pickWeighted(nat, rnd),
				Package:                    pickWeighted(pkg, rnd),
				ArrivalCity:                d.DepDestination,
				DepartureCity:              d.RetOrigin,
				ArrivalHotel:               d.FirstHotelName,
				DepartureHotel:             d.LastHotelName,
				ArrivalDate:                d.DepArrDate,
				ArrivalHotelCheckoutDate:   d.FirstHotelCheckOut,
				DepartureCityArrivalDate:   d.LastHotelCheckIn,
				DepartureHotelCheckoutDate: d.LastHotelCheckOut,
				DepartureDate:              d.RetDate,
				FlightContractType:         contract,
			}
			p.Age = r.AgeBreakdown[pickIndex(ageWeights, rnd)].Age
			p.MakkahRoomType = roomTypes[pickIndex(roomWeights, rnd)]
			p.MadinahRoomType = roomTypes[pickIndex(roomWeights, rnd)]
			out = append(out, p)
			id++
		}
	}
	return out, nil
}

// LoadReport reads an operator report from a JSON file.
func LoadReport(path string) (Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
