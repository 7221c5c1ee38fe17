package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"pilgrim-insights-go/internal/logger"
	"pilgrim-insights-go/internal/types"
)

// Load reads records from an .xlsx or .json file and validates them.
func Load(path string) ([]types.Pilgrim, error) {
	var (
		records []types.Pilgrim
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = LoadXLSX(path)
	case ".json":
		records, err = LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadJSON decodes a JSON array of records.
func LoadJSON(path string) ([]types.Pilgrim, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var out []types.Pilgrim
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return out, nil
}

// setters maps a normalised header name to the field it fills.
var setters = map[string]func(p *types.Pilgrim, v string) error{
	"id":                            func(p *types.Pilgrim, v string) (err error) { p.ID, err = strconv.Atoi(v); return },
	"booking_id":                    func(p *types.Pilgrim, v string) error { p.BookingID = v; return nil },
	"gender":                        func(p *types.Pilgrim, v string) error { p.Gender = v; return nil },
	"nationality":                   func(p *types.Pilgrim, v string) error { p.Nationality = v; return nil },
	"company":                       func(p *types.Pilgrim, v string) error { p.Company = v; return nil },
	"package":                       func(p *types.Pilgrim, v string) error { p.Package = v; return nil },
	"flight_contract_type":          func(p *types.Pilgrim, v string) error { p.FlightContractType = v; return nil },
	"arrival_city":                  func(p *types.Pilgrim, v string) error { p.ArrivalCity = v; return nil },
	"arrival_point":                 func(p *types.Pilgrim, v string) error { p.ArrivalPoint = v; return nil },
	"departure_city":                func(p *types.Pilgrim, v string) error { p.DepartureCity = v; return nil },
	"departure_point":               func(p *types.Pilgrim, v string) error { p.DeparturePoint = v; return nil },
	"arrival_hotel":                 func(p *types.Pilgrim, v string) error { p.ArrivalHotel = v; return nil },
	"makkah_hotel":                  func(p *types.Pilgrim, v string) error { p.MakkahHotel = v; return nil },
	"departure_hotel":               func(p *types.Pilgrim, v string) error { p.DepartureHotel = v; return nil },
	"accommodation_status":          func(p *types.Pilgrim, v string) error { p.AccommodationStatus = v; return nil },
	"age":                           func(p *types.Pilgrim, v string) (err error) { p.Age, err = strconv.Atoi(v); return },
	"arrival_date":                  func(p *types.Pilgrim, v string) error { p.ArrivalDate = v; return nil },
	"arrival_hotel_checkout_date":   func(p *types.Pilgrim, v string) error { p.ArrivalHotelCheckoutDate = v; return nil },
	"departure_city_arrival_date":   func(p *types.Pilgrim, v string) error { p.DepartureCityArrivalDate = v; return nil },
	"departure_hotel_checkout_date": func(p *types.Pilgrim, v string) error { p.DepartureHotelCheckoutDate = v; return nil },
	"departure_date":                func(p *types.Pilgrim, v string) error { p.DepartureDate = v; return nil },
	"makkah_room_type":              func(p *types.Pilgrim, v string) error { p.MakkahRoomType = v; return nil },
	"madinah_room_type":             func(p *types.Pilgrim, v string) error { p.MadinahRoomType = v; return nil },
}

// Columns is the header row written and expected for tabular files.
var Columns = []string{
	"id", "booking_id", "gender", "nationality", "company", "package", "flight_contract_type",
	"arrival_city", "arrival_point", "departure_city", "departure_point",
	"arrival_hotel", "makkah_hotel", "departure_hotel", "accommodation_status", "age",
	"arrival_date", "arrival_hotel_checkout_date", "departure_city_arrival_date",
	"departure_hotel_checkout_date", "departure_date", "makkah_room_type", "madinah_room_type",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// LoadXLSX reads the first sheet; the header row names the fields.
// Unknown columns are ignored, empty rows skipped.
func LoadXLSX(path string) ([]types.Pilgrim, error) {
	log := logger.New().WithField("component", "dataset.loader").WithField("path", path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := make([]func(p *types.Pilgrim, v string) error, len(rows[0]))
	mapped := 0
	for i, h := range rows[0] {
		if set, ok := setters[normalizeHeader(h)]; ok {
			cols[i] = set
			mapped++
		}
	}
	if mapped == 0 {
		return nil, fmt.Errorf("no recognised columns in header")
	}
	log.WithField("columns", mapped).Debug("detected dataset columns")

	out := make([]types.Pilgrim, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if isBlank(r) {
			continue
		}
		var p types.Pilgrim
		for j, cell := range r {
			if j >= len(cols) || cols[j] == nil {
				continue
			}
			if err := cols[j](&p, strings.TrimSpace(cell)); err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, rows[0][j], err)
			}
		}
		out = append(out, p)
	}
	log.WithField("records", len(out)).Info("dataset loaded")
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
