package dataset

import (
	"sort"
	"strconv"

	"pilgrim-insights-go/internal/dimension"
	"pilgrim-insights-go/internal/logger"
	"pilgrim-insights-go/internal/types"
)

// Summary is the dataset overview used to populate sidebar controls.
type Summary struct {
	TotalPilgrims int                 `json:"total_pilgrims"`
	Options       map[string][]string `json:"options"`
}

// optionDims are the dimensions offered as sidebar choices.
var optionDims = []dimension.ID{
	dimension.ArrivalDate,
	dimension.DepartureDate,
	dimension.ArrivalYear,
	dimension.ArrivalMonth,
	dimension.ArrivalDay,
	dimension.ArrivalCity,
	dimension.ArrivalPoint,
	dimension.DepartureCity,
	dimension.DeparturePoint,
	dimension.ArrivalHotel,
	dimension.DepartureHotel,
	dimension.Package,
	dimension.Gender,
	dimension.Nationality,
	dimension.AccommodationStatus,
}

// Summarize collects the sorted distinct values of every sidebar dimension.
// Calendar parts sort numerically, everything else lexicographically.
func Summarize(records []types.Pilgrim) Summary {
	log := logger.New().WithField("component", "dataset.summary")
	s := Summary{TotalPilgrims: len(records), Options: make(map[string][]string, len(optionDims))}
	for _, dim := range optionDims {
		s.Options[dim.String()] = Unique(records, dim)
	}
	log.WithField("total_pilgrims", s.TotalPilgrims).WithField("dimensions", len(s.Options)).Info("dataset summarization complete")
	return s
}

// Unique returns the sorted distinct non-empty values of dim.
func Unique(records []types.Pilgrim, dim dimension.ID) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range records {
		v := dim.Value(&records[i])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	switch dim {
	case dimension.ArrivalYear, dimension.ArrivalMonth, dimension.ArrivalDay:
		sort.Slice(out, func(i, j int) bool {
			a, _ := strconv.Atoi(out[i])
			b, _ := strconv.Atoi(out[j])
			return a < b
		})
	default:
		sort.Strings(out)
	}
	return out
}
