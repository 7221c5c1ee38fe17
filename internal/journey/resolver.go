// Package journey computes the multi-stage journey view: per-stage series that
// ignore their own node filter, and the positioned flow graph built from them.
package journey

import (
	"fmt"
	"strings"

	"pilgrim-insights-go/internal/aggregator"
	"pilgrim-insights-go/internal/dimension"
	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/types"
)

// Stage is one waypoint row of the journey.
type Stage struct {
	Index int          `json:"index"`
	Title string       `json:"title"`
	Field dimension.ID `json:"-"`
	Key   filters.Key  `json:"filterKey"`
	Limit int          `json:"limit"`
}

// IsDate reports whether the stage shows calendar dates.
func (s Stage) IsDate() bool { return s.Field.IsDate() }

// Stages is the journey in itinerary order.
var Stages = []Stage{
	{0, "تاريخ الوصول", dimension.ArrivalDate, "node_arrival_date", 7},
	{1, "مدينة الوصول", dimension.ArrivalCity, "node_arrival_city", 6},
	{2, "فندق الوصول", dimension.ArrivalHotel, "node_arrival_hotel", 7},
	{3, "مغادرة فندق الوصول", dimension.ArrivalHotelCheckoutDate, "node_arrival_hotel_checkout_date", 7},
	{4, "مدينة المغادرة", dimension.DepartureCity, "node_departure_city", 6},
	{5, "وصول مدينة المغادرة", dimension.DepartureCityArrivalDate, "node_departure_city_arrival_date", 7},
	{6, "فندق المغادرة", dimension.DepartureHotel, "node_departure_hotel", 7},
	{7, "مغادرة الفندق", dimension.DepartureHotelCheckoutDate, "node_departure_hotel_checkout_date", 7},
	{8, "تاريخ المغادرة", dimension.DepartureDate, "node_departure_date", 7},
}

// Mode selects which subset each stage aggregates.
type Mode int

const (
	// ModeStageIndependent clears the stage's own node filter before filtering,
	// so a selected stage keeps showing its sibling values.
	ModeStageIndependent Mode = iota
	// ModeShared aggregates every stage from the one fully filtered subset.
	ModeShared
)

func (m Mode) String() string {
	if m == ModeShared {
		return "shared"
	}
	return "independent"
}

// ParseMode maps "independent" or "shared" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "independent":
		return ModeStageIndependent, nil
	case "shared":
		return ModeShared, nil
	}
	return ModeStageIndependent, fmt.Errorf("unknown journey stage mode %q", s)
}

// StageSeries is one stage's chart points.
type StageSeries struct {
	Stage  Stage              `json:"stage"`
	Points []types.ChartPoint `json:"points"`
}

// Resolution is the input of the flow graph: the fully filtered subset and
// one series per stage.
type Resolution struct {
	Filtered   []types.Pilgrim `json:"-"`
	Population int             `json:"population"`
	Total      int             `json:"total"`
	Stages     []StageSeries   `json:"stages"`
}

// Resolve computes the per-stage series for st. In ModeStageIndependent each
// stage re-runs the filter with only its own key cleared; every other active
// filter still applies.
func Resolve(records []types.Pilgrim, st filters.State, mode Mode, opts ...filters.Option) Resolution {
	filtered := filters.Apply(records, st, opts...)
	res := Resolution{
		Filtered:   filtered,
		Population: len(records),
		Total:      len(filtered),
		Stages:     make([]StageSeries, 0, len(Stages)),
	}
	for _, stage := range Stages {
		subset := filtered
		if mode == ModeStageIndependent && st.Get(stage.Key) != "" {
			subset = filters.Apply(records, st.Without(stage.Key), opts...)
		}
		res.Stages = append(res.Stages, StageSeries{Stage: stage, Points: stagePoints(subset, stage, st.Get(stage.Key))})
	}
	return res
}

func stagePoints(subset []types.Pilgrim, stage Stage, selected string) []types.ChartPoint {
	agg := aggregator.CountBy(subset, stage.Field)
	if stage.IsDate() {
		return aggregator.ToSortedChartData(agg, selected, aggregator.SortByLabel)
	}
	return aggregator.ToSortedChartData(agg, selected, aggregator.SortByValue)
}
