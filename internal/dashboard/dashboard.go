// Package dashboard assembles the flat dashboard: headline KPIs and one chart
// series per cross-filterable dimension, all derived from a single filtered subset.
package dashboard

import (
	"errors"
	"fmt"

	"pilgrim-insights-go/internal/aggregator"
	"pilgrim-insights-go/internal/dimension"
	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/types"
)

// Order is how a series arranges its points.
type Order int

const (
	ByValue Order = iota
	ByLabel
	ByFirstSeen
)

// SeriesDef declares one dashboard chart.
type SeriesDef struct {
	Name      string
	Dim       dimension.ID
	Key       filters.Key
	Order     Order
	Collapsed bool
}

// Series is one chart's render-ready data.
type Series struct {
	Name      string             `json:"name"`
	Dimension string             `json:"dimension"`
	FilterKey filters.Key        `json:"filterKey"`
	Selected  string             `json:"selected,omitempty"`
	Points    []types.ChartPoint `json:"points"`
}

// View is everything the dashboard renders for one filter snapshot.
type View struct {
	TotalPilgrims int              `json:"totalPilgrims"`
	MakkahRooms   aggregator.Rooms `json:"makkahRooms"`
	MadinahRooms  aggregator.Rooms `json:"madinahRooms"`
	Series        []Series         `json:"series"`
	Filters       filters.State    `json:"filters"`
	Active        []filters.Pair   `json:"activeFilters"`

	// Filtered is the subset handed to the export collaborator.
	Filtered []types.Pilgrim `json:"-"`
}

// Charts lists the dashboard series in display order.
var Charts = []SeriesDef{
	{Name: "gender", Dim: dimension.Gender, Key: "chart_gender", Order: ByFirstSeen},
	{Name: "arrival_city", Dim: dimension.ArrivalCity, Key: "chart_arrival_city"},
	{Name: "arrival_date", Dim: dimension.ArrivalDate, Key: "chart_arrival_date", Order: ByLabel},
	{Name: "departure_date", Dim: dimension.DepartureDate, Key: "chart_departure_date", Order: ByLabel},
	{Name: "arrival_hotel", Dim: dimension.ArrivalHotel, Key: "chart_arrival_hotel"},
	{Name: "departure_hotel", Dim: dimension.DepartureHotel, Key: "chart_departure_hotel"},
	{Name: "nationality", Dim: dimension.Nationality, Key: "chart_nationality", Collapsed: true},
	{Name: "accommodation_status", Dim: dimension.AccommodationStatus, Key: "chart_accommodation_status"},
	{Name: "package", Dim: dimension.Package, Key: "chart_package"},
	{Name: "company", Dim: dimension.Company, Key: "chart_company"},
	{Name: "age", Dim: dimension.AgeBucket, Key: "chart_age_bucket", Order: ByLabel},
}

// ErrFoldedValue rejects a toggle on the synthetic long-tail bucket of a
// collapsed series; no record carries that label.
var ErrFoldedValue = errors.New("cannot filter on a folded long-tail bucket")

// CheckToggle reports whether toggling key to value is meaningful for the
// dashboard series bound to key.
func CheckToggle(key filters.Key, value string) error {
	if value != aggregator.OtherLabel {
		return nil
	}
	for _, def := range Charts {
		if def.Key == key && def.Collapsed {
			return fmt.Errorf("%w: %s=%q", ErrFoldedValue, key, value)
		}
	}
	return nil
}

// Build filters records with st and derives the KPIs from the result. A series
// whose own cross-filter is active is aggregated with only that key cleared, so
// the chart keeps offering its sibling values next to the selected one.
func Build(records []types.Pilgrim, st filters.State, opts ...filters.Option) View {
	filtered := filters.Apply(records, st, opts...)
	v := View{
		TotalPilgrims: len(filtered),
		MakkahRooms:   aggregator.RoomBreakdown(aggregator.CountBy(filtered, dimension.MakkahRoomType)),
		MadinahRooms:  aggregator.RoomBreakdown(aggregator.CountBy(filtered, dimension.MadinahRoomType)),
		Filters:       st,
		Active:        st.Active(),
		Filtered:      filtered,
	}
	for _, def := range Charts {
		subset := filtered
		if st.Get(def.Key) != "" {
			subset = filters.Apply(records, st.Without(def.Key), opts...)
		}
		v.Series = append(v.Series, BuildSeries(subset, st, def))
	}
	return v
}

// BuildSeries aggregates one chart from an already filtered subset and marks
// the value selected under def.Key.
func BuildSeries(filtered []types.Pilgrim, st filters.State, def SeriesDef) Series {
	agg := aggregator.CountBy(filtered, def.Dim)
	selected := st.Get(def.Key)
	if def.Collapsed {
		agg, selected = aggregator.CollapseLongTail(agg, selected, aggregator.DefaultTailThreshold)
	}
	s := Series{Name: def.Name, Dimension: def.Dim.String(), FilterKey: def.Key, Selected: selected}
	switch def.Order {
	case ByLabel:
		s.Points = aggregator.ToSortedChartData(agg, selected, aggregator.SortByLabel)
	case ByFirstSeen:
		s.Points = aggregator.ToChartData(agg, selected, false)
	default:
		s.Points = aggregator.ToChartData(agg, selected, true)
	}
	return s
}
