package aggregator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"pilgrim-insights-go/internal/dimension"
	"pilgrim-insights-go/internal/types"
)

// Metric is the per-group reduction.
type Metric string

const (
	Count   Metric = "count"
	Sum     Metric = "sum"
	Average Metric = "average"
)

var ErrMeasureRequired = errors.New("metric requires a numeric measure")

// Grouped partitions records by label. Labels keeps first-occurrence order.
type Grouped struct {
	Labels []string
	Groups map[string][]types.Pilgrim
}

// Aggregated maps a label to its reduced value. Labels keeps group order.
type Aggregated struct {
	Labels []string
	Values map[string]float64
}

// Total sums every value.
func (a Aggregated) Total() float64 {
	var t float64
	for _, l := range a.Labels {
		t += a.Values[l]
	}
	return t
}

// GroupBy partitions records by the string value of dim.
func GroupBy(records []types.Pilgrim, dim dimension.ID) Grouped {
	g := Grouped{Groups: make(map[string][]types.Pilgrim)}
	for i := range records {
		key := dim.Value(&records[i])
		if _, exists := g.Groups[key]; !exists {
			g.Labels = append(g.Labels, key)
		}
		g.Groups[key] = append(g.Groups[key], records[i])
	}
	return g
}

// Aggregate reduces each group. Count ignores measure; Sum and Average need one.
func Aggregate(g Grouped, metric Metric, measure dimension.Measure) (Aggregated, error) {
	switch metric {
	case Count, Sum, Average:
	default:
		return Aggregated{}, fmt.Errorf("unknown metric %q", metric)
	}
	if (metric == Sum || metric == Average) && measure == dimension.NoMeasure {
		return Aggregated{}, fmt.Errorf("%w: %s", ErrMeasureRequired, metric)
	}
	out := Aggregated{Labels: append([]string(nil), g.Labels...), Values: make(map[string]float64, len(g.Labels))}
	for _, label := range g.Labels {
		items := g.Groups[label]
		switch metric {
		case Count:
			out.Values[label] = float64(len(items))
		case Sum:
			out.Values[label] = sum(items, measure)
		case Average:
			// groups are never empty
			out.Values[label] = sum(items, measure) / float64(len(items))
		}
	}
	return out, nil
}

// CountBy is GroupBy followed by a Count aggregation.
func CountBy(records []types.Pilgrim, dim dimension.ID) Aggregated {
	agg, _ := Aggregate(GroupBy(records, dim), Count, dimension.NoMeasure)
	return agg
}

func sum(items []types.Pilgrim, m dimension.Measure) float64 {
	var s float64
	for i := range items {
		s += m.Value(&items[i])
	}
	return s
}

// SortBy orders chart points.
type SortBy string

const (
	SortByLabel SortBy = "label"
	SortByValue SortBy = "value"
)

func points(agg Aggregated, selected string) []types.ChartPoint {
	out := make([]types.ChartPoint, 0, len(agg.Labels))
	for _, label := range agg.Labels {
		out = append(out, types.ChartPoint{
			Label:      label,
			Value:      agg.Values[label],
			IsSelected: selected == "" || label == selected,
		})
	}
	return out
}

// ToChartData converts agg to chart points. A point is selected when no value
// is selected or its label equals selected. With sortDesc the points are ordered
// by value descending, otherwise they keep group order.
func ToChartData(agg Aggregated, selected string, sortDesc bool) []types.ChartPoint {
	pts := points(agg, selected)
	if sortDesc {
		SortPoints(pts, SortByValue)
	}
	return pts
}

// ToSortedChartData is ToChartData with an explicit order. Label order relies on
// ISO dates sorting lexicographically.
func ToSortedChartData(agg Aggregated, selected string, by SortBy) []types.ChartPoint {
	pts := points(agg, selected)
	SortPoints(pts, by)
	return pts
}

// SortPoints sorts in place; ties keep their relative order.
func SortPoints(pts []types.ChartPoint, by SortBy) {
	switch by {
	case SortByLabel:
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].Label < pts[j].Label })
	default:
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].Value > pts[j].Value })
	}
}

// OtherLabel is the synthetic bucket of CollapseLongTail.
const OtherLabel = "Other"

// DefaultTailThreshold is the share of the total under which a group is folded.
const DefaultTailThreshold = 0.05

// CollapseLongTail folds every group whose value is below threshold*total into
// OtherLabel. The returned selection is OtherLabel when selected was folded away.
func CollapseLongTail(agg Aggregated, selected string, threshold float64) (Aggregated, string) {
	total := agg.Total()
	out := Aggregated{Values: make(map[string]float64, len(agg.Labels))}
	var other float64
	folded := false
	effective := selected
	for _, label := range agg.Labels {
		v := agg.Values[label]
		if v < total*threshold || label == OtherLabel {
			other += v
			folded = true
			if label == selected {
				effective = OtherLabel
			}
			continue
		}
		out.Labels = append(out.Labels, label)
		out.Values[label] = v
	}
	if folded {
		out.Labels = append(out.Labels, OtherLabel)
		out.Values[OtherLabel] = other
	}
	return out, effective
}

// Rooms is the number of rooms per room type.
type Rooms struct {
	Triple int `json:"triple"`
	Double int `json:"double"`
	Quad   int `json:"quad"`
}

// Total is the number of rooms of every type.
func (r Rooms) Total() int { return r.Triple + r.Double + r.Quad }

// RoomBreakdown converts per-room-type pilgrim counts into rooms by capacity.
func RoomBreakdown(counts Aggregated) Rooms {
	return Rooms{
		Triple: int(math.Ceil(counts.Values[types.RoomTriple] / 3)),
		Double: int(math.Ceil(counts.Values[types.RoomDouble] / 2)),
		Quad:   int(math.Ceil(counts.Values[types.RoomQuad] / 4)),
	}
}
