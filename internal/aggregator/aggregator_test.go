package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pilgrim-insights-go/internal/dimension"
	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/types"
)

// tenPilgrims is 6 men and 4 women, first record male.
func tenPilgrims() []types.Pilgrim {
	genders := []string{"Male", "Female", "Male", "Male", "Female", "Male", "Female", "Male", "Female", "Male"}
	out := make([]types.Pilgrim, len(genders))
	for i, g := range genders {
		out[i] = types.Pilgrim{ID: i + 1, Gender: g, Age: 20 + i*3}
	}
	return out
}

func TestGroupByKeepsFirstSeenOrder(t *testing.T) {
	g := GroupBy(tenPilgrims(), dimension.Gender)
	assert.Equal(t, []string{"Male", "Female"}, g.Labels)
	assert.Len(t, g.Groups["Male"], 6)
	assert.Len(t, g.Groups["Female"], 4)
}

func TestCountConservation(t *testing.T) {
	records := tenPilgrims()
	for _, dim := range []dimension.ID{dimension.Gender, dimension.AgeBucket, dimension.ArrivalCity} {
		agg := CountBy(records, dim)
		assert.Equal(t, float64(len(records)), agg.Total(), dim.String())
	}
}

func TestCountByEmpty(t *testing.T) {
	agg := CountBy(nil, dimension.Gender)
	assert.Empty(t, agg.Labels)
	assert.Empty(t, ToChartData(agg, "", true))
}

func TestSelectionAnnotation(t *testing.T) {
	agg := CountBy(tenPilgrims(), dimension.Gender)

	for _, sortDesc := range []bool{true, false} {
		assert.Equal(t, []types.ChartPoint{
			{Label: "Male", Value: 6, IsSelected: true},
			{Label: "Female", Value: 4, IsSelected: false},
		}, ToChartData(agg, "Male", sortDesc))
	}

	for _, p := range ToChartData(agg, "", true) {
		assert.True(t, p.IsSelected)
	}
	for _, p := range ToChartData(agg, "Unknown", true) {
		assert.False(t, p.IsSelected)
	}
}

func TestFilteredAggregationKeepsOnlyMatches(t *testing.T) {
	st, err := filters.Empty(filters.Flat).Toggle("chart_gender", "Female")
	require.NoError(t, err)
	filtered := filters.Apply(tenPilgrims(), st)
	require.Len(t, filtered, 4)

	pts := ToChartData(CountBy(filtered, dimension.Gender), st.Get("chart_gender"), false)
	assert.Equal(t, []types.ChartPoint{{Label: "Female", Value: 4, IsSelected: true}}, pts)
}

func TestSumAndAverage(t *testing.T) {
	records := []types.Pilgrim{
		{ID: 1, Gender: "Male", Age: 30},
		{ID: 2, Gender: "Male", Age: 50},
		{ID: 3, Gender: "Female", Age: 44},
	}
	g := GroupBy(records, dimension.Gender)

	sum, err := Aggregate(g, Sum, dimension.Age)
	require.NoError(t, err)
	assert.Equal(t, 80.0, sum.Values["Male"])
	assert.Equal(t, 44.0, sum.Values["Female"])

	avg, err := Aggregate(g, Average, dimension.Age)
	require.NoError(t, err)
	assert.Equal(t, 40.0, avg.Values["Male"])

	_, err = Aggregate(g, Average, dimension.NoMeasure)
	assert.ErrorIs(t, err, ErrMeasureRequired)

	_, err = Aggregate(Grouped{}, Metric("median"), dimension.Age)
	assert.Error(t, err)
}

func TestSortPoints(t *testing.T) {
	agg := Aggregated{
		Labels: []string{"2025-06-03", "2025-06-01", "2025-06-02", "2025-06-04"},
		Values: map[string]float64{"2025-06-03": 5, "2025-06-01": 9, "2025-06-02": 5, "2025-06-04": 1},
	}

	byValue := ToSortedChartData(agg, "", SortByValue)
	assert.Equal(t, []string{"2025-06-01", "2025-06-03", "2025-06-02", "2025-06-04"}, labels(byValue), "ties keep group order")

	byLabel := ToSortedChartData(agg, "2025-06-02", SortByLabel)
	assert.Equal(t, []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04"}, labels(byLabel))
	assert.True(t, byLabel[1].IsSelected)
	assert.False(t, byLabel[0].IsSelected)
}

func labels(pts []types.ChartPoint) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = p.Label
	}
	return out
}

func TestCollapseLongTail(t *testing.T) {
	agg := Aggregated{Values: map[string]float64{}}
	add := func(label string, v float64) {
		agg.Labels = append(agg.Labels, label)
		agg.Values[label] = v
	}
	add("Saudi Arabia", 900)
	add("Egypt", 60)
	add("Jordan", 20)
	add("UAE", 12)
	add("Kuwait", 8)

	out, selected := CollapseLongTail(agg, "Kuwait", DefaultTailThreshold)
	assert.Equal(t, []string{"Saudi Arabia", "Egypt", OtherLabel}, out.Labels)
	assert.Equal(t, 40.0, out.Values[OtherLabel])
	assert.Equal(t, agg.Total(), out.Total())
	assert.Equal(t, OtherLabel, selected)

	_, selected = CollapseLongTail(agg, "Egypt", DefaultTailThreshold)
	assert.Equal(t, "Egypt", selected)
}

func TestCollapseLongTailNothingToFold(t *testing.T) {
	agg := CountBy(tenPilgrims(), dimension.Gender)
	out, _ := CollapseLongTail(agg, "", DefaultTailThreshold)
	assert.Equal(t, agg.Labels, out.Labels)
	assert.NotContains(t, out.Values, OtherLabel)
}

func TestRoomBreakdown(t *testing.T) {
	counts := Aggregated{Values: map[string]float64{
		types.RoomTriple: 7,
		types.RoomDouble: 4,
		types.RoomQuad:   1,
	}}
	rooms := RoomBreakdown(counts)
	assert.Equal(t, Rooms{Triple: 3, Double: 2, Quad: 1}, rooms)
	assert.Equal(t, 6, rooms.Total())

	assert.Equal(t, Rooms{}, RoomBreakdown(Aggregated{}))
}

func TestRoomBreakdownFromRecords(t *testing.T) {
	var records []types.Pilgrim
	for i := 0; i < 10; i++ {
		records = append(records, types.Pilgrim{ID: i + 1, MakkahRoomType: types.RoomDouble})
	}
	rooms := RoomBreakdown(CountBy(records, dimension.MakkahRoomType))
	assert.Equal(t, 5, rooms.Double)
	assert.Equal(t, 5, rooms.Total())
}
