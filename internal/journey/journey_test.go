package journey

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/types"
)

func trip(id int, arrivalCity, arrivalHotel, departureCity string) types.Pilgrim {
	return types.Pilgrim{
		ID:                         id,
		BookingID:                  fmt.Sprintf("HJ-2025-%05d", id),
		Gender:                     "Male",
		Nationality:                "Saudi Arabia",
		ArrivalCity:                arrivalCity,
		ArrivalHotel:               arrivalHotel,
		DepartureCity:              departureCity,
		DepartureHotel:             "Swiss Makkah",
		ArrivalDate:                "2025-06-01",
		ArrivalHotelCheckoutDate:   "2025-06-03",
		DepartureCityArrivalDate:   "2025-06-04",
		DepartureHotelCheckoutDate: "2025-06-10",
		DepartureDate:              "2025-06-11",
	}
}

// 6 via Madinah across five hotels, 3 via Makkah, 1 via Jeddah.
func journeyRecords() []types.Pilgrim {
	return []types.Pilgrim{
		trip(1, "Madinah", "H1", "Makkah"),
		trip(2, "Madinah", "H1", "Makkah"),
		trip(3, "Madinah", "H2", "Makkah"),
		trip(4, "Madinah", "H3", "Makkah"),
		trip(5, "Madinah", "H4", "Makkah"),
		trip(6, "Madinah", "H5", "Makkah"),
		trip(7, "Makkah", "H6", "Madinah"),
		trip(8, "Makkah", "H6", "Madinah"),
		trip(9, "Makkah", "H6", "Madinah"),
		trip(10, "Jeddah", "H7", "Jeddah"),
	}
}

func toggle(t *testing.T, key filters.Key, value string) filters.State {
	t.Helper()
	st, err := filters.Empty(filters.Journey).Toggle(key, value)
	require.NoError(t, err)
	return st
}

func pointLabels(pts []types.ChartPoint) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = p.Label
	}
	return out
}

func TestResolveUnfiltered(t *testing.T) {
	res := Resolve(journeyRecords(), filters.Empty(filters.Journey), ModeStageIndependent)
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 10, res.Population)
	require.Len(t, res.Stages, len(Stages))

	city := res.Stages[1]
	assert.Equal(t, []string{"Madinah", "Makkah", "Jeddah"}, pointLabels(city.Points))
	for _, s := range res.Stages {
		var total float64
		for _, p := range s.Points {
			total += p.Value
			assert.True(t, p.IsSelected)
		}
		assert.Equal(t, 10.0, total, s.Stage.Key)
	}
}

func TestResolveStageIgnoresOwnFilter(t *testing.T) {
	st := toggle(t, "node_arrival_city", "Madinah")
	res := Resolve(journeyRecords(), st, ModeStageIndependent)

	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Filtered, 6)

	city := res.Stages[1].Points
	require.Len(t, city, 3, "the selected stage keeps its siblings")
	assert.Equal(t, types.ChartPoint{Label: "Madinah", Value: 6, IsSelected: true}, city[0])
	assert.False(t, city[1].IsSelected)
	assert.False(t, city[2].IsSelected)

	hotels := res.Stages[2].Points
	assert.Equal(t, []string{"H1", "H2", "H3", "H4", "H5"}, pointLabels(hotels), "other stages honour the filter")
}

func TestResolveSharedMode(t *testing.T) {
	st := toggle(t, "node_arrival_city", "Madinah")
	res := Resolve(journeyRecords(), st, ModeShared)

	city := res.Stages[1].Points
	require.Len(t, city, 1)
	assert.Equal(t, "Madinah", city[0].Label)
}

func TestResolveDateStagesSortByLabel(t *testing.T) {
	records := journeyRecords()
	records[0].ArrivalDate = "2025-05-30"
	records[1].ArrivalDate = "2025-05-31"
	res := Resolve(records, filters.Empty(filters.Journey), ModeStageIndependent)
	assert.Equal(t, []string{"2025-05-30", "2025-05-31", "2025-06-01"}, pointLabels(res.Stages[0].Points))
}

func TestBuildGraphGeometry(t *testing.T) {
	layout := DefaultLayout()
	res := Resolve(journeyRecords()[:1], filters.Empty(filters.Journey), ModeStageIndependent)
	g := Build(res, layout)

	assert.Equal(t, 1110.0, g.Width)
	assert.Equal(t, 1380.0, g.Height)
	assert.Equal(t, 610.0, g.Root.X)
	assert.Equal(t, 1.0, g.Root.Value)
	require.Len(t, g.Nodes, len(Stages))

	first := g.Edges[0]
	assert.Equal(t, RootID, first.FromID)
	assert.Equal(t, "arrival_date:2025-06-01", first.ToID)
	assert.Equal(t, 98.0, first.FromY)
	assert.Equal(t, 148.0, first.ToY)
	assert.True(t, strings.HasPrefix(first.PathD, "M 610 98 C 610 "), first.PathD)
	assert.True(t, strings.HasSuffix(first.PathD, ", 610 148"), first.PathD)
	assert.InDelta(t, 4.2, first.StrokeWidth, 1e-9)

	second := g.Edges[1]
	assert.Equal(t, 210.0, second.FromY)
	assert.Equal(t, 270.0, second.ToY)

	// one root edge plus one edge between each pair of stages
	assert.Len(t, g.Edges, len(Stages))
}

func TestBuildGraphFanOutCap(t *testing.T) {
	res := Resolve(journeyRecords(), filters.Empty(filters.Journey), ModeStageIndependent)
	g := Build(res, DefaultLayout())

	var out []Edge
	for _, e := range g.Edges {
		if e.FromID == "arrival_city:Madinah" {
			out = append(out, e)
		}
	}
	require.Len(t, out, MaxTargetsPerNode)
	assert.Equal(t, "arrival_hotel:H1", out[0].ToID)
	assert.Equal(t, 2.0, out[0].Value)
	assert.Equal(t, "arrival_hotel:H2", out[1].ToID)
	assert.Equal(t, "arrival_hotel:H4", out[3].ToID)
}

func TestBuildGraphEdgeWeightBound(t *testing.T) {
	st := toggle(t, "node_arrival_hotel", "H6")
	res := Resolve(journeyRecords(), st, ModeStageIndependent)
	g := Build(res, DefaultLayout())

	nodes := map[string]Node{RootID: g.Root}
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}
	require.NotEmpty(t, g.Edges)
	for _, e := range g.Edges {
		from, ok := nodes[e.FromID]
		require.True(t, ok, e.FromID)
		to, ok := nodes[e.ToID]
		require.True(t, ok, e.ToID)
		assert.LessOrEqual(t, e.Value, from.Value, e.ID)
		assert.LessOrEqual(t, e.Value, to.Value, e.ID)
		assert.LessOrEqual(t, e.Value, g.MaxEdge, e.ID)
		assert.Equal(t, !from.IsSelected || !to.IsSelected, e.Faded, e.ID)
	}
	assert.Equal(t, 3.0, g.Root.Value)
	assert.Equal(t, 10, g.Population)
}

func TestBuildGraphEmpty(t *testing.T) {
	res := Resolve(nil, filters.Empty(filters.Journey), ModeStageIndependent)
	g := Build(res, DefaultLayout())

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 1.0, g.MaxEdge)
	assert.Equal(t, 0.0, g.Root.Value)
}

func TestBuildGraphHonoursStageLimits(t *testing.T) {
	var records []types.Pilgrim
	for i := 1; i <= 8; i++ {
		records = append(records, trip(i, fmt.Sprintf("City %d", i), "H1", "Makkah"))
	}
	g := Build(Resolve(records, filters.Empty(filters.Journey), ModeStageIndependent), DefaultLayout())

	cities := 0
	for _, n := range g.Nodes {
		if n.StageIndex == 1 {
			cities++
		}
	}
	assert.Equal(t, Stages[1].Limit, cities)
}

func TestTopNodes(t *testing.T) {
	pts := []types.ChartPoint{{Label: "a", Value: 1}, {Label: "b", Value: 3}, {Label: "c", Value: 1}, {Label: "d", Value: 2}}
	assert.Equal(t, []string{"b", "d", "a"}, pointLabels(TopNodes(pts, 3)))
	assert.Equal(t, "a", pts[0].Label, "input is left untouched")
	assert.Len(t, TopNodes(pts, 0), 4)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeStageIndependent, m)

	m, err = ParseMode("shared")
	require.NoError(t, err)
	assert.Equal(t, ModeShared, m)
	assert.Equal(t, "shared", m.String())

	_, err = ParseMode("cascade")
	assert.Error(t, err)
}
