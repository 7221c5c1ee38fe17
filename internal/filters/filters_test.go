package filters

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pilgrim-insights-go/internal/dimension"
	"pilgrim-insights-go/internal/types"
)

func sample() []types.Pilgrim {
	return []types.Pilgrim{
		{ID: 1, BookingID: "HJ-2025-00001", Gender: "Male", Nationality: "Egypt", ArrivalCity: "Madinah", Age: 23, ArrivalDate: "2025-05-30", DepartureDate: "2025-06-12"},
		{ID: 2, BookingID: "HJ-2025-00002", Gender: "Female", Nationality: "Egypt", ArrivalCity: "Makkah", Age: 41, ArrivalDate: "2025-06-01", DepartureDate: "2025-06-13"},
		{ID: 3, BookingID: "HJ-2025-00013", Gender: "Male", Nationality: "Jordan", ArrivalCity: "Madinah", Age: 20, ArrivalDate: "2025-06-02", DepartureDate: "2025-06-14"},
		{ID: 4, BookingID: "SV-2026-00004", Gender: "Female", Nationality: "Jordan", ArrivalCity: "Jeddah", Age: 58, ArrivalDate: "2025-06-03", DepartureDate: "2025-06-14"},
		{ID: 5, BookingID: "SV-2026-00005", Gender: "Male", Nationality: "Egypt", ArrivalCity: "Madinah", Age: 24, ArrivalDate: "2025-06-05", DepartureDate: "2025-06-16"},
	}
}

func ids(records []types.Pilgrim) []int {
	out := make([]int, 0, len(records))
	for _, p := range records {
		out = append(out, p.ID)
	}
	return out
}

func mustWith(t *testing.T, st State, key Key, value string) State {
	t.Helper()
	next, err := st.With(key, value)
	require.NoError(t, err)
	return next
}

func TestApplyEmptyStateReturnsEverything(t *testing.T) {
	records := sample()
	out := Apply(records, Empty(Flat))
	assert.Equal(t, records, out)

	out[0].Gender = "changed"
	assert.Equal(t, "Male", records[0].Gender, "result must not alias the input")
}

func TestApplyIsIdempotent(t *testing.T) {
	st := mustWith(t, Empty(Flat), "gender", "Male")
	once := Apply(sample(), st)
	twice := Apply(once, st)
	assert.Equal(t, once, twice)
}

func TestApplyComposesWithAnd(t *testing.T) {
	records := sample()
	a := mustWith(t, Empty(Flat), "gender", "Male")
	b := mustWith(t, Empty(Flat), "arrival_city", "Madinah")
	both := mustWith(t, a, "arrival_city", "Madinah")

	assert.Equal(t, Apply(Apply(records, a), b), Apply(records, both))
	assert.Equal(t, []int{1, 3, 5}, ids(Apply(records, both)))
}

func TestApplyDateRange(t *testing.T) {
	st := mustWith(t, Empty(Flat), "from_date", "2025-06-01")
	st = mustWith(t, st, "to_date", "2025-06-03")
	assert.Equal(t, []int{2, 3, 4}, ids(Apply(sample(), st)))

	st = mustWith(t, Empty(Journey), "departure_date_from", "2025-06-14")
	assert.Equal(t, []int{3, 4, 5}, ids(Apply(sample(), st)))
}

func TestApplyCalendarParts(t *testing.T) {
	st := mustWith(t, Empty(Flat), "month", "6")
	st = mustWith(t, st, "day", "2")
	assert.Equal(t, []int{3}, ids(Apply(sample(), st)))
}

func TestApplyAgeBucketUsesSharedBucketing(t *testing.T) {
	st := mustWith(t, Empty(Flat), "chart_age_bucket", "20-24")
	assert.Equal(t, []int{1, 3, 5}, ids(Apply(sample(), st)))
}

func TestApplyBookingMatch(t *testing.T) {
	st := mustWith(t, Empty(Journey), "dropdown_booking_id", "HJ-2025-00001")
	assert.Equal(t, []int{1}, ids(Apply(sample(), st)))

	st = mustWith(t, Empty(Journey), "dropdown_booking_id", "hj-2025-0000")
	assert.Empty(t, Apply(sample(), st))
	assert.Equal(t, []int{1, 2}, ids(Apply(sample(), st, WithBookingMatch(BookingPrefix))))

	st = mustWith(t, Empty(Journey), "dropdown_booking_id", "2026")
	assert.Equal(t, []int{4, 5}, ids(Apply(sample(), st, WithBookingMatch(BookingContains))))
}

func TestApplyNoMatchIsEmpty(t *testing.T) {
	st := mustWith(t, Empty(Flat), "arrival_city", "Riyadh")
	out := Apply(sample(), st)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestWithUnknownKey(t *testing.T) {
	st := Empty(Flat)
	_, err := st.With("node_arrival_city", "Madinah")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := mustWith(t, Empty(Flat), "gender", "Male")
	_ = mustWith(t, base, "gender", "Female")
	_ = base.Without("gender")
	assert.Equal(t, "Male", base.Get("gender"))
}

func TestToggle(t *testing.T) {
	st := Empty(Journey)

	on, err := st.Toggle("node_arrival_city", "Madinah")
	require.NoError(t, err)
	assert.Equal(t, "Madinah", on.Get("node_arrival_city"))

	switched, err := on.Toggle("node_arrival_city", "Makkah")
	require.NoError(t, err)
	assert.Equal(t, "Makkah", switched.Get("node_arrival_city"))

	off, err := on.Toggle("node_arrival_city", "Madinah")
	require.NoError(t, err)
	assert.True(t, off.IsEmpty())
	assert.Equal(t, ids(Apply(sample(), st)), ids(Apply(sample(), off)))
}

func TestSetRejectsCrossKeys(t *testing.T) {
	_, err := Empty(Flat).Set("chart_gender", "Male")
	assert.ErrorIs(t, err, ErrNotSidebarFilter)

	_, err = Empty(Journey).Set("nope", "Male")
	assert.ErrorIs(t, err, ErrUnknownKey)

	st, err := Empty(Journey).Set("dropdown_gender", "Female")
	require.NoError(t, err)
	assert.Equal(t, "Female", st.Get("dropdown_gender"))
}

func TestToggleRejectsSidebarKeys(t *testing.T) {
	_, err := Empty(Flat).Toggle("gender", "Male")
	assert.ErrorIs(t, err, ErrNotCrossFilter)

	_, err = Empty(Flat).Toggle("nope", "Male")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestActiveFollowsSchemaOrder(t *testing.T) {
	st := mustWith(t, Empty(Flat), "chart_gender", "Male")
	st = mustWith(t, st, "from_date", "2025-06-01")
	assert.Equal(t, []Pair{{"from_date", "2025-06-01"}, {"chart_gender", "Male"}}, st.Active())
}

func TestStateJSON(t *testing.T) {
	st := mustWith(t, Empty(Journey), "node_arrival_city", "Madinah")
	b, err := json.Marshal(st)
	require.NoError(t, err)

	var got map[string]*string
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Len(t, got, len(Journey.Fields()))
	require.NotNil(t, got["node_arrival_city"])
	assert.Equal(t, "Madinah", *got["node_arrival_city"])
	assert.Nil(t, got["dropdown_gender"])
}

func TestSchemaLookup(t *testing.T) {
	s, ok := SchemaByName("journey")
	require.True(t, ok)
	assert.Same(t, Journey, s)

	_, ok = SchemaByName("reports")
	assert.False(t, ok)

	key, ok := Journey.CrossKey(dimension.ArrivalHotel)
	require.True(t, ok)
	assert.Equal(t, Key("node_arrival_hotel"), key)
	_, ok = Flat.CrossKey(dimension.ArrivalPoint)
	assert.False(t, ok)

	f, ok := Flat.Field("from_date")
	require.True(t, ok)
	assert.Equal(t, OpFrom, f.Op)
	assert.Equal(t, Sidebar, f.Group)
}

func TestParseBookingMatch(t *testing.T) {
	m, ok := ParseBookingMatch("")
	assert.True(t, ok)
	assert.Equal(t, BookingExact, m)

	m, ok = ParseBookingMatch("Prefix")
	assert.True(t, ok)
	assert.Equal(t, BookingPrefix, m)

	_, ok = ParseBookingMatch("fuzzy")
	assert.False(t, ok)
}

func TestStore(t *testing.T) {
	s := NewStore(Flat)

	st, err := s.SetSidebarFilter("gender", "Female")
	require.NoError(t, err)
	assert.Equal(t, st, s.Snapshot())

	st, err = s.ToggleCrossFilter("chart_arrival_city", "Jeddah")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ids(Apply(sample(), st)))

	before := s.Snapshot()
	_, err = s.ToggleCrossFilter("gender", "Male")
	require.ErrorIs(t, err, ErrNotCrossFilter)
	assert.Equal(t, before, s.Snapshot(), "failed mutation leaves state unchanged")

	_, err = s.SetSidebarFilter("chart_arrival_city", "Makkah")
	require.ErrorIs(t, err, ErrNotSidebarFilter)
	assert.Equal(t, "Jeddah", s.Snapshot().Get("chart_arrival_city"))

	assert.True(t, s.ClearAll().IsEmpty())
	assert.True(t, s.Snapshot().IsEmpty())
}

func TestStoreConcurrentMutations(t *testing.T) {
	s := NewStore(Journey)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ToggleCrossFilter("node_arrival_city", "Madinah")
			_ = Apply(sample(), s.Snapshot())
		}()
	}
	wg.Wait()
	// 50 toggles of the same value cancel out
	assert.True(t, s.Snapshot().IsEmpty())
}
