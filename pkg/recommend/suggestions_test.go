package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaluna/shift-planner-api/pkg/models"
	"github.com/casaluna/shift-planner-api/pkg/roster"
	"github.com/casaluna/shift-planner-api/pkg/schedule"
	"github.com/casaluna/shift-planner-api/pkg/stats"
)

// suggestionEngine wires four BOH cooks and one FOH host with distinct
// performance scores so rankings come out in a known order.
func suggestionEngine(t *testing.T, guard *stats.EligibilityGuard) (*Engine, *schedule.WeekGrid) {
	t.Helper()
	g := engineGrid(t)
	idx := roster.NewIndex([]roster.RawEmployee{
		{ID: "emp_1", Name: "Ana", Side: "boh"},
		{ID: "emp_2", Name: "Ben", Side: "boh"},
		{ID: "emp_3", Name: "Cara", Side: "boh"},
		{ID: "emp_4", Name: "Dev", Side: "boh"},
		{ID: "emp_5", Name: "Eve", Side: "foh"},
	})
	ranking := &models.RankingSnapshot{
		PeriodLabel: "2025-W28",
		Bands: map[models.Band][]models.RankedEmployee{
			models.BandElite:      {{UID: "emp_1", Score: 95}},
			models.BandStrong:     {{UID: "emp_2", Score: 80}, {UID: "emp_3", Score: 70}},
			models.BandDeveloping: {{UID: "emp_4", Score: 60}},
		},
	}
	agg := stats.NewAggregator(g, nil, ranking, nil)
	return New(idx, g, agg, guard, nil), g
}

func TestSuggestionsForSlotRanksAndTruncates(t *testing.T) {
	eng, _ := suggestionEngine(t, nil)

	ranked, err := eng.SuggestionsForSlot("boh-saute", "2025-07-09", 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3, "four candidates, top three kept")

	assert.Equal(t, "emp_1", ranked[0].Employee.ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	for _, s := range ranked {
		assert.Equal(t, models.SideBOH, s.Employee.Side)
		assert.False(t, s.Blocked)
	}
}

func TestSuggestionsForSlotDefaultTopN(t *testing.T) {
	eng, _ := suggestionEngine(t, nil)
	ranked, err := eng.SuggestionsForSlot("boh-saute", "2025-07-09", 0)
	require.NoError(t, err)
	assert.Len(t, ranked, DefaultTopN)
}

func TestSuggestionsForSlotExcludesBlockedAndAssigned(t *testing.T) {
	guard := stats.NewEligibilityGuard([]models.TimeOffBlock{
		{EmployeeID: "emp_2", Date: "2025-07-09"},
	})
	eng, g := suggestionEngine(t, guard)
	require.NoError(t, g.Assign("2025-07-09", "boh-grill", models.Employee{ID: "emp_1", Name: "Ana"}))

	ranked, err := eng.SuggestionsForSlot("boh-saute", "2025-07-09", 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "emp_3", ranked[0].Employee.ID)
	assert.Equal(t, "emp_4", ranked[1].Employee.ID)
}

func TestSuggestionsForSlotTiesKeepRosterOrder(t *testing.T) {
	g := engineGrid(t)
	idx := roster.NewIndex([]roster.RawEmployee{
		{ID: "emp_z", Name: "Zoe", Side: "boh"},
		{ID: "emp_a", Name: "Ana", Side: "boh"},
	})
	eng := New(idx, g, stats.NewAggregator(g, nil, nil, nil), nil, nil)

	ranked, err := eng.SuggestionsForSlot("boh-saute", "2025-07-09", 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.InDelta(t, ranked[0].Score, ranked[1].Score, 0.001)
	assert.Equal(t, "emp_z", ranked[0].Employee.ID, "feed order breaks ties")
}

func TestSuggestionsForSlotRejectsBadInput(t *testing.T) {
	eng, _ := suggestionEngine(t, nil)

	_, err := eng.SuggestionsForSlot("nope", "2025-07-09", 3)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = eng.SuggestionsForSlot("boh-saute", "2025-08-01", 3)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestFullWeekSuggestionsSkipsFilledSlots(t *testing.T) {
	eng, g := suggestionEngine(t, nil)
	require.NoError(t, g.Assign("2025-07-07", "boh-saute", models.Employee{ID: "emp_4", Name: "Dev"}))

	sweep := eng.FullWeekSuggestions()
	require.NotEmpty(t, sweep)

	monday := sweep["2025-07-07"]
	require.NotNil(t, monday)
	assert.NotContains(t, monday, "boh-saute", "filled slots are not swept")
	assert.Contains(t, monday, "boh-grill")

	// every other day offers all four slots
	require.Len(t, sweep["2025-07-08"], 4)
	for _, ranked := range sweep["2025-07-08"] {
		assert.NotEmpty(t, ranked)
		assert.LessOrEqual(t, len(ranked), DefaultTopN)
	}
}

func TestApplySuggestionConsumesCacheEntry(t *testing.T) {
	eng, g := suggestionEngine(t, nil)
	sweep := eng.FullWeekSuggestions()
	top := sweep["2025-07-09"]["boh-saute"][0]

	require.NoError(t, eng.ApplySuggestion("2025-07-09", "boh-saute", top.Employee))
	assert.Equal(t, top.Employee.ID, g.Assignments("2025-07-09")["boh-saute"])
	assert.NotContains(t, eng.CachedSuggestions()["2025-07-09"], "boh-saute")

	// grid errors surface untouched: the applied employee is now booked
	// for the day, so a second slot is a double-booking
	err := eng.ApplySuggestion("2025-07-09", "boh-grill", top.Employee)
	assert.ErrorIs(t, err, models.ErrDoubleBooked)
	assert.Contains(t, eng.CachedSuggestions()["2025-07-09"], "boh-grill", "failed applies keep their cache entry")
}

func TestCachedSuggestionsNilBeforeSweep(t *testing.T) {
	eng, _ := suggestionEngine(t, nil)
	assert.Nil(t, eng.CachedSuggestions())
}
