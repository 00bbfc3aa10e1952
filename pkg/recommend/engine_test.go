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

// week ending 2025-07-13 runs Monday 2025-07-07 through Sunday 2025-07-13
const engineWeekEnding = "2025-07-13"

func engineSlots() []models.ShiftSlot {
	return []models.ShiftSlot{
		{ID: "foh-host", Label: "Host", Side: models.SideFOH, StartTime: "10:00", EndTime: "16:00", Hours: 6},
		{ID: "foh-bar", Label: "Bar", Side: models.SideFOH, StartTime: "16:00", EndTime: "23:00", Hours: 7},
		{ID: "boh-grill", Label: "Grill", Side: models.SideBOH, StartTime: "10:00", EndTime: "20:00", Hours: 10},
		{ID: "boh-saute", Label: "Saute", Side: models.SideBOH, StartTime: "12:00", EndTime: "20:00", Hours: 8},
	}
}

func engineGrid(t *testing.T) *schedule.WeekGrid {
	t.Helper()
	g, err := schedule.NewWeekGrid(engineWeekEnding, engineSlots(), nil)
	require.NoError(t, err)
	return g
}

func slotByID(t *testing.T, g *schedule.WeekGrid, id string) models.ShiftSlot {
	t.Helper()
	s, ok := g.SlotByID(id)
	require.True(t, ok)
	return s
}

func TestScoreBlockedShortCircuits(t *testing.T) {
	g := engineGrid(t)
	guard := stats.NewEligibilityGuard([]models.TimeOffBlock{
		{EmployeeID: "emp_a", Date: "2025-07-09"},
	})
	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_a", Name: "Ana", Side: "boh"}})
	agg := stats.NewAggregator(g, nil, nil, nil)
	eng := New(idx, g, agg, guard, nil)

	emp, _ := idx.Get("emp_a")
	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")

	assert.True(t, s.Blocked)
	assert.Zero(t, s.Score)
	assert.Empty(t, s.Factors)
	assert.Equal(t, []string{"Blocked: approved time off"}, s.Reasons)
	assert.Equal(t, "low", s.Confidence)

	// the same employee scores normally on an unblocked date
	s = eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-10")
	assert.False(t, s.Blocked)
	assert.Positive(t, s.Score)
}

func TestScoreIdealCandidate(t *testing.T) {
	g := engineGrid(t)
	emp := models.Employee{ID: "emp_star", Name: "Sam", Side: models.SideBOH}

	// 30 hours already on the books, spread over other days
	require.NoError(t, g.Assign("2025-07-07", "boh-grill", emp))
	require.NoError(t, g.Assign("2025-07-08", "boh-grill", emp))
	require.NoError(t, g.Assign("2025-07-11", "boh-grill", emp))

	attendance := map[string]models.AttendanceSummary{
		"emp_star": {Reliability: 100, OnTimeRate: 1},
	}
	ranking := &models.RankingSnapshot{
		PeriodLabel: "2025-W28",
		Bands: map[models.Band][]models.RankedEmployee{
			models.BandElite: {{UID: "emp_star", Name: "Sam", Score: 100}},
		},
	}
	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_star", Name: "Sam", Side: "boh"}})
	agg := stats.NewAggregator(g, attendance, ranking, nil)
	eng := New(idx, g, agg, nil, nil)

	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")

	assert.InDelta(t, 30, s.Factors[FactorPerformance], 0.001)
	assert.InDelta(t, 20, s.Factors[FactorAttendance], 0.001)
	assert.InDelta(t, 10, s.Factors[FactorHoursBalance], 0.001, "at the ideal week, not under it")
	assert.InDelta(t, 15, s.Factors[FactorAvailability], 0.001)
	assert.InDelta(t, 10, s.Factors[FactorChemistry], 0.001)
	assert.InDelta(t, 5, s.Factors[FactorTraining], 0.001)
	assert.InDelta(t, 5, s.Factors[FactorPreferences], 0.001)

	assert.InDelta(t, 95.0, s.Score, 0.001)
	assert.GreaterOrEqual(t, s.Score, 95.0)
	assert.LessOrEqual(t, s.Score, 100.0)
	assert.Equal(t, "high", s.Confidence)
	assert.Contains(t, s.Reasons, "High performer (100)")
	assert.Contains(t, s.Reasons, "Excellent attendance (100%)")
	assert.Contains(t, s.Reasons, "Fully available")
	assert.Contains(t, s.Reasons, "First on BOH for the day")
}

func TestScoreSameDayAssignmentZeroesAvailability(t *testing.T) {
	g := engineGrid(t)
	emp := models.Employee{ID: "emp_a", Name: "Ana", Side: models.SideBOH}
	require.NoError(t, g.Assign("2025-07-09", "boh-grill", emp))

	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_a", Name: "Ana", Side: "boh"}})
	eng := New(idx, g, stats.NewAggregator(g, nil, nil, nil), nil, nil)

	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")
	assert.Zero(t, s.Factors[FactorAvailability])
	assert.Contains(t, s.Reasons, "Already scheduled for this day")
	// someone is already on BOH, so chemistry drops to the baseline
	assert.InDelta(t, 8, s.Factors[FactorChemistry], 0.001)
}

func TestScoreAvoidDayZeroesPreferences(t *testing.T) {
	g := engineGrid(t)
	prefs := map[string]models.EmployeePreference{
		"emp_a": {AvoidDays: []string{"wednesday"}},
	}
	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_a", Name: "Ana", Side: "boh"}})
	eng := New(idx, g, stats.NewAggregator(g, nil, nil, nil), nil, prefs)

	emp, _ := idx.Get("emp_a")
	// 2025-07-09 is a Wednesday
	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")
	assert.Zero(t, s.Factors[FactorPreferences])
	assert.Contains(t, s.Reasons, "Prefers not to work on Wednesdays")
	// availability starts at 10 and takes the avoid-day hit
	assert.InDelta(t, 5, s.Factors[FactorAvailability], 0.001)
}

func TestScorePreferredDayAndTime(t *testing.T) {
	g := engineGrid(t)
	prefs := map[string]models.EmployeePreference{
		"emp_a": {
			PreferredDays:  []string{"Wednesday"},
			PreferredTimes: []string{"afternoon"},
		},
	}
	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_a", Name: "Ana", Side: "boh"}})
	eng := New(idx, g, stats.NewAggregator(g, nil, nil, nil), nil, prefs)

	emp, _ := idx.Get("emp_a")
	// boh-saute starts 12:00, an afternoon shift
	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")
	assert.InDelta(t, 5, s.Factors[FactorPreferences], 0.001, "capped at 5")
	assert.Contains(t, s.Reasons, "Prefers Wednesdays")
	assert.InDelta(t, 15, s.Factors[FactorAvailability], 0.001, "10 +3 preferred day +2 preferred time")
}

func TestScoreNeedsTrainingFactor(t *testing.T) {
	g := engineGrid(t)
	ranking := &models.RankingSnapshot{
		PeriodLabel: "2025-W28",
		Bands: map[models.Band][]models.RankedEmployee{
			models.BandNeedsTraining: {{UID: "emp_a", Score: 30}},
		},
	}
	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_a", Name: "Ana", Side: "boh"}})
	eng := New(idx, g, stats.NewAggregator(g, nil, ranking, nil), nil, nil)

	emp, _ := idx.Get("emp_a")
	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")
	assert.InDelta(t, 2, s.Factors[FactorTraining], 0.001)
	assert.Contains(t, s.Reasons, "Needs training support")
}

func TestScoreOverloadedWeekZeroesHoursBalance(t *testing.T) {
	g := engineGrid(t)
	emp := models.Employee{ID: "emp_a", Name: "Ana", Side: models.SideBOH}
	// 50 hours over five days
	for _, date := range []string{"2025-07-07", "2025-07-08", "2025-07-10", "2025-07-11", "2025-07-12"} {
		require.NoError(t, g.Assign(date, "boh-grill", emp))
	}

	idx := roster.NewIndex([]roster.RawEmployee{{ID: "emp_a", Name: "Ana", Side: "boh"}})
	eng := New(idx, g, stats.NewAggregator(g, nil, nil, nil), nil, nil)

	s := eng.Score(emp, slotByID(t, g, "boh-saute"), "2025-07-09")
	assert.Zero(t, s.Factors[FactorHoursBalance])
	assert.Contains(t, s.Reasons, "Already at 50 hours this week")
}

func TestConfidenceTiers(t *testing.T) {
	assert.Equal(t, "high", confidence(70))
	assert.Equal(t, "medium", confidence(69.9))
	assert.Equal(t, "medium", confidence(50))
	assert.Equal(t, "low", confidence(49.9))
}

func TestTimeBucket(t *testing.T) {
	assert.Equal(t, "morning", timeBucket("05:00"))
	assert.Equal(t, "morning", timeBucket("11:30"))
	assert.Equal(t, "afternoon", timeBucket("12:00"))
	assert.Equal(t, "evening", timeBucket("17:00"))
	assert.Equal(t, "night", timeBucket("22:00"))
	assert.Equal(t, "night", timeBucket("03:00"))
	assert.Equal(t, "night", timeBucket(""))
}
