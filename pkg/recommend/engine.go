// Package recommend scores and ranks candidate employees for open shift
// slots. Scoring is synchronous and pure: a full-week sweep touches at
// most 7 days by the slot count, and every input snapshot is loaded
// before the engine runs.
package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/casaluna/shift-planner-api/pkg/models"
	"github.com/casaluna/shift-planner-api/pkg/roster"
	"github.com/casaluna/shift-planner-api/pkg/schedule"
	"github.com/casaluna/shift-planner-api/pkg/stats"
)

// Factor names used in Suggestion.Factors. The point ranges are the
// contract: 30/20/15/15/10/5/5, summing to 100.
const (
	FactorPerformance  = "performance"
	FactorAttendance   = "attendance"
	FactorHoursBalance = "hoursBalance"
	FactorAvailability = "availability"
	FactorChemistry    = "chemistry"
	FactorTraining     = "training"
	FactorPreferences  = "preferences"
)

// idealWeeklyHours is the target the hours-balance factor is tiered
// against.
const idealWeeklyHours = 30.0

// Engine ranks candidates for open slots using the grid, the weekly
// stats, the time-off guard, and preference data.
type Engine struct {
	roster *roster.Index
	grid   *schedule.WeekGrid
	stats  *stats.Aggregator
	guard  *stats.EligibilityGuard
	prefs  map[string]models.EmployeePreference

	// cached full-week suggestions, consumed as they are applied
	cache map[string]map[string][]models.Suggestion
}

// New builds an engine. prefs may be nil when no preference data exists.
func New(idx *roster.Index, grid *schedule.WeekGrid, agg *stats.Aggregator, guard *stats.EligibilityGuard, prefs map[string]models.EmployeePreference) *Engine {
	if prefs == nil {
		prefs = map[string]models.EmployeePreference{}
	}
	return &Engine{
		roster: idx,
		grid:   grid,
		stats:  agg,
		guard:  guard,
		prefs:  prefs,
	}
}

// Score evaluates one employee for one slot on one date. A blocked
// employee short-circuits to score 0 with no further factors evaluated.
func (e *Engine) Score(emp models.Employee, slot models.ShiftSlot, date string) models.Suggestion {
	if e.guard != nil && e.guard.IsBlocked(date, emp.ID) {
		return models.Suggestion{
			Employee:   emp,
			Score:      0,
			Factors:    map[string]float64{},
			Reasons:    []string{"Blocked: approved time off"},
			Confidence: "low",
			Blocked:    true,
		}
	}

	st := e.stats.StatsFor(emp.ID)
	pref := e.prefs[emp.ID]
	hasPrefs := !pref.IsZero()
	weekday := weekdayName(date)
	bucket := timeBucket(slot.StartTime)

	factors := make(map[string]float64, 7)
	var reasons []string
	add := func(name string, points float64, reason string) {
		factors[name] = points
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	// Performance: 0-30
	perfScore := clamp(st.PerformanceScore, 0, 100)
	perfReason := ""
	if perfScore >= 80 {
		perfReason = fmt.Sprintf("High performer (%.0f)", perfScore)
	}
	add(FactorPerformance, perfScore/100*30, perfReason)

	// Attendance: 0-20, neutral 70 when history is missing
	rel := clamp(float64(st.AttendanceReliability), 0, 100)
	attReason := ""
	switch {
	case rel >= 90:
		attReason = fmt.Sprintf("Excellent attendance (%.0f%%)", rel)
	case rel < 60:
		attReason = fmt.Sprintf("Attendance concerns (%.0f%%)", rel)
	}
	add(FactorAttendance, rel/100*20, attReason)

	// Hours balance: 0-15, tiered against the ideal week
	gap := idealWeeklyHours - st.HoursScheduled
	var hoursPts float64
	hoursReason := ""
	switch {
	case gap > 10:
		hoursPts, hoursReason = 15, "Has room for more hours"
	case gap > 5:
		hoursPts = 12
	case gap >= -5:
		hoursPts = 10
	case gap >= -10:
		hoursPts = 5
	default:
		hoursPts, hoursReason = 0, fmt.Sprintf("Already at %.0f hours this week", st.HoursScheduled)
	}
	add(FactorHoursBalance, hoursPts, hoursReason)

	// Availability: 0-15
	availPts, availReason := e.availability(emp, slot, date, pref, hasPrefs, weekday, bucket)
	add(FactorAvailability, availPts, availReason)

	// Team chemistry: 0-10, first body on the slot's side scores full
	chemPts := 8.0
	chemReason := ""
	if e.firstOnSide(date, slot.Side) {
		chemPts = 10
		chemReason = fmt.Sprintf("First on %s for the day", strings.ToUpper(string(slot.Side)))
	}
	add(FactorChemistry, chemPts, chemReason)

	// Training: 0-5
	if st.NeedsTraining {
		add(FactorTraining, 2, "Needs training support")
	} else {
		add(FactorTraining, 5, "")
	}

	// Preferences: 0-5, avoid-day zeroes the factor outright
	prefPts, prefReason := preferencePoints(pref, hasPrefs, weekday, bucket)
	add(FactorPreferences, prefPts, prefReason)

	total := 0.0
	for _, pts := range factors {
		total += pts
	}
	total = math.Round(clamp(total, 0, 100)*10) / 10

	return models.Suggestion{
		Employee:   emp,
		Score:      total,
		Factors:    factors,
		Reasons:    reasons,
		Confidence: confidence(total),
		Blocked:    false,
	}
}

func (e *Engine) availability(emp models.Employee, slot models.ShiftSlot, date string, pref models.EmployeePreference, hasPrefs bool, weekday, bucket string) (float64, string) {
	if e.grid.HasAssignment(date, emp.ID) {
		return 0, "Already scheduled for this day"
	}
	if !hasPrefs {
		return 15, "Fully available"
	}
	pts := 10.0
	if containsFold(pref.PreferredDays, weekday) {
		pts += 3
	}
	if containsFold(pref.AvoidDays, weekday) {
		pts -= 5
	}
	if containsFold(pref.PreferredTimes, bucket) {
		pts += 2
	}
	if pref.PreferredStartTime != "" && pref.PreferredEndTime != "" {
		if slot.StartTime >= pref.PreferredStartTime && slot.EndTime <= pref.PreferredEndTime {
			pts += 2
		} else {
			pts -= 2
		}
	}
	return clamp(pts, 0, 15), ""
}

func (e *Engine) firstOnSide(date string, side models.Side) bool {
	for slotID, assigned := range e.grid.Assignments(date) {
		if assigned == "" {
			continue
		}
		if s, ok := e.grid.SlotByID(slotID); ok && s.Side == side {
			return false
		}
	}
	return true
}

func preferencePoints(pref models.EmployeePreference, hasPrefs bool, weekday, bucket string) (float64, string) {
	if !hasPrefs {
		return 5, ""
	}
	if containsFold(pref.AvoidDays, weekday) {
		return 0, fmt.Sprintf("Prefers not to work on %ss", weekday)
	}
	pts := 3.0
	reason := ""
	if containsFold(pref.PreferredDays, weekday) {
		pts = 5
		reason = fmt.Sprintf("Prefers %ss", weekday)
	}
	if containsFold(pref.PreferredTimes, bucket) {
		pts++
	}
	if pts > 5 {
		pts = 5
	}
	return pts, reason
}

func confidence(score float64) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 50:
		return "medium"
	default:
		return "low"
	}
}

// timeBucket maps a slot's start hour to a coarse time-of-day bucket.
func timeBucket(startTime string) string {
	hour := 0
	if len(startTime) >= 2 {
		if h, err := strconv.Atoi(startTime[:2]); err == nil {
			hour = h
		}
	}
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func weekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
