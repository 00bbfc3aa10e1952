package models

import "time"

// Side partitions slots and staff into front of house and back of house.
type Side string

const (
	SideFOH Side = "foh"
	SideBOH Side = "boh"
)

// Band is a performance tier from the ranking snapshot.
type Band string

const (
	BandElite         Band = "elite"
	BandStrong        Band = "strong"
	BandDeveloping    Band = "developing"
	BandNeedsTraining Band = "needsTraining"
)

// BandOrder is the fixed priority order used for ranking lookups and
// global rank positions.
var BandOrder = []Band{BandElite, BandStrong, BandDeveloping, BandNeedsTraining}

// BandIndex returns the position of a band in BandOrder, or -1 if unknown.
func BandIndex(b Band) int {
	for i, o := range BandOrder {
		if o == b {
			return i
		}
	}
	return -1
}

// Employee is the canonical roster shape. Identity is ID; Name is
// display-only and never used as a key.
type Employee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Side    Side   `json:"side"`
	SubRole string `json:"sub_role,omitempty"`
}

// ShiftSlot is a named, timed position that needs exactly one employee
// per day. Static per-restaurant config, immutable within a session.
type ShiftSlot struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Side      Side    `json:"side"`
	StartTime string  `json:"start_time"` // "HH:MM", 24h
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
}

// EmployeePreference captures scheduling preferences. A zero value means
// the employee has no recorded preferences.
type EmployeePreference struct {
	PreferredDays      []string `json:"preferred_days,omitempty"` // weekday names, e.g. "Monday"
	AvoidDays          []string `json:"avoid_days,omitempty"`
	PreferredTimes     []string `json:"preferred_times,omitempty"` // morning/afternoon/evening/night
	PreferredStartTime string   `json:"preferred_start_time,omitempty"`
	PreferredEndTime   string   `json:"preferred_end_time,omitempty"`
	MinHoursPerWeek    float64  `json:"min_hours_per_week,omitempty"`
	MaxHoursPerWeek    float64  `json:"max_hours_per_week,omitempty"`
}

// IsZero reports whether no preference data is recorded at all.
func (p EmployeePreference) IsZero() bool {
	return len(p.PreferredDays) == 0 && len(p.AvoidDays) == 0 &&
		len(p.PreferredTimes) == 0 && p.PreferredStartTime == "" &&
		p.PreferredEndTime == ""
}

// AttendanceSummary is the attendance feed's per-employee summary over a
// trailing 28-day window.
type AttendanceSummary struct {
	Reliability    int     `json:"reliability"` // 0-100
	TotalShifts    int     `json:"total_shifts"`
	AttendedShifts int     `json:"attended_shifts"`
	OnTimeShifts   int     `json:"on_time_shifts"`
	NoShows        int     `json:"no_shows"`
	OnTimeRate     float64 `json:"on_time_rate"`
}

// RankedEmployee is one entry in a ranking snapshot band.
type RankedEmployee struct {
	UID   string  `json:"uid"`
	Name  string  `json:"name"`
	Role  Side    `json:"role"`
	Score float64 `json:"score"`
}

// RankingSnapshot is a point-in-time performance ranking, partitioned
// into ordered bands.
type RankingSnapshot struct {
	PeriodLabel string                    `json:"period_label"`
	Bands       map[Band][]RankedEmployee `json:"bands"`
}

// TimeOffBlock is an approved absence for one employee on one date.
type TimeOffBlock struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // ISO date
}

// EmployeeStats is the derived per-week statistics bundle for one employee.
type EmployeeStats struct {
	HoursScheduled        float64 `json:"hours_scheduled"`
	ShiftsScheduled       int     `json:"shifts_scheduled"`
	AttendanceReliability int     `json:"attendance_reliability"`
	PerformanceBand       Band    `json:"performance_band,omitempty"`
	PerformanceScore      float64 `json:"performance_score"`
	RankingPosition       int     `json:"ranking_position"`            // 1-based, 0 = unranked
	PerformanceTrend      string  `json:"performance_trend,omitempty"` // "↑", "↓", "→"
	NeedsTraining         bool    `json:"needs_training"`
}

// Suggestion is a scored candidate for an open slot.
type Suggestion struct {
	Employee   Employee           `json:"employee"`
	Score      float64            `json:"score"` // 0-100, one decimal
	Factors    map[string]float64 `json:"factors"`
	Reasons    []string           `json:"reasons"`
	Confidence string             `json:"confidence"` // high/medium/low
	Blocked    bool               `json:"blocked"`
}

// DayDocument is the persisted shape of one day: slot ID to employee ID,
// nil for unfilled. IDs only, never names.
type DayDocument struct {
	Slots map[string]*string `json:"slots"`
}

// WeekDocument is the persisted shape of one schedule week, keyed by
// week-ending date in the store.
type WeekDocument struct {
	Status string                 `json:"status"`
	Days   map[string]DayDocument `json:"days"`
}

// AuditEntry records a publish-lifecycle action on a week.
type AuditEntry struct {
	ID         string    `json:"id"`
	WeekEnding string    `json:"week_ending"`
	Action     string    `json:"action"` // publish/reopen
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}
