package stats

import (
	"math"
	"time"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

// DefaultReliability is the neutral score used when an employee has no
// attendance history, so missing data is never a penalty.
const DefaultReliability = 70

// attendanceWindowDays is the trailing window the reliability score is
// computed over.
const attendanceWindowDays = 28

// PunchRecord is one scheduled shift outcome from the attendance feed.
type PunchRecord struct {
	EmployeeID string
	Date       string // ISO date
	Attended   bool
	OnTime     bool
	NoShow     bool
}

// SummarizeAttendance folds punch records inside the trailing 28-day
// window ending at asOf into per-employee summaries. Employees with no
// records in the window are absent from the result; callers fall back to
// DefaultReliability for them.
func SummarizeAttendance(records []PunchRecord, asOf time.Time) map[string]models.AttendanceSummary {
	cutoff := asOf.AddDate(0, 0, -attendanceWindowDays)
	out := make(map[string]models.AttendanceSummary)

	for _, r := range records {
		day, err := time.Parse("2006-01-02", r.Date)
		if err != nil || day.Before(cutoff) || day.After(asOf) {
			continue
		}
		s := out[r.EmployeeID]
		s.TotalShifts++
		if r.Attended {
			s.AttendedShifts++
		}
		if r.OnTime {
			s.OnTimeShifts++
		}
		if r.NoShow {
			s.NoShows++
		}
		out[r.EmployeeID] = s
	}

	for id, s := range out {
		if s.AttendedShifts > 0 {
			s.OnTimeRate = float64(s.OnTimeShifts) / float64(s.AttendedShifts)
		}
		s.Reliability = reliabilityScore(s)
		out[id] = s
	}
	return out
}

func reliabilityScore(s models.AttendanceSummary) int {
	if s.TotalShifts == 0 {
		return DefaultReliability
	}
	score := int(math.Round(float64(s.AttendedShifts) / float64(s.TotalShifts) * 100))
	if s.OnTimeRate > 0.8 {
		score += 5
	}
	score -= 10 * s.NoShows
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
