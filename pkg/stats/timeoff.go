// Package stats derives per-employee weekly statistics from the grid and
// the external feeds (attendance, rankings, approved time off). It is
// pure computation over snapshots handed in by the caller.
package stats

import "github.com/casaluna/shift-planner-api/pkg/models"

// EligibilityGuard indexes approved time off by date for O(1) blocking
// lookups.
type EligibilityGuard struct {
	blocked map[string]map[string]struct{}
}

// NewEligibilityGuard builds the date index from the approved time-off feed.
func NewEligibilityGuard(blocks []models.TimeOffBlock) *EligibilityGuard {
	g := &EligibilityGuard{blocked: make(map[string]map[string]struct{})}
	for _, b := range blocks {
		if b.EmployeeID == "" || b.Date == "" {
			continue
		}
		day, ok := g.blocked[b.Date]
		if !ok {
			day = make(map[string]struct{})
			g.blocked[b.Date] = day
		}
		day[b.EmployeeID] = struct{}{}
	}
	return g
}

// IsBlocked reports whether the employee has an approved absence on the
// date. Dates and employees with no entry are never blocked.
func (g *EligibilityGuard) IsBlocked(date, employeeID string) bool {
	day, ok := g.blocked[date]
	if !ok {
		return false
	}
	_, blocked := day[employeeID]
	return blocked
}

// BlockedOn returns the number of employees blocked on a date.
func (g *EligibilityGuard) BlockedOn(date string) int {
	return len(g.blocked[date])
}
