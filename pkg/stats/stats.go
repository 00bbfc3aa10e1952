package stats

import (
	"github.com/casaluna/shift-planner-api/pkg/models"
	"github.com/casaluna/shift-planner-api/pkg/schedule"
)

// Trend arrows for band/score movement between ranking periods.
const (
	TrendUp     = "↑"
	TrendDown   = "↓"
	TrendSteady = "→"
)

// Aggregator combines in-grid hour and shift counts with the attendance
// and ranking feeds into per-employee statistics for the current week.
type Aggregator struct {
	grid       *schedule.WeekGrid
	attendance map[string]models.AttendanceSummary
	current    *models.RankingSnapshot
	previous   *models.RankingSnapshot
}

// NewAggregator builds an aggregator over a grid and the external feeds.
// Either snapshot may be nil when no ranking period exists yet.
func NewAggregator(grid *schedule.WeekGrid, attendance map[string]models.AttendanceSummary, current, previous *models.RankingSnapshot) *Aggregator {
	if attendance == nil {
		attendance = map[string]models.AttendanceSummary{}
	}
	return &Aggregator{
		grid:       grid,
		attendance: attendance,
		current:    current,
		previous:   previous,
	}
}

// StatsFor derives the weekly statistics bundle for one employee.
func (a *Aggregator) StatsFor(employeeID string) models.EmployeeStats {
	s := models.EmployeeStats{AttendanceReliability: DefaultReliability}

	for _, date := range a.grid.Dates() {
		for slotID, assigned := range a.grid.Assignments(date) {
			if assigned != employeeID {
				continue
			}
			if slot, ok := a.grid.SlotByID(slotID); ok {
				s.HoursScheduled += slot.Hours
				s.ShiftsScheduled++
			}
		}
	}

	if att, ok := a.attendance[employeeID]; ok {
		s.AttendanceReliability = att.Reliability
	}

	cur, curOK := lookupRank(a.current, employeeID)
	if curOK {
		s.PerformanceBand = cur.band
		s.PerformanceScore = cur.score
		s.RankingPosition = cur.position
		s.NeedsTraining = cur.band == models.BandNeedsTraining
	}

	prev, prevOK := lookupRank(a.previous, employeeID)
	if curOK && prevOK {
		s.PerformanceTrend = trend(cur, prev)
	}
	return s
}

// All derives statistics for every employee ID given, keyed by ID.
func (a *Aggregator) All(employeeIDs []string) map[string]models.EmployeeStats {
	out := make(map[string]models.EmployeeStats, len(employeeIDs))
	for _, id := range employeeIDs {
		out[id] = a.StatsFor(id)
	}
	return out
}

type rank struct {
	band     models.Band
	score    float64
	position int // 1-based across all bands in priority order
}

func lookupRank(snap *models.RankingSnapshot, employeeID string) (rank, bool) {
	if snap == nil {
		return rank{}, false
	}
	position := 0
	for _, band := range models.BandOrder {
		for _, entry := range snap.Bands[band] {
			position++
			if entry.UID == employeeID {
				return rank{band: band, score: entry.Score, position: position}, true
			}
		}
	}
	return rank{}, false
}

// trend compares two ranking periods: band movement dominates, raw score
// breaks band ties.
func trend(cur, prev rank) string {
	curIdx, prevIdx := models.BandIndex(cur.band), models.BandIndex(prev.band)
	switch {
	case curIdx < prevIdx:
		return TrendUp
	case curIdx > prevIdx:
		return TrendDown
	case cur.score > prev.score:
		return TrendUp
	case cur.score < prev.score:
		return TrendDown
	default:
		return TrendSteady
	}
}
