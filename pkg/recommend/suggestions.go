package recommend

import (
	"sort"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

// DefaultTopN is how many candidates a slot suggestion returns when the
// caller does not ask for a specific count.
const DefaultTopN = 3

// SuggestionsForSlot ranks candidates for one slot on one date. The pool
// is every employee on the slot's side without any assignment that day;
// blocked employees are dropped. Ties keep roster order (stable sort).
func (e *Engine) SuggestionsForSlot(slotID, date string, topN int) ([]models.Suggestion, error) {
	slot, ok := e.grid.SlotByID(slotID)
	if !ok {
		return nil, &models.ValidationError{Field: "slot_id", Message: "unknown slot " + slotID}
	}
	if e.grid.Assignments(date) == nil {
		return nil, &models.ValidationError{Field: "date", Message: date + " is not in week ending " + e.grid.WeekEnding()}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	var ranked []models.Suggestion
	for _, emp := range e.roster.BySide(slot.Side) {
		if e.grid.HasAssignment(date, emp.ID) {
			continue
		}
		s := e.Score(emp, slot, date)
		if s.Blocked {
			continue
		}
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// FullWeekSuggestions sweeps every unfilled slot of the week and caches
// the result so applied suggestions are not re-offered. Slots that are
// already filled are skipped.
func (e *Engine) FullWeekSuggestions() map[string]map[string][]models.Suggestion {
	e.cache = make(map[string]map[string][]models.Suggestion)
	for _, date := range e.grid.Dates() {
		assignments := e.grid.Assignments(date)
		for _, slot := range e.grid.Slots() {
			if assignments[slot.ID] != "" {
				continue
			}
			ranked, err := e.SuggestionsForSlot(slot.ID, date, DefaultTopN)
			if err != nil || len(ranked) == 0 {
				continue
			}
			if e.cache[date] == nil {
				e.cache[date] = make(map[string][]models.Suggestion)
			}
			e.cache[date][slot.ID] = ranked
		}
	}
	return e.cache
}

// ApplySuggestion assigns the suggested employee and consumes the cached
// entry for that slot so it is not offered again.
func (e *Engine) ApplySuggestion(date, slotID string, emp models.Employee) error {
	if err := e.grid.Assign(date, slotID, emp); err != nil {
		return err
	}
	if day, ok := e.cache[date]; ok {
		delete(day, slotID)
		if len(day) == 0 {
			delete(e.cache, date)
		}
	}
	return nil
}

// CachedSuggestions returns the remaining unapplied full-week
// suggestions, or nil when no sweep has run.
func (e *Engine) CachedSuggestions() map[string]map[string][]models.Suggestion {
	return e.cache
}
