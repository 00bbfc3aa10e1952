// Package schedule owns the day-by-slot assignment grid for one scheduling
// week and the draft/published state machine around it. The grid is a pure
// in-memory structure: it performs no I/O and all provider data arrives
// through its collaborators before any mutation runs.
package schedule

import (
	"time"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

const dateLayout = "2006-01-02"

// Blocker answers whether an employee is blocked on a date by approved
// time off. Implemented by stats.EligibilityGuard.
type Blocker interface {
	IsBlocked(date, employeeID string) bool
}

// ParseWeekEnding validates a week-ending anchor: an ISO date that falls
// on a Sunday.
func ParseWeekEnding(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: "week_ending", Message: "must be an ISO date (YYYY-MM-DD)"}
	}
	if t.Weekday() != time.Sunday {
		return time.Time{}, &models.ValidationError{Field: "week_ending", Message: "must be a Sunday"}
	}
	return t, nil
}

// WeekGrid is the day-by-slot assignment matrix for one Monday-Sunday
// week, anchored on its Sunday week-ending date. Each slot holds at most
// one employee ID per day; the empty string marks an unfilled slot.
type WeekGrid struct {
	weekEnding string
	status     WeekStatus
	slots      []models.ShiftSlot
	slotByID   map[string]models.ShiftSlot
	dates      []string
	days       map[string]map[string]string
	dirty      map[string]bool
	saved      map[string]bool
	blocker    Blocker
}

// NewWeekGrid builds an empty draft grid for the given week-ending date.
func NewWeekGrid(weekEnding string, slots []models.ShiftSlot, blocker Blocker) (*WeekGrid, error) {
	anchor, err := ParseWeekEnding(weekEnding)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, &models.ValidationError{Field: "slots", Message: "at least one shift slot is required"}
	}

	g := &WeekGrid{
		weekEnding: weekEnding,
		status:     StatusDraft,
		slots:      slots,
		slotByID:   make(map[string]models.ShiftSlot, len(slots)),
		days:       make(map[string]map[string]string, 7),
		dirty:      make(map[string]bool, 7),
		saved:      make(map[string]bool, 7),
		blocker:    blocker,
	}
	for _, s := range slots {
		g.slotByID[s.ID] = s
	}
	for i := 6; i >= 0; i-- {
		date := anchor.AddDate(0, 0, -i).Format(dateLayout)
		g.dates = append(g.dates, date)
		day := make(map[string]string, len(slots))
		for _, s := range slots {
			day[s.ID] = ""
		}
		g.days[date] = day
	}
	return g, nil
}

// Load rehydrates the grid from a persisted document. Slot values are
// employee IDs only, so rehydration is independent of display-name
// changes in the roster. Unknown dates and slot IDs are ignored. Loaded
// days count as saved, not dirty.
func (g *WeekGrid) Load(doc models.WeekDocument) {
	g.status = ParseStatus(doc.Status)
	for date, day := range doc.Days {
		target, ok := g.days[date]
		if !ok {
			continue
		}
		for slotID, empID := range day.Slots {
			if _, ok := g.slotByID[slotID]; !ok {
				continue
			}
			if empID != nil {
				target[slotID] = *empID
			} else {
				target[slotID] = ""
			}
		}
		g.saved[date] = true
		g.dirty[date] = false
	}
}

// Snapshot serializes the grid. Unfilled slots serialize as null.
func (g *WeekGrid) Snapshot() models.WeekDocument {
	doc := models.WeekDocument{
		Status: g.status.String(),
		Days:   make(map[string]models.DayDocument, len(g.dates)),
	}
	for _, date := range g.dates {
		doc.Days[date] = g.SnapshotDay(date)
	}
	return doc
}

// SnapshotDay serializes one day of the grid.
func (g *WeekGrid) SnapshotDay(date string) models.DayDocument {
	day := models.DayDocument{Slots: make(map[string]*string, len(g.slots))}
	for slotID, empID := range g.days[date] {
		if empID == "" {
			day.Slots[slotID] = nil
		} else {
			id := empID
			day.Slots[slotID] = &id
		}
	}
	return day
}

func (g *WeekGrid) validateTarget(date, slotID string) error {
	if _, ok := g.days[date]; !ok {
		return &models.ValidationError{Field: "date", Message: date + " is not in week ending " + g.weekEnding}
	}
	if _, ok := g.slotByID[slotID]; !ok {
		return &models.ValidationError{Field: "slot_id", Message: "unknown slot " + slotID}
	}
	return nil
}

// Assign places an employee into a slot on a date. It fails on published
// weeks, blocked dates, and same-day double-booking. The grid is left
// untouched on every failure path.
func (g *WeekGrid) Assign(date, slotID string, emp models.Employee) error {
	return g.assign(date, slotID, emp, false)
}

// ForceAssign is the manager override for same-day double-booking. Lock
// and time-off checks still apply.
func (g *WeekGrid) ForceAssign(date, slotID string, emp models.Employee) error {
	return g.assign(date, slotID, emp, true)
}

func (g *WeekGrid) assign(date, slotID string, emp models.Employee, allowDouble bool) error {
	if g.status == StatusPublished {
		return &models.LockedScheduleError{WeekEnding: g.weekEnding}
	}
	if err := g.validateTarget(date, slotID); err != nil {
		return err
	}
	if emp.ID == "" {
		return &models.ValidationError{Field: "employee_id", Message: "employee id is required"}
	}
	if g.blocker != nil && g.blocker.IsBlocked(date, emp.ID) {
		return &models.BlockedAssignmentError{EmployeeID: emp.ID, EmployeeName: emp.Name, Date: date}
	}
	if !allowDouble {
		for otherSlot, assigned := range g.days[date] {
			if otherSlot != slotID && assigned == emp.ID {
				return &models.DoubleBookedError{EmployeeID: emp.ID, Date: date, SlotID: otherSlot}
			}
		}
	}
	g.days[date][slotID] = emp.ID
	g.markDirty(date)
	return nil
}

// Clear empties a slot. Removal is always safe, so there is no blocking
// check, only the publish lock.
func (g *WeekGrid) Clear(date, slotID string) error {
	if g.status == StatusPublished {
		return &models.LockedScheduleError{WeekEnding: g.weekEnding}
	}
	if err := g.validateTarget(date, slotID); err != nil {
		return err
	}
	g.days[date][slotID] = ""
	g.markDirty(date)
	return nil
}

// Move relocates an employee between two slots on the same day. It is
// all-or-nothing: every check runs before either slot changes, so the
// employee is never left cleared from the source without holding the
// destination.
func (g *WeekGrid) Move(date, fromSlotID, toSlotID string, emp models.Employee) error {
	if g.status == StatusPublished {
		return &models.LockedScheduleError{WeekEnding: g.weekEnding}
	}
	if err := g.validateTarget(date, fromSlotID); err != nil {
		return err
	}
	if err := g.validateTarget(date, toSlotID); err != nil {
		return err
	}
	if g.days[date][fromSlotID] != emp.ID {
		return &models.ValidationError{Field: "from_slot_id", Message: "employee does not hold slot " + fromSlotID + " on " + date}
	}
	if g.blocker != nil && g.blocker.IsBlocked(date, emp.ID) {
		return &models.BlockedAssignmentError{EmployeeID: emp.ID, EmployeeName: emp.Name, Date: date}
	}
	g.days[date][fromSlotID] = ""
	g.days[date][toSlotID] = emp.ID
	g.markDirty(date)
	return nil
}

func (g *WeekGrid) markDirty(date string) {
	g.dirty[date] = true
	g.saved[date] = false
}

// IsDayComplete reports whether every slot on a date is filled.
func (g *WeekGrid) IsDayComplete(date string) bool {
	day, ok := g.days[date]
	if !ok {
		return false
	}
	for _, empID := range day {
		if empID == "" {
			return false
		}
	}
	return true
}

// IsWeekComplete reports whether all seven days are complete.
func (g *WeekGrid) IsWeekComplete() bool {
	for _, date := range g.dates {
		if !g.IsDayComplete(date) {
			return false
		}
	}
	return true
}

// OpenSlotCount counts unfilled slots across the week.
func (g *WeekGrid) OpenSlotCount() int {
	n := 0
	for _, date := range g.dates {
		for _, empID := range g.days[date] {
			if empID == "" {
				n++
			}
		}
	}
	return n
}

// CanSaveDay gates the per-day save: the day must be complete and carry
// unsaved changes.
func (g *WeekGrid) CanSaveDay(date string) error {
	if _, ok := g.days[date]; !ok {
		return &models.ValidationError{Field: "date", Message: date + " is not in week ending " + g.weekEnding}
	}
	if !g.IsDayComplete(date) {
		return &models.ValidationError{Field: "date", Message: date + " has unfilled slots"}
	}
	if !g.dirty[date] {
		return &models.ValidationError{Field: "date", Message: date + " has no unsaved changes"}
	}
	return nil
}

// CanSaveWeek gates the whole-week save: the week must be complete and
// every day individually saved first. The ordering is a safety gate, not
// an optimization.
func (g *WeekGrid) CanSaveWeek() error {
	if !g.IsWeekComplete() {
		return &models.IncompleteWeekError{WeekEnding: g.weekEnding, OpenSlots: g.OpenSlotCount()}
	}
	for _, date := range g.dates {
		if !g.saved[date] {
			return &models.ValidationError{Field: "date", Message: date + " has not been saved yet"}
		}
	}
	return nil
}

// MarkSaved records a confirmed persist of one day.
func (g *WeekGrid) MarkSaved(date string) {
	if _, ok := g.days[date]; !ok {
		return
	}
	g.saved[date] = true
	g.dirty[date] = false
}

// MarkWeekSaved records a confirmed persist of the whole week.
func (g *WeekGrid) MarkWeekSaved() {
	for _, date := range g.dates {
		g.saved[date] = true
		g.dirty[date] = false
	}
}

// IsDirty reports unsaved local changes on a date.
func (g *WeekGrid) IsDirty(date string) bool { return g.dirty[date] }

// IsSaved reports a confirmed persist of a date.
func (g *WeekGrid) IsSaved(date string) bool { return g.saved[date] }

// Assignments returns a copy of one day's slot-to-employee map.
func (g *WeekGrid) Assignments(date string) map[string]string {
	day, ok := g.days[date]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(day))
	for slotID, empID := range day {
		out[slotID] = empID
	}
	return out
}

// SlotsFor returns the slot IDs an employee holds on a date.
func (g *WeekGrid) SlotsFor(date, employeeID string) []string {
	var out []string
	for _, s := range g.slots {
		if g.days[date][s.ID] == employeeID && employeeID != "" {
			out = append(out, s.ID)
		}
	}
	return out
}

// HasAssignment reports whether an employee holds any slot on a date.
func (g *WeekGrid) HasAssignment(date, employeeID string) bool {
	return len(g.SlotsFor(date, employeeID)) > 0
}

// Dates returns the seven ISO dates of the week, Monday first.
func (g *WeekGrid) Dates() []string {
	out := make([]string, len(g.dates))
	copy(out, g.dates)
	return out
}

// Slots returns the slot config in declaration order.
func (g *WeekGrid) Slots() []models.ShiftSlot {
	out := make([]models.ShiftSlot, len(g.slots))
	copy(out, g.slots)
	return out
}

// SlotByID looks up one slot.
func (g *WeekGrid) SlotByID(id string) (models.ShiftSlot, bool) {
	s, ok := g.slotByID[id]
	return s, ok
}

// WeekEnding returns the Sunday anchor date.
func (g *WeekGrid) WeekEnding() string { return g.weekEnding }

// Status returns the lifecycle state.
func (g *WeekGrid) Status() WeekStatus { return g.status }
