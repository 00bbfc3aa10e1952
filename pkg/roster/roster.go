// Package roster normalizes raw employee records into the canonical
// shape used by the rest of the planner. Upstream feeds disagree on the
// identity field (id vs uid) and on side casing; this is the single
// place that disagreement is resolved.
package roster

import (
	"strings"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

// RawEmployee is the tolerant input shape accepted from roster feeds.
type RawEmployee struct {
	ID      string `json:"id"`
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Side    string `json:"side"`
	SubRole string `json:"sub_role"`
}

// Index holds the normalized roster. Original feed order is preserved;
// it is the tie-break for equal suggestion scores.
type Index struct {
	employees []models.Employee
	byID      map[string]int
}

// NewIndex normalizes raw records into an Index. Records without any
// usable identity are dropped; a later record with a duplicate ID
// overrides the earlier one in place.
func NewIndex(raw []RawEmployee) *Index {
	idx := &Index{byID: make(map[string]int, len(raw))}
	for _, r := range raw {
		id := r.ID
		if id == "" {
			id = r.UID
		}
		if id == "" {
			continue
		}
		emp := models.Employee{
			ID:      id,
			Name:    r.Name,
			Side:    normalizeSide(r.Side, r.Role),
			SubRole: r.SubRole,
		}
		if pos, ok := idx.byID[id]; ok {
			idx.employees[pos] = emp
			continue
		}
		idx.byID[id] = len(idx.employees)
		idx.employees = append(idx.employees, emp)
	}
	return idx
}

func normalizeSide(side, role string) models.Side {
	s := strings.ToLower(strings.TrimSpace(side))
	if s == "" {
		s = strings.ToLower(strings.TrimSpace(role))
	}
	switch s {
	case "boh", "back", "back of house":
		return models.SideBOH
	default:
		return models.SideFOH
	}
}

// All returns every employee in feed order.
func (x *Index) All() []models.Employee {
	out := make([]models.Employee, len(x.employees))
	copy(out, x.employees)
	return out
}

// BySide returns employees on one side, preserving feed order.
func (x *Index) BySide(side models.Side) []models.Employee {
	var out []models.Employee
	for _, e := range x.employees {
		if e.Side == side {
			out = append(out, e)
		}
	}
	return out
}

// Get looks up an employee by canonical ID.
func (x *Index) Get(id string) (models.Employee, bool) {
	pos, ok := x.byID[id]
	if !ok {
		return models.Employee{}, false
	}
	return x.employees[pos], true
}

// Position returns the feed-order position of an employee, or the
// roster length for unknown IDs so unknowns sort last.
func (x *Index) Position(id string) int {
	if pos, ok := x.byID[id]; ok {
		return pos
	}
	return len(x.employees)
}

// Len returns the roster size.
func (x *Index) Len() int { return len(x.employees) }
