package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

// PublishController gates the draft/published transitions of a week.
// Publish is guarded by week completeness; the reverse transition exists
// only as an explicit, audited override.
type PublishController struct {
	grid *WeekGrid
}

// NewPublishController wraps a grid.
func NewPublishController(grid *WeekGrid) *PublishController {
	return &PublishController{grid: grid}
}

// Publish moves a complete draft week to published and returns the audit
// entry the caller must persist alongside the status flip. On failure the
// grid and its status are unchanged.
func (p *PublishController) Publish(actor string) (models.AuditEntry, error) {
	if p.grid.status == StatusPublished {
		return models.AuditEntry{}, &models.LockedScheduleError{WeekEnding: p.grid.weekEnding}
	}
	if !p.grid.IsWeekComplete() {
		return models.AuditEntry{}, &models.IncompleteWeekError{
			WeekEnding: p.grid.weekEnding,
			OpenSlots:  p.grid.OpenSlotCount(),
		}
	}
	p.grid.status = StatusPublished
	return p.auditEntry("publish", actor, ""), nil
}

// Reopen is the audited override back to draft. It requires a non-empty
// reason; published weeks are never silently editable.
func (p *PublishController) Reopen(actor, reason string) (models.AuditEntry, error) {
	if p.grid.status != StatusPublished {
		return models.AuditEntry{}, &models.ValidationError{Field: "status", Message: "week is not published"}
	}
	if reason == "" {
		return models.AuditEntry{}, &models.ValidationError{Field: "reason", Message: "a reason is required to reopen a published week"}
	}
	p.grid.status = StatusDraft
	return p.auditEntry("reopen", actor, reason), nil
}

func (p *PublishController) auditEntry(action, actor, reason string) models.AuditEntry {
	return models.AuditEntry{
		ID:         uuid.NewString(),
		WeekEnding: p.grid.weekEnding,
		Action:     action,
		Actor:      actor,
		Reason:     reason,
		At:         time.Now().UTC(),
	}
}
