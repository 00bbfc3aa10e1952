package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casaluna/shift-planner-api/pkg/schedule"
)

type assignRequest struct {
	Date       string `json:"date" binding:"required"`
	SlotID     string `json:"slot_id" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Force      bool   `json:"force"`
}

type clearRequest struct {
	Date   string `json:"date" binding:"required"`
	SlotID string `json:"slot_id" binding:"required"`
}

type moveRequest struct {
	Date       string `json:"date" binding:"required"`
	FromSlotID string `json:"from_slot_id" binding:"required"`
	ToSlotID   string `json:"to_slot_id" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
}

// GetWeek loads (or lazily creates as a draft) the planner week.
func (h *Handler) GetWeek(c *gin.Context) {
	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	c.JSON(http.StatusOK, h.weekPayload(p))
}

func (h *Handler) weekPayload(p *planner) gin.H {
	doc := p.grid.Snapshot()
	dayState := gin.H{}
	for _, date := range p.grid.Dates() {
		dayState[date] = gin.H{
			"complete": p.grid.IsDayComplete(date),
			"dirty":    p.grid.IsDirty(date),
			"saved":    p.grid.IsSaved(date),
		}
	}
	return gin.H{
		"week_ending": p.grid.WeekEnding(),
		"status":      p.grid.Status().String(),
		"days":        doc.Days,
		"complete":    p.grid.IsWeekComplete(),
		"open_slots":  p.grid.OpenSlotCount(),
		"day_state":   dayState,
	}
}

// AssignSlot places an employee into a slot. force allows a same-day
// double-booking override; lock and time-off checks always apply.
func (h *Handler) AssignSlot(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	emp, ok := p.roster.Get(req.EmployeeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown employee " + req.EmployeeID})
		return
	}

	if req.Force {
		err = p.grid.ForceAssign(req.Date, req.SlotID, emp)
	} else {
		err = p.grid.Assign(req.Date, req.SlotID, emp)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.RecordUsage(c, 1, 0)
	c.JSON(http.StatusOK, h.weekPayload(p))
}

// ClearSlot empties a slot.
func (h *Handler) ClearSlot(c *gin.Context) {
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.grid.Clear(req.Date, req.SlotID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.weekPayload(p))
}

// MoveSlot relocates an employee between two slots on the same day,
// all-or-nothing.
func (h *Handler) MoveSlot(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	emp, ok := p.roster.Get(req.EmployeeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown employee " + req.EmployeeID})
		return
	}

	if err := p.grid.Move(req.Date, req.FromSlotID, req.ToSlotID, emp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.weekPayload(p))
}

// SaveDay persists one complete, dirty day as a partial merge into the
// week document. A failed write leaves the in-memory grid untouched so
// the save can be retried.
func (h *Handler) SaveDay(c *gin.Context) {
	date := c.Param("date")

	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.grid.CanSaveDay(date); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.SaveDay(p.grid.WeekEnding(), date, p.grid.SnapshotDay(date)); err != nil {
		respondError(c, err)
		return
	}
	p.grid.MarkSaved(date)
	c.JSON(http.StatusOK, gin.H{"saved": date})
}

// SaveWeek persists the full week document. Requires the week complete
// and every day saved individually first.
func (h *Handler) SaveWeek(c *gin.Context) {
	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.grid.CanSaveWeek(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.SaveWeek(p.grid.WeekEnding(), p.grid.Snapshot()); err != nil {
		respondError(c, err)
		return
	}
	p.grid.MarkWeekSaved()
	c.JSON(http.StatusOK, gin.H{"saved": p.grid.WeekEnding()})
}

// PublishWeek moves a complete draft week to published. The status flip
// and its audit entry are persisted atomically; if the write fails the
// in-memory flip is undone so the caller can retry.
func (h *Handler) PublishWeek(c *gin.Context) {
	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	actor := actorFrom(c)
	audit, err := p.controller.Publish(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.SetStatus(p.grid.WeekEnding(), schedule.StatusPublished.String(), audit); err != nil {
		// keep memory and store consistent; the revert audit is local only
		_, _ = p.controller.Reopen(actor, "publish persist failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": schedule.StatusPublished.String(), "audit": audit})
}

type reopenRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason" binding:"required"`
}

// ReopenWeek is the audited override back to draft.
func (h *Handler) ReopenWeek(c *gin.Context) {
	var req reopenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	actor := req.Actor
	if actor == "" {
		actor = actorFrom(c)
	}
	audit, err := p.controller.Reopen(actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.SetStatus(p.grid.WeekEnding(), schedule.StatusDraft.String(), audit); err != nil {
		_, _ = p.controller.Publish(actor)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": schedule.StatusDraft.String(), "audit": audit})
}

// AuditTrail returns the publish/reopen history of a week.
func (h *Handler) AuditTrail(c *gin.Context) {
	weekEnding := c.Param("weekEnding")
	if _, err := schedule.ParseWeekEnding(weekEnding); err != nil {
		respondError(c, err)
		return
	}
	trail, err := h.Store.AuditTrail(weekEnding)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"week_ending": weekEnding, "audit": trail})
}
