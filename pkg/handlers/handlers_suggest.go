package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetSuggestions ranks candidates. With slot_id and date query params it
// scores one slot; without them it sweeps every unfilled slot of the week.
func (h *Handler) GetSuggestions(c *gin.Context) {
	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	slotID := c.Query("slot_id")
	date := c.Query("date")

	if slotID == "" && date == "" {
		sweep := p.engine.FullWeekSuggestions()
		count := 0
		for _, day := range sweep {
			count += len(day)
		}
		h.RecordUsage(c, 0, count)
		c.JSON(http.StatusOK, gin.H{
			"week_ending": p.grid.WeekEnding(),
			"suggestions": sweep,
		})
		return
	}

	if slotID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_id and date must be provided together"})
		return
	}

	topN, _ := strconv.Atoi(c.DefaultQuery("top", "3"))
	ranked, err := p.engine.SuggestionsForSlot(slotID, date, topN)
	if err != nil {
		respondError(c, err)
		return
	}
	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, gin.H{
		"slot_id":     slotID,
		"date":        date,
		"suggestions": ranked,
	})
}

type applySuggestionRequest struct {
	Date       string `json:"date" binding:"required"`
	SlotID     string `json:"slot_id" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
}

// ApplySuggestion assigns a suggested employee and consumes the cached
// suggestion for that slot.
func (h *Handler) ApplySuggestion(c *gin.Context) {
	var req applySuggestionRequest
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
	if err := p.engine.ApplySuggestion(req.Date, req.SlotID, emp); err != nil {
		respondError(c, err)
		return
	}
	h.RecordUsage(c, 1, 0)
	c.JSON(http.StatusOK, h.weekPayload(p))
}

// WeekStats returns per-employee statistics for the current week.
func (h *Handler) WeekStats(c *gin.Context) {
	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	employees := p.roster.All()
	out := make([]gin.H, 0, len(employees))
	for _, emp := range employees {
		out = append(out, gin.H{
			"employee": emp,
			"stats":    p.aggregator.StatsFor(emp.ID),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"week_ending": p.grid.WeekEnding(),
		"employees":   out,
	})
}

// ExportCSV renders the week's assignments as CSV, one row per filled
// slot-day. Values are employee IDs plus display names for convenience;
// the persisted document itself never carries names.
func (h *Handler) ExportCSV(c *gin.Context) {
	p, err := h.session(c.Param("weekEnding"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var out strings.Builder
	writer := csv.NewWriter(&out)
	writer.Write([]string{"date", "slot_id", "slot_label", "side", "start", "end", "hours", "employee_id", "employee_name"})

	for _, date := range p.grid.Dates() {
		assignments := p.grid.Assignments(date)
		for _, slot := range p.grid.Slots() {
			empID := assignments[slot.ID]
			if empID == "" {
				continue
			}
			name := ""
			if emp, ok := p.roster.Get(empID); ok {
				name = emp.Name
			}
			writer.Write([]string{
				date,
				slot.ID,
				slot.Label,
				string(slot.Side),
				slot.StartTime,
				slot.EndTime,
				fmt.Sprintf("%.2f", slot.Hours),
				empID,
				name,
			})
		}
	}
	writer.Flush()

	c.Header("Content-Disposition", `attachment; filename="week-`+p.grid.WeekEnding()+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out.String()))
}
