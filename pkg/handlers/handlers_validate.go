package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casaluna/shift-planner-api/pkg/models"
	"github.com/casaluna/shift-planner-api/pkg/roster"
	"github.com/casaluna/shift-planner-api/pkg/schedule"
)

type validateRequest struct {
	WeekEnding string               `json:"week_ending"`
	Employees  []roster.RawEmployee `json:"employees"`
	Slots      []models.ShiftSlot   `json:"slots"`
}

// ValidateInput checks a roster-and-slots payload for the structural
// problems that would make a planning session misbehave.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input validateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if input.WeekEnding != "" {
		if _, err := schedule.ParseWeekEnding(input.WeekEnding); err != nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
			return
		}
	}

	if len(input.Employees) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one employee is required",
		})
		return
	}

	if len(input.Slots) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one shift slot is required",
		})
		return
	}

	empIDs := make(map[string]bool)
	for _, e := range input.Employees {
		id := e.ID
		if id == "" {
			id = e.UID
		}
		if id == "" {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Employee without id or uid: " + e.Name})
			return
		}
		if empIDs[id] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate employee ID: " + id})
			return
		}
		empIDs[id] = true
	}

	slotIDs := make(map[string]bool)
	for _, s := range input.Slots {
		if slotIDs[s.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate slot ID: " + s.ID})
			return
		}
		slotIDs[s.ID] = true
		if s.Side != models.SideFOH && s.Side != models.SideBOH {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Slot " + s.ID + " has invalid side: " + string(s.Side)})
			return
		}
		if s.Hours <= 0 {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Slot " + s.ID + " must declare positive hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"employee_count": len(input.Employees),
			"slot_count":     len(input.Slots),
		},
	})
}
