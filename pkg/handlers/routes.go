package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto a gin engine. Shared by the
// standalone server and the serverless entry point.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Planner API",
			"version": "1.3.0",
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)

		api.GET("/weeks/:weekEnding", h.GetWeek)
		api.POST("/weeks/:weekEnding/assign", h.AssignSlot)
		api.POST("/weeks/:weekEnding/clear", h.ClearSlot)
		api.POST("/weeks/:weekEnding/move", h.MoveSlot)
		api.POST("/weeks/:weekEnding/days/:date/save", h.SaveDay)
		api.POST("/weeks/:weekEnding/save", h.SaveWeek)
		api.POST("/weeks/:weekEnding/publish", h.PublishWeek)
		api.POST("/weeks/:weekEnding/reopen", h.ReopenWeek)
		api.GET("/weeks/:weekEnding/audit", h.AuditTrail)
		api.GET("/weeks/:weekEnding/suggestions", h.GetSuggestions)
		api.POST("/weeks/:weekEnding/suggestions/apply", h.ApplySuggestion)
		api.GET("/weeks/:weekEnding/stats", h.WeekStats)
		api.GET("/weeks/:weekEnding/export.csv", h.ExportCSV)
	}
}
