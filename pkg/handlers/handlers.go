package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casaluna/shift-planner-api/pkg/auth"
	"github.com/casaluna/shift-planner-api/pkg/database"
	"github.com/casaluna/shift-planner-api/pkg/models"
	"github.com/casaluna/shift-planner-api/pkg/recommend"
	"github.com/casaluna/shift-planner-api/pkg/roster"
	"github.com/casaluna/shift-planner-api/pkg/schedule"
	"github.com/casaluna/shift-planner-api/pkg/stats"
)

// Handler contains dependencies for the route handlers. Unsaved grid
// edits live in per-week planner sessions until an explicit save; the
// store only sees whole-day or whole-week writes.
type Handler struct {
	DB    *gorm.DB
	Store *database.Store

	mu       sync.Mutex
	sessions map[string]*planner
}

// NewHandler wires a handler over a database connection.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:       db,
		Store:    database.NewStore(db),
		sessions: make(map[string]*planner),
	}
}

// planner is the per-week working set: the grid plus every collaborator
// the engine needs, loaded from the store before any computation runs.
type planner struct {
	mu         sync.Mutex
	grid       *schedule.WeekGrid
	roster     *roster.Index
	guard      *stats.EligibilityGuard
	aggregator *stats.Aggregator
	engine     *recommend.Engine
	controller *schedule.PublishController
}

// session returns the cached planner for a week, building one from the
// store on first access. A week document is created lazily in memory; the
// store is not written until a save.
func (h *Handler) session(weekEnding string) (*planner, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.sessions[weekEnding]; ok {
		return p, nil
	}
	p, err := h.buildPlanner(weekEnding)
	if err != nil {
		return nil, err
	}
	h.sessions[weekEnding] = p
	return p, nil
}

func (h *Handler) buildPlanner(weekEnding string) (*planner, error) {
	anchor, err := schedule.ParseWeekEnding(weekEnding)
	if err != nil {
		return nil, err
	}

	slots, err := h.Store.Slots()
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, &models.ValidationError{Field: "slots", Message: "no shift slot configuration found"}
	}

	rawRoster, err := h.Store.Roster()
	if err != nil {
		return nil, err
	}
	idx := roster.NewIndex(rawRoster)

	dates := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		dates = append(dates, anchor.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	blocks, err := h.Store.TimeOff(dates)
	if err != nil {
		return nil, err
	}
	guard := stats.NewEligibilityGuard(blocks)

	grid, err := schedule.NewWeekGrid(weekEnding, slots, guard)
	if err != nil {
		return nil, err
	}
	if doc, found, err := h.Store.LoadWeek(weekEnding); err != nil {
		return nil, err
	} else if found {
		grid.Load(doc)
	}

	now := time.Now()
	punches, err := h.Store.Attendance(now)
	if err != nil {
		return nil, err
	}
	attendance := stats.SummarizeAttendance(punches, now)

	current, previous, err := h.Store.RankingSnapshots()
	if err != nil {
		return nil, err
	}
	aggregator := stats.NewAggregator(grid, attendance, current, previous)

	prefs, err := h.Store.Preferences()
	if err != nil {
		return nil, err
	}

	return &planner{
		grid:       grid,
		roster:     idx,
		guard:      guard,
		aggregator: aggregator,
		engine:     recommend.New(idx, grid, aggregator, guard, prefs),
		controller: schedule.NewPublishController(grid),
	}, nil
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrWeekNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrBlockedAssignment),
		errors.Is(err, models.ErrDoubleBooked),
		errors.Is(err, models.ErrIncompleteWeek):
		status = http.StatusConflict
	case errors.Is(err, models.ErrLockedSchedule):
		status = http.StatusLocked
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for planner routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}
		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		clientID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      clientID,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Set("clientID", clientID)
		c.Next()
	}
}

// RecordUsage upserts the caller's daily usage counters.
func (h *Handler) RecordUsage(c *gin.Context, assignments, suggestions int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":     gorm.Expr("request_count + ?", 1),
			"total_assignments": gorm.Expr("total_assignments + ?", assignments),
			"total_suggestions": gorm.Expr("total_suggestions + ?", suggestions),
		}),
	}).Create(&database.APIUsage{
		KeyID:            apiKey.ID,
		Date:             today,
		RequestCount:     1,
		TotalAssignments: assignments,
		TotalSuggestions: suggestions,
	})
}

func actorFrom(c *gin.Context) string {
	if v, ok := c.Get("clientID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}
