package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ScheduleDocument is one schedule week, keyed by its Sunday week-ending
// date. Days holds the JSON-encoded slot map; slot values are employee
// IDs only.
type ScheduleDocument struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WeekEnding string    `gorm:"uniqueIndex;not null" json:"week_ending"`
	Status     string    `gorm:"not null;default:draft" json:"status"`
	Days       string    `gorm:"type:text" json:"days"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmployeeRecord is the roster feed. Position preserves feed order,
// which the recommendation engine uses as its tie-break.
type EmployeeRecord struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Side     string `gorm:"not null" json:"side"`
	SubRole  string `json:"sub_role"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

// SlotRecord is the static per-restaurant slot configuration.
type SlotRecord struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Label     string  `gorm:"not null" json:"label"`
	Side      string  `gorm:"not null" json:"side"`
	StartTime string  `gorm:"not null" json:"start_time"`
	EndTime   string  `gorm:"not null" json:"end_time"`
	Hours     float64 `gorm:"not null" json:"hours"`
	Position  int     `gorm:"not null;default:0" json:"position"`
}

// PreferenceRecord stores one employee's scheduling preferences.
// List fields are pipe-separated.
type PreferenceRecord struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	EmployeeID         string  `gorm:"uniqueIndex;not null" json:"employee_id"`
	PreferredDays      string  `json:"preferred_days"`
	AvoidDays          string  `json:"avoid_days"`
	PreferredTimes     string  `json:"preferred_times"`
	PreferredStartTime string  `json:"preferred_start_time"`
	PreferredEndTime   string  `json:"preferred_end_time"`
	MinHoursPerWeek    float64 `json:"min_hours_per_week"`
	MaxHoursPerWeek    float64 `json:"max_hours_per_week"`
}

// TimeOffRecord is one approved absence day.
type TimeOffRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID string    `gorm:"index;not null" json:"employee_id"`
	Date       string    `gorm:"index;not null" json:"date"`
	Status     string    `gorm:"not null;default:approved" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttendanceRecord is one scheduled-shift outcome from the punch feed.
type AttendanceRecord struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EmployeeID string `gorm:"index;not null" json:"employee_id"`
	Date       string `gorm:"index;not null" json:"date"`
	Attended   bool   `json:"attended"`
	OnTime     bool   `json:"on_time"`
	NoShow     bool   `json:"no_show"`
}

// RankingEntry is one employee's place in a ranking snapshot period.
type RankingEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PeriodLabel string    `gorm:"index;not null" json:"period_label"`
	Band        string    `gorm:"not null" json:"band"`
	Position    int       `gorm:"not null" json:"position"`
	UID         string    `gorm:"index;not null" json:"uid"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublishAudit records publish and reopen actions on a week.
type PublishAudit struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	WeekEnding string    `gorm:"index;not null" json:"week_ending"`
	Action     string    `gorm:"not null" json:"action"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	KeyID            uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date             string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount     int    `gorm:"default:0" json:"request_count"`
	TotalAssignments int    `gorm:"default:0" json:"total_assignments"`
	TotalSuggestions int    `gorm:"default:0" json:"total_suggestions"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects postgres; otherwise sqlite at DATA_PATH.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "shift_planner.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(
		&ScheduleDocument{},
		&EmployeeRecord{},
		&SlotRecord{},
		&PreferenceRecord{},
		&TimeOffRecord{},
		&AttendanceRecord{},
		&RankingEntry{},
		&PublishAudit{},
		&APIKey{},
		&APIUsage{},
		&MasterUser{},
	)

	return db
}
