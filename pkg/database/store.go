package database

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/casaluna/shift-planner-api/pkg/models"
	"github.com/casaluna/shift-planner-api/pkg/roster"
	"github.com/casaluna/shift-planner-api/pkg/stats"
)

// Store is the persistence collaborator for the planner. Each save scope
// (day, week, status) is a single atomic document update; partial writes
// are never reported as success.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps a gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// LoadWeek fetches a week document. The second return is false when no
// document exists for the week-ending date.
func (s *Store) LoadWeek(weekEnding string) (models.WeekDocument, bool, error) {
	var row ScheduleDocument
	err := s.DB.Where("week_ending = ?", weekEnding).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WeekDocument{}, false, nil
	}
	if err != nil {
		return models.WeekDocument{}, false, &models.PersistenceError{Op: "load week", Err: err}
	}

	doc := models.WeekDocument{Status: row.Status, Days: map[string]models.DayDocument{}}
	if row.Days != "" {
		if err := json.Unmarshal([]byte(row.Days), &doc.Days); err != nil {
			return models.WeekDocument{}, false, &models.PersistenceError{Op: "decode week", Err: err}
		}
	}
	return doc, true, nil
}

// SaveDay merges a single day into the week document, creating the
// document as a draft if it does not exist yet.
func (s *Store) SaveDay(weekEnding, date string, day models.DayDocument) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var row ScheduleDocument
		err := tx.Where("week_ending = ?", weekEnding).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = ScheduleDocument{WeekEnding: weekEnding, Status: "draft"}
		} else if err != nil {
			return err
		}

		days := map[string]models.DayDocument{}
		if row.Days != "" {
			if err := json.Unmarshal([]byte(row.Days), &days); err != nil {
				return err
			}
		}
		days[date] = day

		encoded, err := json.Marshal(days)
		if err != nil {
			return err
		}
		row.Days = string(encoded)
		return tx.Save(&row).Error
	})
	if err != nil {
		return &models.PersistenceError{Op: "save day", Err: err}
	}
	return nil
}

// SaveWeek writes the full week document in one transaction.
func (s *Store) SaveWeek(weekEnding string, doc models.WeekDocument) error {
	encoded, err := json.Marshal(doc.Days)
	if err != nil {
		return &models.PersistenceError{Op: "encode week", Err: err}
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var row ScheduleDocument
		findErr := tx.Where("week_ending = ?", weekEnding).First(&row).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			row = ScheduleDocument{WeekEnding: weekEnding}
		} else if findErr != nil {
			return findErr
		}
		row.Status = doc.Status
		row.Days = string(encoded)
		return tx.Save(&row).Error
	})
	if err != nil {
		return &models.PersistenceError{Op: "save week", Err: err}
	}
	return nil
}

// SetStatus flips the week status and writes the audit entry in the same
// transaction, so a published week always has its audit trail.
func (s *Store) SetStatus(weekEnding, status string, audit models.AuditEntry) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ScheduleDocument{}).
			Where("week_ending = ?", weekEnding).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&PublishAudit{
			ID:         audit.ID,
			WeekEnding: audit.WeekEnding,
			Action:     audit.Action,
			Actor:      audit.Actor,
			Reason:     audit.Reason,
			CreatedAt:  audit.At,
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrWeekNotFound
	}
	if err != nil {
		return &models.PersistenceError{Op: "set status", Err: err}
	}
	return nil
}

// AuditTrail returns the publish/reopen history of a week, newest first.
func (s *Store) AuditTrail(weekEnding string) ([]models.AuditEntry, error) {
	var rows []PublishAudit
	if err := s.DB.Where("week_ending = ?", weekEnding).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load audit trail", Err: err}
	}
	out := make([]models.AuditEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AuditEntry{
			ID:         r.ID,
			WeekEnding: r.WeekEnding,
			Action:     r.Action,
			Actor:      r.Actor,
			Reason:     r.Reason,
			At:         r.CreatedAt,
		})
	}
	return out, nil
}

// Roster loads employee records in feed order as raw roster input.
func (s *Store) Roster() ([]roster.RawEmployee, error) {
	var rows []EmployeeRecord
	if err := s.DB.Order("position asc").Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load roster", Err: err}
	}
	out := make([]roster.RawEmployee, 0, len(rows))
	for _, r := range rows {
		out = append(out, roster.RawEmployee{
			ID:      r.ID,
			Name:    r.Name,
			Side:    r.Side,
			SubRole: r.SubRole,
		})
	}
	return out, nil
}

// Slots loads the slot configuration in declaration order.
func (s *Store) Slots() ([]models.ShiftSlot, error) {
	var rows []SlotRecord
	if err := s.DB.Order("position asc").Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load slots", Err: err}
	}
	out := make([]models.ShiftSlot, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ShiftSlot{
			ID:        r.ID,
			Label:     r.Label,
			Side:      models.Side(r.Side),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Hours:     r.Hours,
		})
	}
	return out, nil
}

// Preferences loads every employee's preference record. Employees
// without a record default to no preferences.
func (s *Store) Preferences() (map[string]models.EmployeePreference, error) {
	var rows []PreferenceRecord
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load preferences", Err: err}
	}
	out := make(map[string]models.EmployeePreference, len(rows))
	for _, r := range rows {
		out[r.EmployeeID] = models.EmployeePreference{
			PreferredDays:      splitList(r.PreferredDays),
			AvoidDays:          splitList(r.AvoidDays),
			PreferredTimes:     splitList(r.PreferredTimes),
			PreferredStartTime: r.PreferredStartTime,
			PreferredEndTime:   r.PreferredEndTime,
			MinHoursPerWeek:    r.MinHoursPerWeek,
			MaxHoursPerWeek:    r.MaxHoursPerWeek,
		}
	}
	return out, nil
}

// TimeOff loads approved absences falling on any of the given dates.
func (s *Store) TimeOff(dates []string) ([]models.TimeOffBlock, error) {
	var rows []TimeOffRecord
	if err := s.DB.Where("status = ? AND date IN ?", "approved", dates).Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load time off", Err: err}
	}
	out := make([]models.TimeOffBlock, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TimeOffBlock{EmployeeID: r.EmployeeID, Date: r.Date})
	}
	return out, nil
}

// Attendance loads punch records from the trailing window ending at asOf.
func (s *Store) Attendance(asOf time.Time) ([]stats.PunchRecord, error) {
	cutoff := asOf.AddDate(0, 0, -28).Format("2006-01-02")
	var rows []AttendanceRecord
	if err := s.DB.Where("date >= ?", cutoff).Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load attendance", Err: err}
	}
	out := make([]stats.PunchRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, stats.PunchRecord{
			EmployeeID: r.EmployeeID,
			Date:       r.Date,
			Attended:   r.Attended,
			OnTime:     r.OnTime,
			NoShow:     r.NoShow,
		})
	}
	return out, nil
}

// RankingSnapshots loads the two most recent ranking periods: current
// and the previous one, each nil when no such period exists.
func (s *Store) RankingSnapshots() (current, previous *models.RankingSnapshot, err error) {
	var labels []string
	if err := s.DB.Model(&RankingEntry{}).
		Distinct("period_label").
		Order("period_label desc").
		Limit(2).
		Pluck("period_label", &labels).Error; err != nil {
		return nil, nil, &models.PersistenceError{Op: "load ranking periods", Err: err}
	}
	if len(labels) > 0 {
		if current, err = s.loadSnapshot(labels[0]); err != nil {
			return nil, nil, err
		}
	}
	if len(labels) > 1 {
		if previous, err = s.loadSnapshot(labels[1]); err != nil {
			return nil, nil, err
		}
	}
	return current, previous, nil
}

func (s *Store) loadSnapshot(label string) (*models.RankingSnapshot, error) {
	var rows []RankingEntry
	if err := s.DB.Where("period_label = ?", label).Order("position asc").Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "load ranking snapshot", Err: err}
	}
	snap := &models.RankingSnapshot{
		PeriodLabel: label,
		Bands:       make(map[models.Band][]models.RankedEmployee),
	}
	for _, r := range rows {
		band := models.Band(r.Band)
		snap.Bands[band] = append(snap.Bands[band], models.RankedEmployee{
			UID:   r.UID,
			Name:  r.Name,
			Role:  models.Side(r.Role),
			Score: r.Score,
		})
	}
	return snap, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
