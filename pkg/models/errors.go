package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scheduling domain. Typed errors below wrap
// these so callers can match either the category (errors.Is) or the
// detail (errors.As).
var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrBlockedAssignment is returned when an assignment targets a date
	// the employee has approved time off for.
	ErrBlockedAssignment = errors.New("employee is blocked by approved time off")

	// ErrLockedSchedule is returned for any mutation of a published week.
	ErrLockedSchedule = errors.New("schedule week is published and locked")

	// ErrIncompleteWeek is returned when publish is attempted before
	// every slot of every day is filled.
	ErrIncompleteWeek = errors.New("schedule week is not complete")

	// ErrDoubleBooked is returned when an employee already holds another
	// slot on the same day and no override was requested.
	ErrDoubleBooked = errors.New("employee already scheduled on this day")

	// ErrPersistence is returned when an external write fails. In-memory
	// edits are never rolled back on persistence failure.
	ErrPersistence = errors.New("persistence failure")

	// ErrWeekNotFound is returned when a week document does not exist.
	ErrWeekNotFound = errors.New("schedule week not found")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// BlockedAssignmentError names the employee and date of a rejected
// assignment against an approved absence.
type BlockedAssignmentError struct {
	EmployeeID   string
	EmployeeName string
	Date         string
}

func (e *BlockedAssignmentError) Error() string {
	name := e.EmployeeName
	if name == "" {
		name = e.EmployeeID
	}
	return fmt.Sprintf("%s has approved time off on %s", name, e.Date)
}

func (e *BlockedAssignmentError) Unwrap() error { return ErrBlockedAssignment }

// LockedScheduleError reports a mutation attempted on a published week.
type LockedScheduleError struct {
	WeekEnding string
}

func (e *LockedScheduleError) Error() string {
	return fmt.Sprintf("week ending %s is published and cannot be edited", e.WeekEnding)
}

func (e *LockedScheduleError) Unwrap() error { return ErrLockedSchedule }

// IncompleteWeekError reports a publish attempt on a week with open slots.
type IncompleteWeekError struct {
	WeekEnding string
	OpenSlots  int
}

func (e *IncompleteWeekError) Error() string {
	return fmt.Sprintf("week ending %s has %d unfilled slots", e.WeekEnding, e.OpenSlots)
}

func (e *IncompleteWeekError) Unwrap() error { return ErrIncompleteWeek }

// DoubleBookedError reports a same-day second assignment without an
// explicit override.
type DoubleBookedError struct {
	EmployeeID string
	Date       string
	SlotID     string
}

func (e *DoubleBookedError) Error() string {
	return fmt.Sprintf("employee %s already holds slot %s on %s", e.EmployeeID, e.SlotID, e.Date)
}

func (e *DoubleBookedError) Unwrap() error { return ErrDoubleBooked }

// PersistenceError wraps an external store failure with the operation
// that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }
