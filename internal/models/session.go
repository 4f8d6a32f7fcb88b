package models

import (
	"fmt"
	"time"
)

// SessionCategory classifies a session for display.
type SessionCategory string

const (
	CategoryLecture  SessionCategory = "Lecture"
	CategoryLab      SessionCategory = "Lab"
	CategoryTutorial SessionCategory = "Tutorial"
	CategorySeminar  SessionCategory = "Seminar"
	CategoryExam     SessionCategory = "Exam"
)

// Session is one scheduled occurrence of a module bound to a lecturer, venue,
// student group, weekday and slot range. Day is 0-based (Monday = 0) and the slot
// range is half-open over the period table.
type Session struct {
	ID          string          `db:"id" json:"id"`
	TimetableID string          `db:"timetable_id" json:"timetableId"`
	ModuleID    string          `db:"module_id" json:"moduleId"`
	ModuleName  string          `db:"module_name" json:"moduleName"`
	LecturerID  string          `db:"lecturer_id" json:"lecturerId"`
	Lecturer    string          `db:"lecturer" json:"lecturer"`
	VenueID     string          `db:"venue_id" json:"venueId"`
	Venue       string          `db:"venue" json:"venue"`
	GroupID     string          `db:"group_id" json:"groupId"`
	Group       string          `db:"group_name" json:"group"`
	Day         int             `db:"day" json:"dayIndex"`
	StartSlot   int             `db:"start_slot" json:"startSlot"`
	EndSlot     int             `db:"end_slot" json:"endSlot"`
	TimeSlot    string          `db:"-" json:"timeSlot,omitempty"`
	HasConflict bool            `db:"has_conflict" json:"hasConflict"`
	Category    SessionCategory `db:"category" json:"category,omitempty"`
	Color       string          `db:"color" json:"color,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Slot returns the session's slot range.
func (s Session) Slot() SlotRange {
	return SlotRange{Start: s.StartSlot, End: s.EndSlot}
}

// Validate checks the structural invariants of a session.
func (s Session) Validate(days WeekdaySet) error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if !days.Contains(s.Day) {
		return fmt.Errorf("session %s: day %d outside the %d day week", s.ID, s.Day, days.Normalize())
	}
	if !s.Slot().Valid() {
		return fmt.Errorf("session %s: start slot %d must be before end slot %d", s.ID, s.StartSlot, s.EndSlot)
	}
	return nil
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	TimetableIDs []string
	LecturerID   string
	VenueID      string
	GroupID      string
	Day          *int
}
