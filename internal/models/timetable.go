package models

import "time"

// TimetableStatus represents lifecycle phases for department timetables.
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "DRAFT"
	TimetableStatusSubmitted TimetableStatus = "SUBMITTED"
	TimetableStatusPublished TimetableStatus = "PUBLISHED"
)

// Timetable is a named, versioned collection of sessions for one department and
// academic period.
type Timetable struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	DepartmentID string          `db:"department_id" json:"departmentId"`
	Period       string          `db:"period" json:"period"`
	Version      int             `db:"version" json:"version"`
	Status       TimetableStatus `db:"status" json:"status"`
	DaysPerWeek  int             `db:"days_per_week" json:"daysPerWeek"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

// Weekdays returns the timetable's valid weekday set.
func (t Timetable) Weekdays() WeekdaySet {
	return WeekdaySet(t.DaysPerWeek).Normalize()
}

// TimetableFilter describes query params for listing timetables.
type TimetableFilter struct {
	DepartmentID string
	Status       TimetableStatus
	Page         int
	PageSize     int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
