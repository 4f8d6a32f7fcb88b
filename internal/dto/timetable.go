package dto

import "github.com/noah-isme/unitime-api/internal/models"

// CreateTimetableRequest registers a department timetable.
type CreateTimetableRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	DepartmentID string `json:"departmentId" validate:"required,max=64"`
	Period       string `json:"period" validate:"required,max=64"`
	DaysPerWeek  int    `json:"daysPerWeek" validate:"omitempty,oneof=5 7"`
}

// TimetableQuery filters timetable listings.
type TimetableQuery struct {
	DepartmentID string `form:"departmentId"`
	Status       string `form:"status" validate:"omitempty,oneof=DRAFT SUBMITTED PUBLISHED"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// SubmitTimetableResponse reports the submitted timetable and the queued scan.
type SubmitTimetableResponse struct {
	Timetable models.Timetable `json:"timetable"`
	ScanJobID string           `json:"scanJobId,omitempty"`
}
