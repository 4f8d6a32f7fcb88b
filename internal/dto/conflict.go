package dto

import (
	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/models"
)

// Conflict report scopes.
const (
	ScopeDepartment = "department"
	ScopeMaster     = "master"
)

// ConflictSummary counts conflicts by type and priority.
type ConflictSummary struct {
	Total      int                         `json:"total"`
	ByType     map[models.ConflictType]int `json:"byType"`
	ByPriority map[models.Priority]int     `json:"byPriority"`
}

// ConflictReport is one detection pass. Revision must be echoed back when
// resolving so that ids from an older pass are rejected.
type ConflictReport struct {
	Scope       string            `json:"scope"`
	TimetableID string            `json:"timetableId,omitempty"`
	Revision    string            `json:"revision"`
	Conflicts   []models.Conflict `json:"conflicts"`
	Summary     ConflictSummary   `json:"summary"`
}

// Summarise counts conflicts.
func Summarise(conflicts []models.Conflict) ConflictSummary {
	summary := ConflictSummary{
		Total:      len(conflicts),
		ByType:     make(map[models.ConflictType]int),
		ByPriority: make(map[models.Priority]int),
	}
	for _, c := range conflicts {
		summary.ByType[c.Type]++
		summary.ByPriority[c.Priority]++
	}
	return summary
}

// ResolveConflictRequest applies one candidate of one conflict.
type ResolveConflictRequest struct {
	Revision     string `json:"revision" validate:"required"`
	ConflictID   int    `json:"conflictId" validate:"required,min=1"`
	ResolutionID int    `json:"resolutionId" validate:"required,min=1"`
}

// ResolveConflictResponse returns the moved session and the fresh pass.
type ResolveConflictResponse struct {
	Session SessionView    `json:"session"`
	Report  ConflictReport `json:"report"`
}

// AutoResolveRequest applies first candidates across the whole pass.
type AutoResolveRequest struct {
	Revision      string `json:"revision" validate:"required"`
	Mode          string `json:"mode" validate:"omitempty,oneof=single_pass iterative"`
	MaxIterations int    `json:"maxIterations" validate:"omitempty,min=1,max=1000"`
}

// AutoResolveResponse reports an auto-resolve run.
type AutoResolveResponse struct {
	Mode       conflict.AutoResolveMode     `json:"mode"`
	Iterations int                          `json:"iterations"`
	Applied    []conflict.AppliedResolution `json:"applied"`
	Skipped    []conflict.SkippedConflict   `json:"skipped"`
	Report     ConflictReport               `json:"report"`
}

// FreeVenuesQuery lists venues free at a time.
type FreeVenuesQuery struct {
	TimetableID        string `form:"timetableId"`
	Day                string `form:"day" validate:"required"`
	TimeSlot           string `form:"timeSlot"`
	StartSlot          *int   `form:"startSlot" validate:"omitempty,min=0"`
	EndSlot            *int   `form:"endSlot" validate:"omitempty,min=1"`
	Type               string `form:"type"`
	MinCapacity        int    `form:"minCapacity" validate:"omitempty,min=0"`
	ExcludingSessionID string `form:"excludingSessionId"`
}

// CreateVenueRequest adds a venue to the catalog.
type CreateVenueRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Type     string `json:"type" validate:"required,max=64"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}
