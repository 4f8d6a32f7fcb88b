package dto

import (
	"fmt"

	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/models"
)

// SessionInput is the wire shape for authoring a session. Time may be given as
// a weekday name plus period label, or as a day index plus slot range.
type SessionInput struct {
	ID         string `json:"id" validate:"omitempty,max=64"`
	ModuleID   string `json:"moduleId" validate:"required,max=64"`
	ModuleName string `json:"moduleName" validate:"max=255"`
	LecturerID string `json:"lecturerId" validate:"max=64"`
	Lecturer   string `json:"lecturer" validate:"max=255"`
	VenueID    string `json:"venueId" validate:"max=64"`
	Venue      string `json:"venue" validate:"max=255"`
	GroupID    string `json:"groupId" validate:"max=64"`
	Group      string `json:"group" validate:"max=255"`
	Day        string `json:"day" validate:"required_without=DayIndex"`
	DayIndex   *int   `json:"dayIndex" validate:"omitempty,min=0,max=6"`
	TimeSlot   string `json:"timeSlot" validate:"required_without_all=StartSlot EndSlot"`
	StartSlot  *int   `json:"startSlot" validate:"omitempty,min=0"`
	EndSlot    *int   `json:"endSlot" validate:"omitempty,min=1"`
	Category   string `json:"category" validate:"omitempty,oneof=Lecture Lab Tutorial Seminar Exam"`
	Color      string `json:"color" validate:"omitempty,max=32"`
}

// CreateSessionRequest adds one session to a timetable.
type CreateSessionRequest struct {
	SessionInput
	AllowConflict bool `json:"allowConflict"`
}

// BulkCreateSessionsRequest adds several sessions at once.
type BulkCreateSessionsRequest struct {
	Sessions       []SessionInput `json:"sessions" validate:"required,min=1,max=500,dive"`
	PartialOnError bool           `json:"partialOnError"`
	AllowConflict  bool           `json:"allowConflict"`
}

// BulkFailure explains why one bulk item was not created.
type BulkFailure struct {
	Index   int         `json:"index"`
	Message string      `json:"message"`
	Clashes []ClashView `json:"clashes,omitempty"`
}

// BulkCreateSessionsResult summarises a bulk insert.
type BulkCreateSessionsResult struct {
	Created []SessionView `json:"created"`
	Failed  []BulkFailure `json:"failed,omitempty"`
}

// SessionView is a session decorated with its weekday name and period label.
type SessionView struct {
	models.Session
	DayName string `json:"day"`
}

// ClashView is an existing booking that blocks a candidate session.
type ClashView struct {
	Type    models.ConflictType `json:"type"`
	Session SessionView         `json:"session"`
}

// SessionQuery filters session listings.
type SessionQuery struct {
	LecturerID string `form:"lecturerId"`
	VenueID    string `form:"venueId"`
	GroupID    string `form:"groupId"`
	Day        string `form:"day"`
}

// AvailabilityQuery asks whether a resource is free at a time.
type AvailabilityQuery struct {
	Resource           string `form:"resource" validate:"required,oneof=venue lecturer group"`
	ResourceID         string `form:"resourceId" validate:"required"`
	Day                string `form:"day" validate:"required"`
	TimeSlot           string `form:"timeSlot"`
	StartSlot          *int   `form:"startSlot" validate:"omitempty,min=0"`
	EndSlot            *int   `form:"endSlot" validate:"omitempty,min=1"`
	ExcludingSessionID string `form:"excludingSessionId"`
}

// AvailabilityResponse answers an AvailabilityQuery.
type AvailabilityResponse struct {
	Available bool        `json:"available"`
	Clashes   []ClashView `json:"clashes"`
}

// SessionMapper translates between wire labels and the canonical day index and
// slot range. It is the only place period labels and weekday names are parsed.
type SessionMapper struct {
	periods *models.PeriodTable
	days    models.WeekdaySet
}

// NewSessionMapper builds a mapper over a period table and weekday set.
func NewSessionMapper(periods *models.PeriodTable, days models.WeekdaySet) *SessionMapper {
	if periods == nil {
		periods = models.DefaultPeriodTable()
	}
	return &SessionMapper{periods: periods, days: days.Normalize()}
}

// Periods exposes the period table.
func (m *SessionMapper) Periods() *models.PeriodTable {
	return m.periods
}

// WithDays returns a mapper validating against another weekday set.
func (m *SessionMapper) WithDays(days models.WeekdaySet) *SessionMapper {
	return &SessionMapper{periods: m.periods, days: days.Normalize()}
}

// ToSession converts input into a canonical session for timetableID.
func (m *SessionMapper) ToSession(timetableID string, in SessionInput) (models.Session, error) {
	day, err := m.Day(in.Day, in.DayIndex)
	if err != nil {
		return models.Session{}, err
	}
	slot, err := m.Slot(in.TimeSlot, in.StartSlot, in.EndSlot)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		ID:          in.ID,
		TimetableID: timetableID,
		ModuleID:    in.ModuleID,
		ModuleName:  in.ModuleName,
		LecturerID:  in.LecturerID,
		Lecturer:    in.Lecturer,
		VenueID:     in.VenueID,
		Venue:       in.Venue,
		GroupID:     in.GroupID,
		Group:       in.Group,
		Day:         day,
		StartSlot:   slot.Start,
		EndSlot:     slot.End,
		TimeSlot:    m.periods.Label(slot),
		Category:    models.SessionCategory(in.Category),
		Color:       in.Color,
	}, nil
}

// Day resolves a weekday from an explicit index or a weekday name.
func (m *SessionMapper) Day(name string, index *int) (int, error) {
	day := 0
	if index != nil {
		day = *index
	} else {
		parsed, ok := models.ParseDay(name)
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", name)
		}
		day = parsed
	}
	if !m.days.Contains(day) {
		return 0, fmt.Errorf("day %d is outside the %d day week", day, m.days)
	}
	return day, nil
}

// Slot resolves a slot range from explicit bounds or a period label.
func (m *SessionMapper) Slot(label string, start, end *int) (models.SlotRange, error) {
	var slot models.SlotRange
	switch {
	case start != nil && end != nil:
		slot = models.SlotRange{Start: *start, End: *end}
	case label != "":
		r, ok := m.periods.Range(label)
		if !ok {
			return models.SlotRange{}, fmt.Errorf("unknown time slot %q", label)
		}
		slot = r
	default:
		return models.SlotRange{}, fmt.Errorf("a time slot label or start and end slots are required")
	}
	if !slot.Valid() {
		return models.SlotRange{}, fmt.Errorf("start slot %d must be before end slot %d", slot.Start, slot.End)
	}
	if !m.periods.Contains(slot) {
		return models.SlotRange{}, fmt.Errorf("slot range %s exceeds the %d period day", slot, m.periods.Len())
	}
	return slot, nil
}

// Decorate fills the period label of a session loaded from storage.
func (m *SessionMapper) Decorate(s models.Session) models.Session {
	s.TimeSlot = m.periods.Label(s.Slot())
	return s
}

// View renders a session for the wire.
func (m *SessionMapper) View(s models.Session) SessionView {
	return SessionView{Session: m.Decorate(s), DayName: models.DayName(s.Day)}
}

// Views renders a list of sessions.
func (m *SessionMapper) Views(sessions []models.Session) []SessionView {
	out := make([]SessionView, len(sessions))
	for i, s := range sessions {
		out[i] = m.View(s)
	}
	return out
}

// Clashes renders oracle clashes.
func (m *SessionMapper) Clashes(clashes []conflict.Clash) []ClashView {
	out := make([]ClashView, 0, len(clashes))
	for _, c := range clashes {
		out = append(out, ClashView{Type: c.Type, Session: m.View(c.Session)})
	}
	return out
}

// Conflicts decorates the sessions inside each conflict.
func (m *SessionMapper) Conflicts(conflicts []models.Conflict) []models.Conflict {
	out := make([]models.Conflict, len(conflicts))
	for i, c := range conflicts {
		sessions := make([]models.Session, len(c.Sessions))
		for j, s := range c.Sessions {
			sessions[j] = m.Decorate(s)
		}
		c.Sessions = sessions
		out[i] = c
	}
	return out
}
