package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/models"
)

func intPtr(v int) *int { return &v }

func TestSessionMapperTranslatesLabels(t *testing.T) {
	mapper := NewSessionMapper(nil, models.FiveDayWeek)
	s, err := mapper.ToSession("tt-1", SessionInput{
		ID:       "1",
		ModuleID: "cs101",
		VenueID:  "A101",
		Day:      "Monday",
		TimeSlot: "09:15-09:55",
	})
	require.NoError(t, err)
	assert.Equal(t, "tt-1", s.TimetableID)
	assert.Equal(t, 0, s.Day)
	assert.Equal(t, 2, s.StartSlot)
	assert.Equal(t, 3, s.EndSlot)
	assert.Equal(t, "09:15-09:55", s.TimeSlot)
}

func TestSessionMapperPrefersExplicitRange(t *testing.T) {
	mapper := NewSessionMapper(nil, models.FiveDayWeek)
	s, err := mapper.ToSession("tt-1", SessionInput{
		ModuleID:  "cs101",
		DayIndex:  intPtr(4),
		TimeSlot:  "07:30-08:10",
		StartSlot: intPtr(3),
		EndSlot:   intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Day)
	assert.Equal(t, models.SlotRange{Start: 3, End: 5}, s.Slot())
	assert.Empty(t, s.TimeSlot, "multi-period ranges carry no label")
}

func TestSessionMapperRejectsBadInput(t *testing.T) {
	mapper := NewSessionMapper(nil, models.FiveDayWeek)
	cases := map[string]SessionInput{
		"unknown day":       {ModuleID: "m", Day: "Funday", TimeSlot: "09:15-09:55"},
		"weekend":           {ModuleID: "m", Day: "Saturday", TimeSlot: "09:15-09:55"},
		"unknown label":     {ModuleID: "m", Day: "Monday", TimeSlot: "09:00-09:40"},
		"empty range":       {ModuleID: "m", Day: "Monday", StartSlot: intPtr(3), EndSlot: intPtr(3)},
		"past last period":  {ModuleID: "m", Day: "Monday", StartSlot: intPtr(11), EndSlot: intPtr(13)},
		"no time at all":    {ModuleID: "m", Day: "Monday"},
		"half a slot range": {ModuleID: "m", Day: "Monday", StartSlot: intPtr(1)},
	}
	for name, in := range cases {
		_, err := mapper.ToSession("tt-1", in)
		assert.Error(t, err, name)
	}

	_, err := mapper.WithDays(models.SevenDayWeek).ToSession("tt-1", SessionInput{ModuleID: "m", Day: "Saturday", TimeSlot: "09:15-09:55"})
	assert.NoError(t, err)
}

func TestSessionInputValidation(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Struct(SessionInput{ModuleID: "m", Day: "Monday", TimeSlot: "09:15-09:55"}))
	assert.NoError(t, v.Struct(SessionInput{ModuleID: "m", DayIndex: intPtr(1), StartSlot: intPtr(0), EndSlot: intPtr(2)}))
	assert.Error(t, v.Struct(SessionInput{Day: "Monday", TimeSlot: "09:15-09:55"}), "module is required")
	assert.Error(t, v.Struct(SessionInput{ModuleID: "m", TimeSlot: "09:15-09:55"}), "day is required")
	assert.Error(t, v.Struct(SessionInput{ModuleID: "m", Day: "Monday"}), "time is required")
	assert.Error(t, v.Struct(SessionInput{ModuleID: "m", Day: "Monday", TimeSlot: "x", Category: "Party"}))
}

func TestSessionMapperViews(t *testing.T) {
	mapper := NewSessionMapper(nil, models.FiveDayWeek)
	stored := models.Session{ID: "1", Day: 2, StartSlot: 2, EndSlot: 3}

	view := mapper.View(stored)
	assert.Equal(t, "Wednesday", view.DayName)
	assert.Equal(t, "09:15-09:55", view.TimeSlot)

	clashes := mapper.Clashes([]conflict.Clash{{Type: models.ConflictVenue, Session: stored}})
	require.Len(t, clashes, 1)
	assert.Equal(t, "Wednesday", clashes[0].Session.DayName)

	decorated := mapper.Conflicts([]models.Conflict{{ID: 1, Sessions: []models.Session{stored}}})
	assert.Equal(t, "09:15-09:55", decorated[0].Sessions[0].TimeSlot)
}

func TestSummarise(t *testing.T) {
	summary := Summarise([]models.Conflict{
		{Type: models.ConflictVenue, Priority: models.PriorityHigh},
		{Type: models.ConflictGroup, Priority: models.PriorityMedium},
		{Type: models.ConflictVenue, Priority: models.PriorityHigh},
	})
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.ByType[models.ConflictVenue])
	assert.Equal(t, 1, summary.ByPriority[models.PriorityMedium])
}
