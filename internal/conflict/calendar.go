package conflict

import (
	"fmt"

	"github.com/noah-isme/unitime-api/internal/models"
)

// Calendar bounds where a session may be placed: the number of periods in a
// teaching day and the weekday set of each timetable. Periods <= 0 leaves the
// day unbounded; a zero calendar only rejects empty slot ranges.
type Calendar struct {
	Periods    int
	Days       models.WeekdaySet
	Timetables map[string]models.WeekdaySet
}

// DaysFor returns the weekday set of the timetable owning s, falling back to
// the calendar default.
func (c Calendar) DaysFor(s models.Session) models.WeekdaySet {
	days, _ := c.daysOf(s)
	return days
}

// daysOf also reports whether any weekday set is configured for s.
func (c Calendar) daysOf(s models.Session) (models.WeekdaySet, bool) {
	if days, ok := c.Timetables[s.TimetableID]; ok {
		return days.Normalize(), true
	}
	return c.Days.Normalize(), c.Days != 0
}

// Fits reports why s cannot be placed, or nil when it can.
func (c Calendar) Fits(s models.Session) error {
	slot := s.Slot()
	if !slot.Valid() {
		return fmt.Errorf("slot range %s is empty", slot)
	}
	if c.Periods > 0 && slot.End > c.Periods {
		return fmt.Errorf("slot range %s runs past the last period (%d)", slot, c.Periods)
	}
	if days, ok := c.daysOf(s); ok && !days.Contains(s.Day) {
		return fmt.Errorf("day %d is outside the %d day week", s.Day, days)
	}
	return nil
}
