package conflict

import (
	"fmt"

	"github.com/noah-isme/unitime-api/internal/models"
)

// DefaultPlaceholderVenue is proposed when no catalog alternative exists.
const DefaultPlaceholderVenue = "TBA"

// Proposer builds candidate resolutions for a conflict. It never mutates the
// conflict or the sessions it is given.
type Proposer struct {
	catalog     *models.VenueCatalog
	calendar    Calendar
	placeholder string
}

// ProposerOption customises a Proposer.
type ProposerOption func(*Proposer)

// WithPlaceholderVenue overrides the venue name proposed when the catalog has no candidate.
func WithPlaceholderVenue(name string) ProposerOption {
	return func(p *Proposer) {
		if name != "" {
			p.placeholder = name
		}
	}
}

// WithCalendar bounds time candidates to the period table and to the weekday
// set of the timetable being moved. A zero Days keeps the proposer's default.
func WithCalendar(cal Calendar) ProposerOption {
	return func(p *Proposer) {
		if cal.Days == 0 {
			cal.Days = p.calendar.Days
		}
		p.calendar = cal
	}
}

// NewProposer builds a proposer over an optional venue catalog and the weekday
// set used for cyclic day moves.
func NewProposer(catalog *models.VenueCatalog, days models.WeekdaySet, opts ...ProposerOption) *Proposer {
	p := &Proposer{
		catalog:     catalog,
		calendar:    Calendar{Days: days.Normalize()},
		placeholder: DefaultPlaceholderVenue,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Placeholder returns the placeholder venue name.
func (p *Proposer) Placeholder() string {
	return p.placeholder
}

// Propose returns the ordered candidates for c. Venue changes come before time
// changes so that picking the first candidate is predictable. The oracle, when
// given, is used to prefer venues that are free at the conflicting time. Time
// candidates that would leave the calendar are dropped.
func (p *Proposer) Propose(c models.Conflict, oracle *Oracle) []models.Resolution {
	if len(c.Sessions) < 2 {
		return nil
	}
	first, second := c.Sessions[0], c.Sessions[1]

	var out []models.Resolution
	addTime := func(r models.Resolution) {
		if p.fits(first, r) {
			out = append(out, r)
		}
	}
	switch c.Type {
	case models.ConflictVenue:
		out = append(out, p.venueChange(first, oracle))
		addTime(p.shiftAfter(first, second))
	case models.ConflictLecturer:
		addTime(p.nextDay(first, second))
	case models.ConflictGroup:
		addTime(p.nextDay(first, second))
		out = append(out, models.Resolution{
			Action:      models.ActionSplitGroup,
			Description: fmt.Sprintf("Split group %s across two sessions", displayName(second.Group, second.GroupID)),
		})
	}
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}

func (p *Proposer) venueChange(target models.Session, oracle *Oracle) models.Resolution {
	if alt, ok := p.alternateVenue(target, oracle); ok {
		return models.Resolution{
			Action:      models.ActionChangeVenue,
			NewVenueID:  alt.ID,
			NewVenue:    alt.Name,
			Description: fmt.Sprintf("Move %s to %s (capacity %d)", displayName(target.ModuleName, target.ModuleID), alt.Name, alt.Capacity),
		}
	}
	return models.Resolution{
		Action:      models.ActionChangeVenue,
		NewVenue:    p.placeholder,
		Description: fmt.Sprintf("Move %s to venue %s", displayName(target.ModuleName, target.ModuleID), p.placeholder),
	}
}

// alternateVenue filters the catalog for venues of the same type with at least
// the original capacity. Free venues win over booked ones; ties go to the
// smallest adequate room, then name.
func (p *Proposer) alternateVenue(target models.Session, oracle *Oracle) (models.Venue, bool) {
	if p.catalog.Len() == 0 {
		return models.Venue{}, false
	}
	original, ok := p.catalog.ByID(target.VenueID)
	if !ok {
		original, ok = p.catalog.ByName(target.Venue)
	}
	if !ok {
		return models.Venue{}, false
	}

	var free, booked []models.Venue
	for _, v := range p.catalog.All() {
		if v.ID == original.ID || v.Type != original.Type || v.Capacity < original.Capacity {
			continue
		}
		if oracle == nil || oracle.IsVenueAvailable(v.ID, target.Day, target.Slot(), target.ID) {
			free = append(free, v)
		} else {
			booked = append(booked, v)
		}
	}
	sortVenues(free)
	sortVenues(booked)
	candidates := append(free, booked...)
	if len(candidates) == 0 {
		return models.Venue{}, false
	}
	return candidates[0], true
}

// shiftAfter keeps the day and moves to start where the first session ends,
// keeping the second session's duration.
func (p *Proposer) shiftAfter(first, second models.Session) models.Resolution {
	start := first.EndSlot
	end := start + second.Slot().Len()
	return models.Resolution{
		Action:       models.ActionChangeTime,
		NewStartSlot: models.IntPtr(start),
		NewEndSlot:   models.IntPtr(end),
		Description:  fmt.Sprintf("Reschedule to slots %d-%d on %s", start, end, dayLabel(first.Day)),
	}
}

// nextDay moves to the weekday after the reference session's day at the
// reference slots, cycling through the mover's timetable week.
func (p *Proposer) nextDay(mover, ref models.Session) models.Resolution {
	day := p.calendar.DaysFor(mover).Next(ref.Day)
	return models.Resolution{
		Action:       models.ActionChangeTime,
		NewDay:       models.IntPtr(day),
		NewStartSlot: models.IntPtr(ref.StartSlot),
		NewEndSlot:   models.IntPtr(ref.EndSlot),
		Description:  fmt.Sprintf("Reschedule to %s, same time", dayLabel(day)),
	}
}

// fits places r on a copy of the mover and checks it against the calendar.
func (p *Proposer) fits(mover models.Session, r models.Resolution) bool {
	if r.NewDay != nil {
		mover.Day = *r.NewDay
	}
	if r.NewStartSlot != nil {
		mover.StartSlot = *r.NewStartSlot
	}
	if r.NewEndSlot != nil {
		mover.EndSlot = *r.NewEndSlot
	}
	return p.calendar.Fits(mover) == nil
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	if id != "" {
		return id
	}
	return "session"
}

func dayLabel(day int) string {
	if name := models.DayName(day); name != "" {
		return name
	}
	return fmt.Sprintf("day %d", day)
}
