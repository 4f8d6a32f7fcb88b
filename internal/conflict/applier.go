package conflict

import (
	"errors"
	"fmt"

	"github.com/noah-isme/unitime-api/internal/models"
)

var (
	// ErrConflictNotFound is returned for conflict ids outside the active set,
	// including conflicts that were already resolved.
	ErrConflictNotFound = errors.New("conflict not found in the active set")
	// ErrResolutionNotFound is returned when the conflict has no such candidate.
	ErrResolutionNotFound = errors.New("resolution not found for conflict")
	// ErrUnsupportedAction is returned for actions with no defined mutation.
	ErrUnsupportedAction = errors.New("resolution action is not supported")
	// ErrInvalidResolution is returned when a resolution's payload is malformed
	// or would place the session outside its calendar.
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrSessionNotFound is returned when the conflict's target session is no
	// longer in the collection.
	ErrSessionNotFound = errors.New("target session not found")
)

// Applier commits resolutions against a session collection.
type Applier struct {
	catalog     *models.VenueCatalog
	placeholder string
	calendar    Calendar
}

// NewApplier builds an applier. The catalog resolves venue ids from names; the
// placeholder venue is treated as unassigned.
func NewApplier(catalog *models.VenueCatalog, placeholder string) *Applier {
	if placeholder == "" {
		placeholder = DefaultPlaceholderVenue
	}
	return &Applier{catalog: catalog, placeholder: placeholder}
}

// WithCalendar makes time changes respect the period table and the weekday
// set of the moved session's timetable.
func (ap *Applier) WithCalendar(cal Calendar) *Applier {
	ap.calendar = cal
	return ap
}

// Apply returns a copy of sessions with the resolution applied to the first
// session of the conflict, plus the mutated session. Only that session moves;
// the other side of the conflict is the reference booking and stays put.
// HasConflict is cleared optimistically and is corrected by the next Detect.
func (ap *Applier) Apply(c models.Conflict, r models.Resolution, sessions []models.Session) ([]models.Session, models.Session, error) {
	if len(c.Sessions) == 0 {
		return nil, models.Session{}, fmt.Errorf("%w: conflict %d has no sessions", ErrInvalidResolution, c.ID)
	}
	action := models.NormalizeAction(r.Action)
	if action == models.ActionSplitGroup || action == models.ActionCancel {
		return nil, models.Session{}, fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
	}
	if err := r.Validate(); err != nil {
		return nil, models.Session{}, fmt.Errorf("%w: %v", ErrInvalidResolution, err)
	}

	targetID := c.Sessions[0].ID
	idx := -1
	for i := range sessions {
		if sessions[i].ID == targetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, models.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, targetID)
	}

	updated := make([]models.Session, len(sessions))
	copy(updated, sessions)
	target := updated[idx]

	switch action {
	case models.ActionChangeVenue:
		target.VenueID, target.Venue = ap.resolveVenue(r)
	case models.ActionChangeTime:
		if r.NewDay != nil {
			target.Day = *r.NewDay
		}
		if r.NewStartSlot != nil {
			target.StartSlot = *r.NewStartSlot
		}
		if r.NewEndSlot != nil {
			target.EndSlot = *r.NewEndSlot
		}
		if err := ap.calendar.Fits(target); err != nil {
			return nil, models.Session{}, fmt.Errorf("%w: %v", ErrInvalidResolution, err)
		}
		// The label no longer describes the new range; the boundary re-derives it.
		target.TimeSlot = ""
	}

	target.HasConflict = false
	updated[idx] = target
	return updated, target, nil
}

// resolveVenue returns the (id, name) a changeVenue resolution points to. When
// the catalog cannot supply an id the name doubles as the id, except for the
// placeholder which leaves the session without a venue.
func (ap *Applier) resolveVenue(r models.Resolution) (string, string) {
	id, name := r.NewVenueID, r.NewVenue
	if id != "" && name == "" {
		if v, ok := ap.catalog.ByID(id); ok {
			name = v.Name
		}
	}
	if id == "" && name != "" {
		if v, ok := ap.catalog.ByName(name); ok {
			id = v.ID
		} else if name != ap.placeholder {
			id = name
		}
	}
	return id, name
}
