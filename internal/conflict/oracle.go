package conflict

import (
	"sort"

	"github.com/noah-isme/unitime-api/internal/models"
)

// Oracle answers point availability questions over a session snapshot. It is
// consulted while a session is being authored, before it joins the schedule.
type Oracle struct {
	index *Index
}

// NewOracle indexes the sessions for availability lookups.
func NewOracle(sessions []models.Session) *Oracle {
	return &Oracle{index: NewIndex(sessions)}
}

// IsVenueAvailable reports whether no other session books the venue at that time.
func (o *Oracle) IsVenueAvailable(venueID string, day int, slot models.SlotRange, excludingSessionID string) bool {
	return o.IsAvailable(ResourceVenue, venueID, day, slot, excludingSessionID)
}

// IsLecturerAvailable reports whether the lecturer is free at that time.
func (o *Oracle) IsLecturerAvailable(lecturerID string, day int, slot models.SlotRange, excludingSessionID string) bool {
	return o.IsAvailable(ResourceLecturer, lecturerID, day, slot, excludingSessionID)
}

// IsGroupAvailable reports whether the student group is free at that time.
func (o *Oracle) IsGroupAvailable(groupID string, day int, slot models.SlotRange, excludingSessionID string) bool {
	return o.IsAvailable(ResourceGroup, groupID, day, slot, excludingSessionID)
}

// IsAvailable is the generic form of the three resource checks. An empty
// resource id is always available.
func (o *Oracle) IsAvailable(r Resource, id string, day int, slot models.SlotRange, excludingSessionID string) bool {
	return len(o.occupants(r, id, day, slot, excludingSessionID)) == 0
}

func (o *Oracle) occupants(r Resource, id string, day int, slot models.SlotRange, excludingSessionID string) []models.Session {
	if id == "" {
		return nil
	}
	var found []models.Session
	for _, s := range o.index.Lookup(r, id, day) {
		if excludingSessionID != "" && s.ID == excludingSessionID {
			continue
		}
		if s.Slot().Intersects(slot) {
			found = append(found, s)
		}
	}
	return found
}

// Clash is an existing session that blocks a candidate on one resource.
type Clash struct {
	Type    models.ConflictType `json:"type"`
	Session models.Session      `json:"session"`
}

// Clashes lists every existing session that would collide with candidate, in
// venue, lecturer, group order. The candidate's own id is excluded.
func (o *Oracle) Clashes(candidate models.Session) []Clash {
	var clashes []Clash
	for _, r := range []Resource{ResourceVenue, ResourceLecturer, ResourceGroup} {
		for _, s := range o.occupants(r, resourceID(candidate, r), candidate.Day, candidate.Slot(), candidate.ID) {
			clashes = append(clashes, Clash{Type: r.ConflictType(), Session: s})
		}
	}
	return clashes
}

// VenueQuery filters FreeVenues.
type VenueQuery struct {
	Day                int
	Slot               models.SlotRange
	Type               string
	MinCapacity        int
	ExcludingSessionID string
}

// FreeVenues returns catalog venues with no booking in the requested window,
// ordered by capacity then name.
func (o *Oracle) FreeVenues(catalog *models.VenueCatalog, q VenueQuery) []models.Venue {
	var free []models.Venue
	for _, v := range catalog.All() {
		if q.Type != "" && v.Type != q.Type {
			continue
		}
		if v.Capacity < q.MinCapacity {
			continue
		}
		if !o.IsVenueAvailable(v.ID, q.Day, q.Slot, q.ExcludingSessionID) {
			continue
		}
		free = append(free, v)
	}
	sortVenues(free)
	return free
}

func sortVenues(venues []models.Venue) {
	sort.SliceStable(venues, func(i, j int) bool {
		if venues[i].Capacity == venues[j].Capacity {
			return venues[i].Name < venues[j].Name
		}
		return venues[i].Capacity < venues[j].Capacity
	})
}
