package conflict

import "github.com/noah-isme/unitime-api/internal/models"

// Resource names the kind of shared resource a session books.
type Resource string

const (
	ResourceVenue    Resource = "venue"
	ResourceLecturer Resource = "lecturer"
	ResourceGroup    Resource = "group"
)

// ParseResource accepts venue, lecturer or group.
func ParseResource(raw string) (Resource, bool) {
	switch Resource(raw) {
	case ResourceVenue, ResourceLecturer, ResourceGroup:
		return Resource(raw), true
	}
	return "", false
}

// ConflictType maps the resource to the conflict type raised when it is shared.
func (r Resource) ConflictType() models.ConflictType {
	switch r {
	case ResourceVenue:
		return models.ConflictVenue
	case ResourceLecturer:
		return models.ConflictLecturer
	default:
		return models.ConflictGroup
	}
}

func resourceID(s models.Session, r Resource) string {
	switch r {
	case ResourceVenue:
		return s.VenueID
	case ResourceLecturer:
		return s.LecturerID
	case ResourceGroup:
		return s.GroupID
	}
	return ""
}

type indexKey struct {
	resource Resource
	id       string
	day      int
}

// Index groups sessions by resource and day so point lookups only scan the
// sessions that could possibly collide.
type Index struct {
	buckets map[indexKey][]models.Session
}

// NewIndex builds an index over the sessions. Sessions without an id for a
// resource are not indexed under that resource.
func NewIndex(sessions []models.Session) *Index {
	ix := &Index{buckets: make(map[indexKey][]models.Session)}
	for _, s := range sessions {
		for _, r := range []Resource{ResourceVenue, ResourceLecturer, ResourceGroup} {
			id := resourceID(s, r)
			if id == "" {
				continue
			}
			key := indexKey{resource: r, id: id, day: s.Day}
			ix.buckets[key] = append(ix.buckets[key], s)
		}
	}
	return ix
}

// Lookup returns the sessions booking the resource on the given day.
func (ix *Index) Lookup(r Resource, id string, day int) []models.Session {
	if ix == nil || id == "" {
		return nil
	}
	return ix.buckets[indexKey{resource: r, id: id, day: day}]
}
