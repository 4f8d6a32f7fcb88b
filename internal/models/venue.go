package models

import (
	"strings"
	"time"
)

// Venue is a bookable room from the venue catalog.
type Venue struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// VenueCatalog is a read-only directory of venues keyed by id and name.
type VenueCatalog struct {
	venues []Venue
	byID   map[string]int
	byName map[string]int
}

// NewVenueCatalog indexes the given venues. Later duplicates of an id or name are ignored.
func NewVenueCatalog(venues []Venue) *VenueCatalog {
	c := &VenueCatalog{
		venues: make([]Venue, 0, len(venues)),
		byID:   make(map[string]int, len(venues)),
		byName: make(map[string]int, len(venues)),
	}
	for _, v := range venues {
		if _, dup := c.byID[v.ID]; dup && v.ID != "" {
			continue
		}
		idx := len(c.venues)
		c.venues = append(c.venues, v)
		if v.ID != "" {
			c.byID[v.ID] = idx
		}
		if key := nameKey(v.Name); key != "" {
			if _, seen := c.byName[key]; !seen {
				c.byName[key] = idx
			}
		}
	}
	return c
}

// All returns every venue in catalog order.
func (c *VenueCatalog) All() []Venue {
	if c == nil {
		return nil
	}
	out := make([]Venue, len(c.venues))
	copy(out, c.venues)
	return out
}

// ByID looks a venue up by id.
func (c *VenueCatalog) ByID(id string) (Venue, bool) {
	if c == nil || id == "" {
		return Venue{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Venue{}, false
	}
	return c.venues[idx], true
}

// ByName looks a venue up by display name, ignoring case and surrounding space.
func (c *VenueCatalog) ByName(name string) (Venue, bool) {
	if c == nil {
		return Venue{}, false
	}
	idx, ok := c.byName[nameKey(name)]
	if !ok {
		return Venue{}, false
	}
	return c.venues[idx], true
}

// Len reports the number of venues.
func (c *VenueCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.venues)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
