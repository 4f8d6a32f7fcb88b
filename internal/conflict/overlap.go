// Package conflict detects resource collisions in a timetable, proposes
// resolutions for them, applies an accepted resolution and answers availability
// queries while sessions are being authored.
//
// Everything in this package is synchronous and works on a point-in-time copy of
// the session collection handed to it. Callers own persistence and must run
// re-detection after every session mutation.
package conflict

import "github.com/noah-isme/unitime-api/internal/models"

// Overlaps reports whether two sessions occupy overlapping time on the same day.
//
// Slot ranges are compared as half-open intervals, so touching endpoints do not
// overlap and full containment does. Sessions that only carry a period label
// (no valid range) fall back to exact label equality. A session never overlaps
// itself.
func Overlaps(a, b models.Session) bool {
	if a.ID != "" && a.ID == b.ID {
		return false
	}
	if a.Day != b.Day {
		return false
	}
	ra, rb := a.Slot(), b.Slot()
	if ra.Valid() && rb.Valid() {
		return ra.Intersects(rb)
	}
	return a.TimeSlot != "" && a.TimeSlot == b.TimeSlot
}

// sameResource compares resource ids. Missing ids never match each other.
func sameResource(a, b string) bool {
	return a != "" && a == b
}
