package conflict

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/noah-isme/unitime-api/internal/models"
)

// Detector finds every pairwise resource collision in a session collection.
type Detector struct {
	severity SeverityTable
	proposer *Proposer
}

// Option customises a Detector.
type Option func(*Detector)

// WithSeverity sets the priority table.
func WithSeverity(table SeverityTable) Option {
	return func(d *Detector) {
		if table != nil {
			d.severity = table
		}
	}
}

// WithProposer sets the resolution proposer attached to every conflict.
func WithProposer(p *Proposer) Option {
	return func(d *Detector) {
		if p != nil {
			d.proposer = p
		}
	}
}

// NewDetector builds a detector using department severity and a catalog-less
// five day proposer unless overridden.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		severity: DepartmentSeverity(),
		proposer: NewProposer(nil, models.FiveDayWeek),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Proposer exposes the detector's proposer.
func (d *Detector) Proposer() *Proposer {
	return d.proposer
}

// Detect compares every unordered pair (i ascending, then j > i) and emits one
// conflict per shared resource, in venue, lecturer, group order. Conflict ids
// count from 1 within this pass only.
//
// HasConflict on the given sessions is recomputed: cleared first, then set on
// both sides of every emitted conflict. The slice must not be mutated by
// anyone else while Detect runs.
func (d *Detector) Detect(sessions []models.Session) []models.Conflict {
	for i := range sessions {
		sessions[i].HasConflict = false
	}

	var oracle *Oracle
	conflicts := make([]models.Conflict, 0)
	nextID := 1
	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			if !Overlaps(a, b) {
				continue
			}
			var types []models.ConflictType
			if sameResource(a.VenueID, b.VenueID) {
				types = append(types, models.ConflictVenue)
			}
			if sameResource(a.LecturerID, b.LecturerID) {
				types = append(types, models.ConflictLecturer)
			}
			if sameResource(a.GroupID, b.GroupID) {
				types = append(types, models.ConflictGroup)
			}
			if len(types) == 0 {
				continue
			}

			sessions[i].HasConflict = true
			sessions[j].HasConflict = true
			if oracle == nil {
				oracle = NewOracle(sessions)
			}
			for _, ct := range types {
				c := models.Conflict{
					ID:       nextID,
					Type:     ct,
					Priority: d.severity.Priority(ct),
					Sessions: []models.Session{sessions[i], sessions[j]},
					Details:  describe(ct, sessions[i], sessions[j]),
				}
				c.PossibleResolutions = d.proposer.Propose(c, oracle)
				conflicts = append(conflicts, c)
				nextID++
			}
		}
	}
	return conflicts
}

func describe(ct models.ConflictType, a, b models.Session) string {
	when := fmt.Sprintf("%s %s", dayLabel(a.Day), slotLabel(a))
	first := displayName(a.ModuleName, a.ID)
	second := displayName(b.ModuleName, b.ID)
	switch ct {
	case models.ConflictVenue:
		return fmt.Sprintf("Venue %s is double-booked on %s by %s and %s", displayName(a.Venue, a.VenueID), when, first, second)
	case models.ConflictLecturer:
		return fmt.Sprintf("Lecturer %s teaches %s and %s at the same time on %s", displayName(a.Lecturer, a.LecturerID), first, second, when)
	case models.ConflictGroup:
		return fmt.Sprintf("Group %s attends %s and %s at the same time on %s", displayName(a.Group, a.GroupID), first, second, when)
	}
	return fmt.Sprintf("%s conflict between %s and %s on %s", ct, first, second, when)
}

func slotLabel(s models.Session) string {
	if s.TimeSlot != "" {
		return s.TimeSlot
	}
	return "slots " + s.Slot().String()
}

// Fingerprint summarises the identity and placement of every session, in order.
// Two snapshots with the same fingerprint yield the same conflicts with the same
// ids, so callers use it to reject resolutions that refer to an older pass.
func Fingerprint(sessions []models.Session) string {
	h := sha256.New()
	for _, s := range sessions {
		for _, field := range []string{
			s.ID, s.VenueID, s.Venue, s.LecturerID, s.GroupID,
			strconv.Itoa(s.Day), strconv.Itoa(s.StartSlot), strconv.Itoa(s.EndSlot),
		} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
