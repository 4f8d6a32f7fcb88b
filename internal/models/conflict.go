package models

import (
	"fmt"
	"strings"
)

// ConflictType identifies the resource two sessions collide on.
type ConflictType string

const (
	ConflictVenue    ConflictType = "VENUE"
	ConflictLecturer ConflictType = "LECTURER"
	ConflictGroup    ConflictType = "GROUP"
	// ConflictEquipment is reserved; detection never emits it.
	ConflictEquipment ConflictType = "EQUIPMENT"
)

// Priority ranks how urgently a conflict needs attention.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ParsePriority accepts HIGH, MEDIUM or LOW in any case.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(raw))) {
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	}
	return "", false
}

// Conflict is a collision between sessions that share a resource at overlapping
// time. Conflicts are recomputed on every detection pass; ID is only meaningful
// within the pass that produced it.
type Conflict struct {
	ID                  int          `json:"id"`
	Type                ConflictType `json:"type"`
	Priority            Priority     `json:"priority"`
	Sessions            []Session    `json:"sessions"`
	Details             string       `json:"details"`
	PossibleResolutions []Resolution `json:"possibleResolutions"`
	Resolved            bool         `json:"resolved"`
}

// SessionIDs lists the ids of the colliding sessions in order.
func (c Conflict) SessionIDs() []string {
	ids := make([]string, len(c.Sessions))
	for i, s := range c.Sessions {
		ids[i] = s.ID
	}
	return ids
}

// Resolution returns the candidate with the given id.
func (c Conflict) Resolution(id int) (Resolution, bool) {
	for _, r := range c.PossibleResolutions {
		if r.ID == id {
			return r, true
		}
	}
	return Resolution{}, false
}

// ResolutionAction is the remedy a resolution proposes.
type ResolutionAction string

const (
	ActionChangeVenue ResolutionAction = "changeVenue"
	ActionChangeTime  ResolutionAction = "changeTime"
	ActionSplitGroup  ResolutionAction = "splitGroup"
	ActionCancel      ResolutionAction = "cancel"

	// Synonyms used by the admin master timetable.
	ActionRelocate   ResolutionAction = "Relocate"
	ActionReschedule ResolutionAction = "Reschedule"
)

// NormalizeAction folds the admin synonyms onto the canonical actions.
func NormalizeAction(action ResolutionAction) ResolutionAction {
	switch strings.ToLower(string(action)) {
	case "changevenue", "relocate":
		return ActionChangeVenue
	case "changetime", "reschedule":
		return ActionChangeTime
	case "splitgroup":
		return ActionSplitGroup
	case "cancel":
		return ActionCancel
	}
	return action
}

// Resolution is one candidate remedy for a conflict. Only the payload of its
// action is populated.
type Resolution struct {
	ID           int              `json:"id"`
	Action       ResolutionAction `json:"action"`
	NewVenueID   string           `json:"newVenueId,omitempty"`
	NewVenue     string           `json:"newVenue,omitempty"`
	NewDay       *int             `json:"newDay,omitempty"`
	NewStartSlot *int             `json:"newStartSlot,omitempty"`
	NewEndSlot   *int             `json:"newEndSlot,omitempty"`
	Description  string           `json:"description"`
}

func (r Resolution) hasVenuePayload() bool {
	return r.NewVenue != "" || r.NewVenueID != ""
}

func (r Resolution) hasTimePayload() bool {
	return r.NewDay != nil || r.NewStartSlot != nil || r.NewEndSlot != nil
}

// Validate enforces that exactly one action kind's payload is present.
func (r Resolution) Validate() error {
	switch NormalizeAction(r.Action) {
	case ActionChangeVenue:
		if r.hasTimePayload() {
			return fmt.Errorf("changeVenue resolution must not carry day or slot fields")
		}
		if !r.hasVenuePayload() {
			return fmt.Errorf("changeVenue resolution requires a venue")
		}
	case ActionChangeTime:
		if r.hasVenuePayload() {
			return fmt.Errorf("changeTime resolution must not carry venue fields")
		}
		if !r.hasTimePayload() {
			return fmt.Errorf("changeTime resolution requires a day or slot")
		}
	case ActionSplitGroup, ActionCancel:
		if r.hasVenuePayload() || r.hasTimePayload() {
			return fmt.Errorf("%s resolution carries no payload", NormalizeAction(r.Action))
		}
	default:
		return fmt.Errorf("unknown resolution action %q", r.Action)
	}
	return nil
}

// IntPtr is a small helper for optional resolution fields.
func IntPtr(v int) *int {
	return &v
}
