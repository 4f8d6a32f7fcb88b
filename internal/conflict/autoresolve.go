package conflict

import (
	"errors"
	"sort"
	"strings"

	"github.com/noah-isme/unitime-api/internal/models"
)

// AutoResolveMode selects how AutoResolve walks the conflict set.
type AutoResolveMode string

const (
	// ModeSinglePass applies the first candidate of every conflict found up
	// front, then detects once. Later conflicts may refer to sessions an
	// earlier fix already moved, and fresh collisions introduced by a fix
	// are only reported, not resolved.
	ModeSinglePass AutoResolveMode = "single_pass"
	// ModeIterative re-detects after every fix until nothing resolvable is
	// left or the iteration limit is hit.
	ModeIterative AutoResolveMode = "iterative"
)

// DefaultMaxIterations bounds iterative auto-resolution.
const DefaultMaxIterations = 50

// ParseAutoResolveMode maps a config or query value onto a mode.
func ParseAutoResolveMode(raw string) (AutoResolveMode, bool) {
	switch AutoResolveMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeSinglePass:
		return ModeSinglePass, true
	case ModeIterative:
		return ModeIterative, true
	}
	return "", false
}

// AppliedResolution records one fix committed by AutoResolve.
type AppliedResolution struct {
	ConflictID   int                     `json:"conflictId"`
	Type         models.ConflictType     `json:"type"`
	SessionID    string                  `json:"sessionId"`
	ResolutionID int                     `json:"resolutionId"`
	Action       models.ResolutionAction `json:"action"`
	Description  string                  `json:"description"`
}

// SkippedConflict records a conflict AutoResolve could not fix.
type SkippedConflict struct {
	ConflictID int                     `json:"conflictId"`
	Type       models.ConflictType     `json:"type"`
	SessionIDs []string                `json:"sessionIds"`
	Action     models.ResolutionAction `json:"action,omitempty"`
	Reason     string                  `json:"reason"`
}

// AutoResolveReport summarises an AutoResolve run.
type AutoResolveReport struct {
	Mode       AutoResolveMode     `json:"mode"`
	Applied    []AppliedResolution `json:"applied"`
	Skipped    []SkippedConflict   `json:"skipped"`
	Iterations int                 `json:"iterations"`
	Remaining  []models.Conflict   `json:"remaining"`
	Revision   string              `json:"revision"`
}

// AutoResolve applies first candidates without user input. A failed fix is
// recorded as skipped and never rolls back earlier ones.
func (w *Workspace) AutoResolve(mode AutoResolveMode, maxIterations int) AutoResolveReport {
	w.mu.Lock()
	defer w.mu.Unlock()

	report := AutoResolveReport{
		Mode:    mode,
		Applied: make([]AppliedResolution, 0),
		Skipped: make([]SkippedConflict, 0),
	}
	if mode == ModeIterative {
		w.autoResolveIterative(&report, maxIterations)
	} else {
		report.Mode = ModeSinglePass
		w.autoResolveSinglePass(&report)
	}

	w.conflicts = w.detector.Detect(w.sessions)
	report.Remaining = make([]models.Conflict, len(w.conflicts))
	copy(report.Remaining, w.conflicts)
	report.Revision = Fingerprint(w.sessions)
	return report
}

func (w *Workspace) autoResolveSinglePass(report *AutoResolveReport) {
	pending := make([]models.Conflict, len(w.conflicts))
	copy(pending, w.conflicts)
	report.Iterations = 1
	for _, c := range pending {
		if applied, ok := w.applyFirst(c, false, report); ok {
			report.Applied = append(report.Applied, applied)
		}
	}
}

func (w *Workspace) autoResolveIterative(report *AutoResolveReport, maxIterations int) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	// A fix that brings its own conflict back is not retried.
	attempted := make(map[string]bool)
	for report.Iterations < maxIterations {
		conflicts := w.detector.Detect(w.sessions)
		var next *models.Conflict
		for i := range conflicts {
			if !attempted[conflictKey(conflicts[i])] {
				next = &conflicts[i]
				break
			}
		}
		if next == nil {
			return
		}
		report.Iterations++
		attempted[conflictKey(*next)] = true
		if applied, ok := w.applyFirst(*next, true, report); ok {
			report.Applied = append(report.Applied, applied)
		}
	}
}

// applyFirst commits the first candidate of c. With skipUnsupported the
// first candidate the applier supports is used instead. Any other failure
// skips c.
func (w *Workspace) applyFirst(c models.Conflict, skipUnsupported bool, report *AutoResolveReport) (AppliedResolution, bool) {
	reason := "no candidate resolutions"
	var action models.ResolutionAction
	for _, r := range c.PossibleResolutions {
		action = models.NormalizeAction(r.Action)
		sessions, updated, err := w.applier.Apply(c, r, w.sessions)
		if skipUnsupported && errors.Is(err, ErrUnsupportedAction) {
			reason = err.Error()
			continue
		}
		if err != nil {
			reason = err.Error()
			break
		}
		w.sessions = sessions
		w.generation++
		return AppliedResolution{
			ConflictID:   c.ID,
			Type:         c.Type,
			SessionID:    updated.ID,
			ResolutionID: r.ID,
			Action:       action,
			Description:  r.Description,
		}, true
	}
	report.Skipped = append(report.Skipped, SkippedConflict{
		ConflictID: c.ID,
		Type:       c.Type,
		SessionIDs: c.SessionIDs(),
		Action:     action,
		Reason:     reason,
	})
	return AppliedResolution{}, false
}

// conflictKey identifies a conflict across passes, where numeric ids restart.
func conflictKey(c models.Conflict) string {
	ids := c.SessionIDs()
	sort.Strings(ids)
	return string(c.Type) + ":" + strings.Join(ids, ",")
}
