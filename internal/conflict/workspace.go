package conflict

import (
	"fmt"
	"sync"

	"github.com/noah-isme/unitime-api/internal/models"
)

// Workspace owns one editable session collection and the conflicts last
// detected on it. Every mutation goes through the workspace so the active
// conflict set never refers to sessions it does not hold.
type Workspace struct {
	mu         sync.RWMutex
	detector   *Detector
	applier    *Applier
	sessions   []models.Session
	conflicts  []models.Conflict
	generation int
}

// ApplyResult reports a committed resolution together with the fresh pass.
type ApplyResult struct {
	Session   models.Session    `json:"session"`
	Conflicts []models.Conflict `json:"conflicts"`
	Revision  string            `json:"revision"`
}

// NewWorkspace copies sessions and runs an initial detection pass.
func NewWorkspace(detector *Detector, applier *Applier, sessions []models.Session) *Workspace {
	if detector == nil {
		detector = NewDetector()
	}
	if applier == nil {
		applier = NewApplier(nil, detector.Proposer().Placeholder())
	}
	owned := make([]models.Session, len(sessions))
	copy(owned, sessions)
	ws := &Workspace{detector: detector, applier: applier, sessions: owned}
	ws.conflicts = ws.detector.Detect(ws.sessions)
	return ws
}

// Sessions returns a copy of the current collection.
func (w *Workspace) Sessions() []models.Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Session, len(w.sessions))
	copy(out, w.sessions)
	return out
}

// Conflicts returns a copy of the active conflict set.
func (w *Workspace) Conflicts() []models.Conflict {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Conflict, len(w.conflicts))
	copy(out, w.conflicts)
	return out
}

// Revision fingerprints the current collection.
func (w *Workspace) Revision() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Fingerprint(w.sessions)
}

// Generation counts committed mutations.
func (w *Workspace) Generation() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.generation
}

// Redetect recomputes the active set from the current sessions.
func (w *Workspace) Redetect() []models.Conflict {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conflicts = w.detector.Detect(w.sessions)
	out := make([]models.Conflict, len(w.conflicts))
	copy(out, w.conflicts)
	return out
}

// Resolve applies one candidate of an active conflict and drops that conflict
// from the active set. Other conflicts are left as they were until the next
// Redetect, so their session snapshots may be stale.
func (w *Workspace) Resolve(conflictID, resolutionID int) (models.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolveLocked(conflictID, resolutionID)
}

// Apply resolves and then re-detects, the usual interactive flow.
func (w *Workspace) Apply(conflictID, resolutionID int) (ApplyResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	updated, err := w.resolveLocked(conflictID, resolutionID)
	if err != nil {
		return ApplyResult{}, err
	}
	w.conflicts = w.detector.Detect(w.sessions)
	for _, s := range w.sessions {
		if s.ID == updated.ID {
			updated = s
			break
		}
	}
	out := make([]models.Conflict, len(w.conflicts))
	copy(out, w.conflicts)
	return ApplyResult{Session: updated, Conflicts: out, Revision: Fingerprint(w.sessions)}, nil
}

func (w *Workspace) resolveLocked(conflictID, resolutionID int) (models.Session, error) {
	pos := -1
	for i := range w.conflicts {
		if w.conflicts[i].ID == conflictID && !w.conflicts[i].Resolved {
			pos = i
			break
		}
	}
	if pos < 0 {
		return models.Session{}, fmt.Errorf("%w: %d", ErrConflictNotFound, conflictID)
	}
	c := w.conflicts[pos]
	r, ok := c.Resolution(resolutionID)
	if !ok {
		return models.Session{}, fmt.Errorf("%w: conflict %d resolution %d", ErrResolutionNotFound, conflictID, resolutionID)
	}
	sessions, updated, err := w.applier.Apply(c, r, w.sessions)
	if err != nil {
		return models.Session{}, err
	}
	w.sessions = sessions
	w.conflicts = append(w.conflicts[:pos:pos], w.conflicts[pos+1:]...)
	w.generation++
	return updated, nil
}
