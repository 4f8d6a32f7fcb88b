package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unitime-api/internal/models"
)

const sessionColumns = "id, timetable_id, module_id, module_name, lecturer_id, lecturer, venue_id, venue, group_id, group_name, day, start_slot, end_slot, category, color, has_conflict, created_at, updated_at"

const insertSessionQuery = `INSERT INTO sessions (id, timetable_id, module_id, module_name, lecturer_id, lecturer, venue_id, venue, group_id, group_name, day, start_slot, end_slot, category, color, has_conflict, created_at, updated_at) VALUES (:id, :timetable_id, :module_id, :module_name, :lecturer_id, :lecturer, :venue_id, :venue, :group_id, :group_name, :day, :start_slot, :end_slot, :category, :color, :has_conflict, :created_at, :updated_at)`

// SessionRepository provides persistence for timetable sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions matching the filter in a stable order, so detection
// over the result is reproducible.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	var conditions []string
	var args []interface{}

	if len(filter.TimetableIDs) > 0 {
		conditions = append(conditions, "timetable_id IN (?)")
		args = append(args, filter.TimetableIDs)
	}
	if filter.LecturerID != "" {
		conditions = append(conditions, "lecturer_id = ?")
		args = append(args, filter.LecturerID)
	}
	if filter.VenueID != "" {
		conditions = append(conditions, "venue_id = ?")
		args = append(args, filter.VenueID)
	}
	if filter.GroupID != "" {
		conditions = append(conditions, "group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.Day != nil {
		conditions = append(conditions, "day = ?")
		args = append(args, *filter.Day)
	}

	query := fmt.Sprintf("SELECT %s FROM sessions", sessionColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timetable_id ASC, day ASC, start_slot ASC, id ASC"

	if len(filter.TimetableIDs) > 0 {
		expanded, expandedArgs, err := sqlx.In(query, args...)
		if err != nil {
			return nil, fmt.Errorf("build session query: %w", err)
		}
		query, args = expanded, expandedArgs
	}

	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// FindByID loads a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM sessions WHERE id = ?", sessionColumns))
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create stores a new session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	prepareSession(session, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertSessionQuery, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// BulkCreate inserts many sessions within a transaction.
func (r *SessionRepository) BulkCreate(ctx context.Context, sessions []models.Session) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create sessions: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range sessions {
		prepareSession(&sessions[i], now)
		if _, err = sqlx.NamedExecContext(ctx, tx, insertSessionQuery, &sessions[i]); err != nil {
			return fmt.Errorf("bulk insert session: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create sessions: %w", err)
	}
	return nil
}

// Update rewrites a session's assignment and placement.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	if _, err := sqlx.NamedExecContext(ctx, r.db, updateSessionQuery, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

const updateSessionQuery = `UPDATE sessions SET module_id = :module_id, module_name = :module_name, lecturer_id = :lecturer_id, lecturer = :lecturer, venue_id = :venue_id, venue = :venue, group_id = :group_id, group_name = :group_name, day = :day, start_slot = :start_slot, end_slot = :end_slot, category = :category, color = :color, has_conflict = :has_conflict, updated_at = :updated_at WHERE id = :id`

// SaveResolution persists moved sessions and the conflict flags of a fresh
// detection pass atomically.
func (r *SessionRepository) SaveResolution(ctx context.Context, moved []models.Session, flags map[string]bool) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save resolution: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range moved {
		moved[i].UpdatedAt = now
		if _, err = sqlx.NamedExecContext(ctx, tx, updateSessionQuery, &moved[i]); err != nil {
			return fmt.Errorf("update moved session %s: %w", moved[i].ID, err)
		}
	}
	if err = updateFlags(ctx, tx, flags); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save resolution: %w", err)
	}
	return nil
}

// UpdateConflictFlags stores has_conflict for each session id.
func (r *SessionRepository) UpdateConflictFlags(ctx context.Context, flags map[string]bool) (err error) {
	if len(flags) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update conflict flags: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = updateFlags(ctx, tx, flags); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit conflict flags: %w", err)
	}
	return nil
}

// updateFlags issues one statement per state so the round trips do not grow
// with the number of sessions.
func updateFlags(ctx context.Context, tx *sqlx.Tx, flags map[string]bool) error {
	var flagged, clear []string
	for id, has := range flags {
		if has {
			flagged = append(flagged, id)
		} else {
			clear = append(clear, id)
		}
	}
	for _, group := range []struct {
		value bool
		ids   []string
	}{{true, flagged}, {false, clear}} {
		if len(group.ids) == 0 {
			continue
		}
		query, args, err := sqlx.In(`UPDATE sessions SET has_conflict = ? WHERE id IN (?)`, group.value, group.ids)
		if err != nil {
			return fmt.Errorf("build conflict flag update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("update conflict flags: %w", err)
		}
	}
	return nil
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func prepareSession(session *models.Session, now time.Time) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
}
