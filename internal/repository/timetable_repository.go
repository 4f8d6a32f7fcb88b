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

const timetableColumns = "id, name, department_id, period, version, status, days_per_week, created_at, updated_at"

// TimetableRepository provides persistence for timetables.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns timetables with optional filtering and pagination.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error) {
	base := "FROM timetables WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, "department_id = ?")
		args = append(args, filter.DepartmentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", timetableColumns, base, size, offset)
	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) "+base), args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}

	return timetables, total, nil
}

// ListByStatus returns every timetable in one of the given states.
func (r *TimetableRepository) ListByStatus(ctx context.Context, statuses ...models.TimetableStatus) ([]models.Timetable, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM timetables WHERE status IN (?) ORDER BY department_id ASC, created_at ASC", timetableColumns), statuses)
	if err != nil {
		return nil, fmt.Errorf("build timetable status query: %w", err)
	}
	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list timetables by status: %w", err)
	}
	return timetables, nil
}

// FindByID loads a timetable by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM timetables WHERE id = ?", timetableColumns))
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Create stores a new timetable record.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now
	if timetable.Version == 0 {
		timetable.Version = 1
	}
	if timetable.Status == "" {
		timetable.Status = models.TimetableStatusDraft
	}

	const query = `INSERT INTO timetables (id, name, department_id, period, version, status, days_per_week, created_at, updated_at) VALUES (:id, :name, :department_id, :period, :version, :status, :days_per_week, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, timetable); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// UpdateStatus moves a timetable to a new lifecycle state and bumps its version.
func (r *TimetableRepository) UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error {
	query := r.db.Rebind(`UPDATE timetables SET status = ?, version = version + 1, updated_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update timetable status: %w", err)
	}
	return nil
}

// Touch bumps the timetable's updated_at after its sessions change.
func (r *TimetableRepository) Touch(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE timetables SET updated_at = ? WHERE id = ?`), time.Now().UTC(), id); err != nil {
		return fmt.Errorf("touch timetable: %w", err)
	}
	return nil
}

// Delete removes a timetable and, through the foreign key, its sessions.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM timetables WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	return nil
}
