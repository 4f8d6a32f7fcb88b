package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/models"
)

var timetableRowColumns = []string{"id", "name", "department_id", "period", "version", "status", "days_per_week", "created_at", "updated_at"}

func TestTimetableRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetables WHERE 1=1 AND department_id = ? AND status = ? ORDER BY created_at DESC LIMIT 10 OFFSET 10")).
		WithArgs("cs", models.TimetableStatusDraft).
		WillReturnRows(sqlmock.NewRows(timetableRowColumns).
			AddRow("tt-1", "CS Semester 1", "cs", "2025-S1", 1, "DRAFT", 5, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetables WHERE 1=1 AND department_id = ? AND status = ?")).
		WithArgs("cs", models.TimetableStatusDraft).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	items, total, err := repo.List(context.Background(), models.TimetableFilter{DepartmentID: "cs", Status: models.TimetableStatusDraft, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 11, total)
	assert.Equal(t, models.TimetableStatusDraft, items[0].Status)
	assert.Equal(t, models.FiveDayWeek, items[0].Weekdays())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetables WHERE status IN (?, ?)")).
		WithArgs(models.TimetableStatusSubmitted, models.TimetableStatusPublished).
		WillReturnRows(sqlmock.NewRows(timetableRowColumns).
			AddRow("tt-1", "CS", "cs", "2025-S1", 2, "SUBMITTED", 5, now, now).
			AddRow("tt-2", "MA", "ma", "2025-S1", 3, "PUBLISHED", 5, now, now))

	items, err := repo.ListByStatus(context.Background(), models.TimetableStatusSubmitted, models.TimetableStatusPublished)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WithArgs(sqlmock.AnyArg(), "CS", "cs", "2025-S1", 1, models.TimetableStatusDraft, 5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	timetable := &models.Timetable{Name: "CS", DepartmentID: "cs", Period: "2025-S1", DaysPerWeek: 5}
	require.NoError(t, repo.Create(context.Background(), timetable))
	assert.NotEmpty(t, timetable.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables SET status = ?, version = version + 1")).
		WithArgs(models.TimetableStatusSubmitted, sqlmock.AnyArg(), "tt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "tt-1", models.TimetableStatusSubmitted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, type, capacity, created_at FROM venues ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "capacity", "created_at"}).
			AddRow("v-1", "A101", "lecture", 60, time.Now()))

	venues, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, 60, venues[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
