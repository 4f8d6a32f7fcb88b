package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var sessionRowColumns = []string{"id", "timetable_id", "module_id", "module_name", "lecturer_id", "lecturer", "venue_id", "venue", "group_id", "group_name", "day", "start_slot", "end_slot", "category", "color", "has_conflict", "created_at", "updated_at"}

func TestSessionRepositoryListByTimetables(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("s-1", "tt-1", "cs101", "Intro", "lec-1", "Smith", "v-1", "A101", "g-1", "CS1", 0, 2, 3, "Lecture", "", false, now, now).
		AddRow("s-2", "tt-2", "ma101", "Calculus", "lec-2", "Jones", "v-1", "A101", "g-2", "MA1", 0, 2, 3, "Lecture", "", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE timetable_id IN (?, ?) AND day = ? ORDER BY timetable_id ASC, day ASC, start_slot ASC, id ASC")).
		WithArgs("tt-1", "tt-2", 0).
		WillReturnRows(rows)

	day := 0
	sessions, err := repo.List(context.Background(), models.SessionFilter{TimetableIDs: []string{"tt-1", "tt-2"}, Day: &day})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "CS1", sessions[0].Group)
	assert.Equal(t, 2, sessions[1].StartSlot)
	assert.True(t, sessions[1].HasConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListWithoutFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions ORDER BY")).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	sessions, err := repo.List(context.Background(), models.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryBulkCreateRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.BulkCreate(context.Background(), []models.Session{
		{TimetableID: "tt-1", ModuleID: "cs101", Day: 0, StartSlot: 0, EndSlot: 1},
		{TimetableID: "tt-1", ModuleID: "cs102", Day: 0, StartSlot: 1, EndSlot: 2},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryBulkCreateAssignsIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WithArgs(sqlmock.AnyArg(), "tt-1", "cs101", "", "", "", "", "", "", "", 1, 0, 2, "", "", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sessions := []models.Session{{TimetableID: "tt-1", ModuleID: "cs101", Day: 1, StartSlot: 0, EndSlot: 2}}
	require.NoError(t, repo.BulkCreate(context.Background(), sessions))
	assert.NotEmpty(t, sessions[0].ID)
	assert.False(t, sessions[0].CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositorySaveResolution(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET module_id = ?")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET has_conflict = ? WHERE id IN (?)")).
		WithArgs(true, "s-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET has_conflict = ? WHERE id IN (?)")).
		WithArgs(false, "s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	moved := []models.Session{{ID: "s-1", TimetableID: "tt-1", ModuleID: "cs101", Venue: "B202", VenueID: "B202", Day: 0, StartSlot: 2, EndSlot: 3}}
	err := repo.SaveResolution(context.Background(), moved, map[string]bool{"s-1": false, "s-2": true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdateConflictFlagsSkipsEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	require.NoError(t, repo.UpdateConflictFlags(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdateConflictFlagsRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET has_conflict = ?")).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	assert.Error(t, repo.UpdateConflictFlags(context.Background(), map[string]bool{"s-1": true}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = ?")).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
