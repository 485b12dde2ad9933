package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/timetable-scheduler/internal/models"
)

func newTimetableRunRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRunRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTimetableRunRepoMock(t)
	defer cleanup()
	repo := NewTimetableRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_runs")).
		WithArgs(sqlmock.AnyArg(), "digest-1", string(models.RunStatusQueued), int64(0), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.TimetableRun{InputDigest: "digest-1"}
	require.NoError(t, repo.Create(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRunRepositoryUpdateResult(t *testing.T) {
	db, mock, cleanup := newTimetableRunRepoMock(t)
	defer cleanup()
	repo := NewTimetableRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetable_runs")).
		WithArgs(string(models.RunStatusCompleted), int64(98000), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "run-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.TimetableRun{ID: "run-1", Status: models.RunStatusCompleted, BestFitness: 98000, Output: types.JSONText(`{}`)}
	require.NoError(t, repo.UpdateResult(context.Background(), run))
	assert.NotNil(t, run.FinishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRunRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newTimetableRunRepoMock(t)
	defer cleanup()
	repo := NewTimetableRunRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, input_digest, status, best_fitness, error_message, output, created_at, finished_at FROM timetable_runs WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRunRepositoryList(t *testing.T) {
	db, mock, cleanup := newTimetableRunRepoMock(t)
	defer cleanup()
	repo := NewTimetableRunRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_runs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, status, best_fitness, created_at FROM timetable_runs")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "best_fitness", "created_at"}).
			AddRow("run-1", string(models.RunStatusCompleted), int64(99500), time.Now()))

	runs, total, err := repo.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, runs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRunRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newTimetableRunRepoMock(t)
	defer cleanup()
	repo := NewTimetableRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_runs WHERE id = $1")).
		WithArgs("run-1").
		WillReturnResult(sqlmock.NewResult(1, 0))

	err := repo.Delete(context.Background(), "run-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
