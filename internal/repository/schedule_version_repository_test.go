package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/informs-api/internal/models"
)

func TestScheduleVersionRepositoryFindDefault(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY active DESC, id ASC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(3, "Spring", true))

	version, err := repo.FindDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version.ID)
	assert.True(t, version.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryCreateActiveDeactivatesOthers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_versions SET active = FALSE WHERE active")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO schedule_versions (name, active) VALUES ($1, $2) RETURNING id")).
		WithArgs("Final", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	version := &models.ScheduleVersion{Name: "Final", Active: true}
	require.NoError(t, repo.Create(context.Background(), version))
	assert.Equal(t, int64(2), version.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryCreateInactive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO schedule_versions").
		WithArgs("Draft", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	version := &models.ScheduleVersion{Name: "Draft"}
	require.NoError(t, repo.Create(context.Background(), version))
	assert.Equal(t, int64(4), version.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE version_id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_versions WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE version_id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_versions WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO schedule_versions").
		WithArgs("Copy", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("SELECT $1, exam_id, room_id, timeslot_id FROM schedules WHERE version_id = $2 ORDER BY id ASC")).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectCommit()

	version := &models.ScheduleVersion{Name: "Copy"}
	copied, err := repo.Duplicate(context.Background(), 1, version)
	require.NoError(t, err)
	assert.Equal(t, int64(10), copied)
	assert.Equal(t, int64(5), version.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryDuplicateRollsBackOnCopyFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO schedule_versions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.Duplicate(context.Background(), 1, &models.ScheduleVersion{Name: "Copy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy version schedules")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleVersionRepositoryUpdateActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_versions SET active = FALSE WHERE active AND id <> $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_versions SET name = $1, active = $2 WHERE id = $3")).
		WithArgs("Final", true, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), &models.ScheduleVersion{ID: 2, Name: "Final", Active: true}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
