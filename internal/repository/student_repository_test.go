package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email"}).
		AddRow(1, "Alice Chen", "achen@univ.edu").
		AddRow(2, "Bob Martinez", "bmart@univ.edu")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email FROM students ORDER BY id ASC")).WillReturnRows(rows)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "achen@univ.edu", students[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(4, "David Kim", "dkim@univ.edu"))

	student, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "David Kim", student.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
