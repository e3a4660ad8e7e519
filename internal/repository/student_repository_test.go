package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/class-rewards-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "points", "class_id", "created_at", "updated_at"}).
		AddRow("s1", "Sam", 3, "c1", time.Now(), time.Now()).
		AddRow("s2", "Alex", 0, "c1", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, points, class_id, created_at, updated_at").
		WithArgs("c1").
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, "Sam", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindWithOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "points", "class_id", "created_at", "updated_at", "class_teacher_id"}).
		AddRow("s1", "Sam", 3, "c1", time.Now(), time.Now(), "t1")
	mock.ExpectQuery(regexp.QuoteMeta("JOIN classes c ON c.id = s.class_id WHERE s.id = $1")).
		WithArgs("s1").
		WillReturnRows(rows)

	student, err := repo.FindWithOwner(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "t1", student.ClassTeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAwardPointsCommitsBalanceAndLedger(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET points = points + $2")).
		WithArgs("s1", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO points").
		WithArgs(sqlmock.AnyArg(), "s1", nil, 3, "Great focus", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AwardPoints(context.Background(), &models.Point{
		StudentID: "s1",
		Points:    3,
		Reason:    "Great focus",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAwardPointsUnknownStudentRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET points = points + $2")).
		WithArgs("missing", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.AwardPoints(context.Background(), &models.Point{StudentID: "missing", Points: 3})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryLeaderboardOrdersByPoints(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "points", "class_id", "created_at", "updated_at"}).
		AddRow("s2", "Alex", 10, "c1", time.Now(), time.Now()).
		AddRow("s1", "Sam", 3, "c1", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY points DESC, name ASC")).
		WithArgs("c1").
		WillReturnRows(rows)

	students, err := repo.Leaderboard(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 10, students[0].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}
