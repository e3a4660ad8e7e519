package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/class-rewards-api/internal/models"
)

func TestGroupWorkRepositoryCreateAggregateIsTransactional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupWorkRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO group_works").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO groups").
		WithArgs(sqlmock.AnyArg(), "Team 1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "s2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO group_work_behaviors").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "b1", "Amazing teamwork!").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	praise := "Amazing teamwork!"
	classID := "c1"
	err := repo.CreateAggregate(context.Background(),
		&models.GroupWork{Name: "Science Fair", TeacherID: "t1", ClassID: &classID},
		[]models.GroupSpec{{Name: "Team 1", StudentIDs: []string{"s1", "s2"}}},
		[]models.GroupWorkBehavior{{BehaviorID: "b1", Praise: &praise}},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkRepositoryCreateAggregateRollsBackOnChildFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupWorkRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO group_works").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO groups").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateAggregate(context.Background(),
		&models.GroupWork{Name: "Science Fair", TeacherID: "t1"},
		[]models.GroupSpec{{Name: "Team 1"}},
		nil,
	)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkRepositoryReplaceAggregateRebuildsChildren(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupWorkRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE group_works SET name = $2")).
		WithArgs("gw1", "Science Fair v2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM group_members WHERE group_id IN")).
		WithArgs("gw1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM groups WHERE group_work_id = $1")).
		WithArgs("gw1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM group_work_behaviors WHERE group_work_id = $1")).
		WithArgs("gw1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO groups").
		WithArgs(sqlmock.AnyArg(), "Team 1", "gw1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "s2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAggregate(context.Background(), "gw1", "Science Fair v2",
		[]models.GroupSpec{{Name: "Team 1", StudentIDs: []string{"s2"}}}, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkRepositoryFindGroupContext(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupWorkRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM groups WHERE id = $1")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "group_work_id", "created_at"}).
			AddRow("g1", "Team 1", "gw1", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM group_works WHERE id = $1")).
		WithArgs("gw1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "teacher_id", "class_id", "created_at", "updated_at"}).
			AddRow("gw1", "Science Fair", "t1", "c1", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM group_work_behaviors WHERE group_work_id = $1")).
		WithArgs("gw1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_work_id", "behavior_id", "praise"}).
			AddRow("gb1", "gw1", "b1", "Amazing teamwork!"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id FROM group_members WHERE group_id = $1")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow("s1").AddRow("s2"))

	awardCtx, err := repo.FindGroupContext(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Science Fair", awardCtx.GroupWork.Name)
	assert.Equal(t, []string{"s1", "s2"}, awardCtx.MemberIDs)
	require.NotNil(t, awardCtx.BehaviorPraise["b1"])
	assert.Equal(t, "Amazing teamwork!", *awardCtx.BehaviorPraise["b1"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkRepositoryLeaderboard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupWorkRepository(db)

	rows := sqlmock.NewRows([]string{"group_id", "group_name", "total_points", "award_count"}).
		AddRow("g1", "Team 1", 12, 3).
		AddRow("g2", "Team 2", 5, 1)
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(a.points),0)")).
		WithArgs("gw1").
		WillReturnRows(rows)

	standings, err := repo.Leaderboard(context.Background(), "gw1")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, 12, standings[0].TotalPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}
