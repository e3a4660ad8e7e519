package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type mockPointRepo struct {
	byStudent map[string][]models.Point
	byGroup   map[string][]models.GroupPoint
	groupByID map[string]*models.GroupPoint
	created   []*models.GroupPoint
	deleted   []string
	updateErr error
}

func (m *mockPointRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Point, error) {
	return m.byStudent[studentID], nil
}

func (m *mockPointRepo) CreateGroupPoint(ctx context.Context, point *models.GroupPoint) error {
	point.ID = "gp-new"
	m.created = append(m.created, point)
	return nil
}

func (m *mockPointRepo) ListByGroup(ctx context.Context, groupID string) ([]models.GroupPoint, error) {
	return m.byGroup[groupID], nil
}

func (m *mockPointRepo) FindGroupPoint(ctx context.Context, id string) (*models.GroupPoint, error) {
	p, ok := m.groupByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPointRepo) UpdateGroupPoint(ctx context.Context, id string, points int, reason string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	p, ok := m.groupByID[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Points = points
	p.Reason = reason
	return nil
}

func (m *mockPointRepo) DeleteGroupPoint(ctx context.Context, id string) error {
	if _, ok := m.groupByID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.groupByID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestPointHistoryChecksStudentOwnership(t *testing.T) {
	points := &mockPointRepo{byStudent: map[string][]models.Point{
		"s1": {{ID: "p1", StudentID: "s1", Points: 3, Reason: "Great focus"}},
	}}
	students := &mockStudentRepo{byID: map[string]*models.StudentOwnership{
		"s1": ownedStudent("s1", "c1", "t1", 3),
	}}
	svc := NewPointService(points, students, &mockGroupContextRepo{}, validator.New(), zap.NewNop())

	history, err := svc.History(context.Background(), "t1", "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Great focus", history[0].Reason)

	_, err = svc.History(context.Background(), "t2", "s1")
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.History(context.Background(), "t1", "ghost")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestAppendGroupPointRequiresExistingGroup(t *testing.T) {
	points := &mockPointRepo{}
	groups := &mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{
		"g1": groupContext(nil),
	}}
	svc := NewPointService(points, &mockStudentRepo{}, groups, validator.New(), zap.NewNop())

	point, err := svc.AppendGroupPoint(context.Background(), "t1", models.GroupPointRequest{
		GroupID: "g1",
		Points:  -2,
		Reason:  "Talking over others",
	})
	require.NoError(t, err)
	assert.Equal(t, "gp-new", point.ID)
	assert.Equal(t, -2, point.Points)

	_, err = svc.AppendGroupPoint(context.Background(), "t1", models.GroupPointRequest{
		GroupID: "missing",
		Points:  1,
	})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestGroupLedgerHiddenFromOtherTeachers(t *testing.T) {
	points := &mockPointRepo{
		byGroup: map[string][]models.GroupPoint{
			"g1": {{ID: "gp1", GroupID: "g1", Points: 2}},
		},
		groupByID: map[string]*models.GroupPoint{
			"gp1": {ID: "gp1", GroupID: "g1", Points: 2},
		},
	}
	groups := &mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{
		"g1": groupContext(nil),
	}}
	svc := NewPointService(points, &mockStudentRepo{}, groups, validator.New(), zap.NewNop())

	history, err := svc.GroupHistory(context.Background(), "t1", "g1")
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = svc.GroupHistory(context.Background(), "t2", "g1")
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	_, err = svc.AppendGroupPoint(context.Background(), "t2", models.GroupPointRequest{
		GroupID: "g1",
		Points:  1,
	})
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	_, err = svc.UpdateGroupPoint(context.Background(), "t2", "gp1", 5, "revised")
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	err = svc.DeleteGroupPoint(context.Background(), "t2", "gp1")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	assert.Empty(t, points.deleted)
}

func TestGroupLedgerOutlivesDeletedGroup(t *testing.T) {
	points := &mockPointRepo{
		byGroup: map[string][]models.GroupPoint{
			"gone": {{ID: "gp1", GroupID: "gone", Points: 4}},
		},
		groupByID: map[string]*models.GroupPoint{
			"gp1": {ID: "gp1", GroupID: "gone", Points: 4},
		},
	}
	svc := NewPointService(points, &mockStudentRepo{}, &mockGroupContextRepo{}, validator.New(), zap.NewNop())

	history, err := svc.GroupHistory(context.Background(), "t1", "gone")
	require.NoError(t, err)
	require.Len(t, history, 1)

	require.NoError(t, svc.DeleteGroupPoint(context.Background(), "t1", "gp1"))
	assert.Equal(t, []string{"gp1"}, points.deleted)
}

func TestUpdateGroupPointRewritesRow(t *testing.T) {
	points := &mockPointRepo{groupByID: map[string]*models.GroupPoint{
		"gp1": {ID: "gp1", GroupID: "g1", Points: 2, Reason: "old"},
	}}
	svc := NewPointService(points, &mockStudentRepo{}, &mockGroupContextRepo{}, validator.New(), zap.NewNop())

	point, err := svc.UpdateGroupPoint(context.Background(), "t1", "gp1", 5, "revised")
	require.NoError(t, err)
	assert.Equal(t, 5, point.Points)
	assert.Equal(t, "revised", point.Reason)

	_, err = svc.UpdateGroupPoint(context.Background(), "t1", "missing", 5, "revised")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestDeleteGroupPoint(t *testing.T) {
	points := &mockPointRepo{groupByID: map[string]*models.GroupPoint{
		"gp1": {ID: "gp1", GroupID: "g1"},
	}}
	svc := NewPointService(points, &mockStudentRepo{}, &mockGroupContextRepo{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.DeleteGroupPoint(context.Background(), "t1", "gp1"))
	assert.Equal(t, []string{"gp1"}, points.deleted)

	err := svc.DeleteGroupPoint(context.Background(), "t1", "gp1")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
