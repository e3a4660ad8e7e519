package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/class-rewards-api/internal/badge"
	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type mockAwardRepo struct {
	created []*models.GroupWorkAward
	history []models.GroupWorkAwardDetail
}

func (m *mockAwardRepo) Create(ctx context.Context, award *models.GroupWorkAward) error {
	if award.ID == "" {
		award.ID = "award-1"
	}
	m.created = append(m.created, award)
	return nil
}

func (m *mockAwardRepo) ListByGroup(ctx context.Context, groupID string) ([]models.GroupWorkAwardDetail, error) {
	return m.history, nil
}

type mockGroupContextRepo struct {
	contexts map[string]*models.GroupAwardContext
}

func (m *mockGroupContextRepo) FindGroupContext(ctx context.Context, groupID string) (*models.GroupAwardContext, error) {
	awardCtx, ok := m.contexts[groupID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return awardCtx, nil
}

type mockAwardBehaviorRepo struct {
	byID map[string]*models.Behavior
}

func (m *mockAwardBehaviorRepo) FindByID(ctx context.Context, id string) (*models.Behavior, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

type mockPointSink struct {
	points  []*models.Point
	failFor map[string]error
}

func (m *mockPointSink) AwardPoints(ctx context.Context, point *models.Point) error {
	if err, ok := m.failFor[point.StudentID]; ok {
		return err
	}
	m.points = append(m.points, point)
	return nil
}

type mockInvalidator struct {
	classes []string
}

func (m *mockInvalidator) InvalidateClass(ctx context.Context, classID string) {
	m.classes = append(m.classes, classID)
}

func strPtr(s string) *string { return &s }

func groupContext(classID *string) *models.GroupAwardContext {
	return &models.GroupAwardContext{
		Group:          models.Group{ID: "g1", Name: "Team Red", GroupWorkID: "gw1"},
		GroupWork:      models.GroupWork{ID: "gw1", Name: "Science project", TeacherID: "t1", ClassID: classID},
		BehaviorPraise: map[string]*string{},
		MemberIDs:      []string{"s1", "s2", "s3"},
	}
}

func TestAwardUsesAssociationPraiseOverCallerPraise(t *testing.T) {
	awardCtx := groupContext(nil)
	awardCtx.BehaviorPraise["b1"] = strPtr("Amazing teamwork!")
	awards := &mockAwardRepo{}
	sink := &mockPointSink{}
	svc := NewAwardService(awards,
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": awardCtx}},
		&mockAwardBehaviorRepo{byID: map[string]*models.Behavior{
			"b1": {ID: "b1", Name: "Working cooperatively", BehaviorType: models.BehaviorTypeGroupWork},
		}},
		sink, nil, nil, nil)

	resp, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{
		GroupID:    "g1",
		Points:     5,
		BehaviorID: strPtr("b1"),
		Praise:     strPtr("caller praise"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Amazing teamwork!", resp.Praise)
}

func TestAwardFallsBackToCallerThenDefaultPraise(t *testing.T) {
	awardCtx := groupContext(nil)
	svc := NewAwardService(&mockAwardRepo{},
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": awardCtx}},
		&mockAwardBehaviorRepo{}, &mockPointSink{}, nil, nil, nil)

	resp, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{
		GroupID: "g1", Points: 2, Praise: strPtr("You rock!"),
	})
	require.NoError(t, err)
	assert.Equal(t, "You rock!", resp.Praise)

	// An empty caller praise is treated as absent.
	resp, err = svc.Award(context.Background(), "t1", models.GroupAwardRequest{
		GroupID: "g1", Points: 2, Praise: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Great work!", resp.Praise)
}

func TestAwardBadgeMatchesBehaviorType(t *testing.T) {
	awardCtx := groupContext(nil)
	svc := NewAwardService(&mockAwardRepo{},
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": awardCtx}},
		&mockAwardBehaviorRepo{byID: map[string]*models.Behavior{
			"b1": {ID: "b1", Name: "Participate", BehaviorType: models.BehaviorTypeIndividual},
		}},
		&mockPointSink{}, nil, nil, nil)

	// No behavior: group-work badge.
	resp, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{GroupID: "g1", Points: 1})
	require.NoError(t, err)
	assert.Contains(t, resp.Badge.BehaviorTypes, models.BehaviorTypeGroupWork)

	// Individual behavior drives an individual badge.
	resp, err = svc.Award(context.Background(), "t1", models.GroupAwardRequest{
		GroupID: "g1", Points: 1, BehaviorID: strPtr("b1"),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Badge.BehaviorTypes, models.BehaviorTypeIndividual)
	_, known := badge.ByID(resp.Badge.ID)
	assert.True(t, known)
}

func TestAwardFansOutToEveryMember(t *testing.T) {
	awardCtx := groupContext(strPtr("c1"))
	sink := &mockPointSink{}
	invalidator := &mockInvalidator{}
	svc := NewAwardService(&mockAwardRepo{},
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": awardCtx}},
		&mockAwardBehaviorRepo{}, sink, invalidator, nil, nil)

	_, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{
		GroupID: "g1", Points: 4, Praise: strPtr("Nice one"),
	})
	require.NoError(t, err)

	require.Len(t, sink.points, 3)
	for _, p := range sink.points {
		assert.Equal(t, 4, p.Points)
		assert.Equal(t, "Group work: Science project - Nice one", p.Reason)
		require.NotNil(t, p.BehaviorName)
		assert.Equal(t, "Group work", *p.BehaviorName)
	}
	assert.Equal(t, []string{"c1"}, invalidator.classes)
}

func TestAwardSurvivesMemberFailure(t *testing.T) {
	awardCtx := groupContext(nil)
	sink := &mockPointSink{failFor: map[string]error{"s2": assert.AnError}}
	awards := &mockAwardRepo{}
	svc := NewAwardService(awards,
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": awardCtx}},
		&mockAwardBehaviorRepo{}, sink, nil, nil, nil)

	resp, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{GroupID: "g1", Points: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, awards.created, 1)
	assert.Len(t, sink.points, 2)
}

func TestAwardUnknownGroupIsNotFound(t *testing.T) {
	svc := NewAwardService(&mockAwardRepo{}, &mockGroupContextRepo{}, &mockAwardBehaviorRepo{}, &mockPointSink{}, nil, nil, nil)

	_, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{GroupID: "missing", Points: 1})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestAwardGroupOfAnotherTeacherIsNotFound(t *testing.T) {
	awards := &mockAwardRepo{}
	svc := NewAwardService(awards,
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": groupContext(nil)}},
		&mockAwardBehaviorRepo{}, &mockPointSink{}, nil, nil, nil)

	_, err := svc.Award(context.Background(), "t2", models.GroupAwardRequest{GroupID: "g1", Points: 3})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	assert.Empty(t, awards.created)
}

func TestAwardHistoryHiddenFromOtherTeachers(t *testing.T) {
	awards := &mockAwardRepo{history: []models.GroupWorkAwardDetail{
		{GroupWorkAward: models.GroupWorkAward{ID: "a1", GroupID: "g1", Points: 5}},
	}}
	svc := NewAwardService(awards,
		&mockGroupContextRepo{contexts: map[string]*models.GroupAwardContext{"g1": groupContext(nil)}},
		&mockAwardBehaviorRepo{}, &mockPointSink{}, nil, nil, nil)

	history, err := svc.History(context.Background(), "t1", "g1")
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = svc.History(context.Background(), "t2", "g1")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestAwardHistorySurvivesGroupDeletion(t *testing.T) {
	awards := &mockAwardRepo{history: []models.GroupWorkAwardDetail{
		{GroupWorkAward: models.GroupWorkAward{ID: "a1", GroupID: "gone", Points: 5}},
	}}
	svc := NewAwardService(awards, &mockGroupContextRepo{},
		&mockAwardBehaviorRepo{}, &mockPointSink{}, nil, nil, nil)

	history, err := svc.History(context.Background(), "t1", "gone")
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestAwardRejectsNonPositivePoints(t *testing.T) {
	svc := NewAwardService(&mockAwardRepo{}, &mockGroupContextRepo{}, &mockAwardBehaviorRepo{}, &mockPointSink{}, nil, nil, nil)

	_, err := svc.Award(context.Background(), "t1", models.GroupAwardRequest{GroupID: "g1", Points: 0})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
