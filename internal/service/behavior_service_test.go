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
	"github.com/brightclass/class-rewards-api/internal/repository"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type mockBehaviorRepo struct {
	byID      map[string]*models.Behavior
	defaults  []models.Behavior
	created   []*models.Behavior
	upserted  []*models.Behavior
	deleted   []string
	names     map[string]map[string]struct{}
	createErr error
}

func (m *mockBehaviorRepo) ListByTeacher(ctx context.Context, teacherID string, behaviorType *models.BehaviorType) ([]models.Behavior, error) {
	var out []models.Behavior
	for _, b := range m.byID {
		if b.TeacherID != teacherID {
			continue
		}
		if behaviorType != nil && b.BehaviorType != *behaviorType {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBehaviorRepo) ListDefaults(ctx context.Context, sentinelTeacherID string) ([]models.Behavior, error) {
	return m.defaults, nil
}

func (m *mockBehaviorRepo) FindByID(ctx context.Context, id string) (*models.Behavior, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m *mockBehaviorRepo) FindOwned(ctx context.Context, id, teacherID string) (*models.Behavior, error) {
	b, ok := m.byID[id]
	if !ok || b.TeacherID != teacherID {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m *mockBehaviorRepo) Create(ctx context.Context, behavior *models.Behavior) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, behavior)
	return nil
}

func (m *mockBehaviorRepo) Upsert(ctx context.Context, behavior *models.Behavior) error {
	m.upserted = append(m.upserted, behavior)
	return nil
}

func (m *mockBehaviorRepo) Update(ctx context.Context, behavior *models.Behavior) error {
	return nil
}

func (m *mockBehaviorRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockBehaviorRepo) NamesByTeacher(ctx context.Context, teacherID string) (map[string]struct{}, error) {
	if names, ok := m.names[teacherID]; ok {
		return names, nil
	}
	return map[string]struct{}{}, nil
}

func newTestBehaviorService(behaviors *mockBehaviorRepo, teachers *mockTeacherRepo) *BehaviorService {
	return NewBehaviorService(behaviors, teachers, validator.New(), zap.NewNop(), "default@teacher.com")
}

func TestBehaviorServiceCreateDuplicateNameConflicts(t *testing.T) {
	teachers := &mockTeacherRepo{byEmail: map[string]*models.Teacher{
		"a@school.test": {ID: "t1", Email: "a@school.test"},
	}}
	behaviors := &mockBehaviorRepo{createErr: repository.ErrDuplicateKey}
	svc := newTestBehaviorService(behaviors, teachers)

	_, err := svc.Create(context.Background(), "t1", models.BehaviorCreateRequest{Name: "Participate"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestBehaviorServiceCreateRejectsBadType(t *testing.T) {
	svc := newTestBehaviorService(&mockBehaviorRepo{}, &mockTeacherRepo{})
	_, err := svc.Create(context.Background(), "t1", models.BehaviorCreateRequest{Name: "X", BehaviorType: "TEAM"})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestBehaviorServiceDeleteRefusesDefaults(t *testing.T) {
	behaviors := &mockBehaviorRepo{byID: map[string]*models.Behavior{
		"b1": {ID: "b1", Name: "Participate", TeacherID: "sentinel", IsDefault: true},
	}}
	svc := newTestBehaviorService(behaviors, &mockTeacherRepo{})

	err := svc.Delete(context.Background(), "t1", "b1")
	assert.Equal(t, 403, appErrors.FromError(err).Status)
	assert.Empty(t, behaviors.deleted)
}

func TestBehaviorServiceDeleteRefusesForeignRows(t *testing.T) {
	behaviors := &mockBehaviorRepo{byID: map[string]*models.Behavior{
		"b1": {ID: "b1", Name: "Participate", TeacherID: "t2"},
	}}
	svc := newTestBehaviorService(behaviors, &mockTeacherRepo{})

	err := svc.Delete(context.Background(), "t1", "b1")
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestBehaviorServiceDeleteRemovesOwnedCopy(t *testing.T) {
	behaviors := &mockBehaviorRepo{byID: map[string]*models.Behavior{
		"b1": {ID: "b1", Name: "Participate", TeacherID: "t1"},
	}}
	svc := newTestBehaviorService(behaviors, &mockTeacherRepo{})

	require.NoError(t, svc.Delete(context.Background(), "t1", "b1"))
	assert.Equal(t, []string{"b1"}, behaviors.deleted)
}

func TestBehaviorServiceSeedDefaultsCreatesSentinelAndCatalog(t *testing.T) {
	teachers := &mockTeacherRepo{}
	behaviors := &mockBehaviorRepo{}
	svc := newTestBehaviorService(behaviors, teachers)

	require.NoError(t, svc.SeedDefaults(context.Background()))

	require.Len(t, teachers.created, 1)
	assert.Equal(t, "default@teacher.com", teachers.created[0].Email)

	assert.Len(t, behaviors.upserted, 16)
	individual, group := 0, 0
	for _, b := range behaviors.upserted {
		assert.True(t, b.IsDefault)
		switch b.BehaviorType {
		case models.BehaviorTypeIndividual:
			individual++
		case models.BehaviorTypeGroupWork:
			group++
			require.NotNil(t, b.Praise)
			assert.NotEmpty(t, *b.Praise)
		}
	}
	assert.Equal(t, 8, individual)
	assert.Equal(t, 8, group)
}

func TestBehaviorServicePropagateIsIdempotent(t *testing.T) {
	praise := "Amazing teamwork!"
	teachers := &mockTeacherRepo{
		byEmail: map[string]*models.Teacher{
			"default@teacher.com": {ID: "sentinel", Email: "default@teacher.com"},
		},
		ids: []string{"t1"},
	}
	behaviors := &mockBehaviorRepo{
		defaults: []models.Behavior{
			{Name: "Working cooperatively (group)", IsDefault: true, BehaviorType: models.BehaviorTypeGroupWork, Praise: &praise},
			{Name: "Participate", IsDefault: true, BehaviorType: models.BehaviorTypeIndividual},
		},
		names: map[string]map[string]struct{}{"t1": {}},
	}
	svc := newTestBehaviorService(behaviors, teachers)

	require.NoError(t, svc.PropagateGroupWorkDefaults(context.Background()))
	require.Len(t, behaviors.upserted, 1)
	assert.Equal(t, "Working cooperatively (group)", behaviors.upserted[0].Name)
	assert.False(t, behaviors.upserted[0].IsDefault)

	// Second run sees the copy already present and adds nothing.
	behaviors.names["t1"]["Working cooperatively (group)"] = struct{}{}
	require.NoError(t, svc.PropagateGroupWorkDefaults(context.Background()))
	assert.Len(t, behaviors.upserted, 1)
}
