package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type mockFullClassRepo struct {
	byID    map[string]*models.Class
	details map[string][]models.ClassDetail
	created []*models.Class
	deleted []string
}

func (m *mockFullClassRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassDetail, error) {
	return m.details[teacherID], nil
}

func (m *mockFullClassRepo) FindOwned(ctx context.Context, id, teacherID string) (*models.Class, error) {
	c, ok := m.byID[id]
	if !ok || c.TeacherID != teacherID {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockFullClassRepo) Create(ctx context.Context, class *models.Class) error {
	class.ID = "class-new"
	m.created = append(m.created, class)
	return nil
}

func (m *mockFullClassRepo) Update(ctx context.Context, class *models.Class) error {
	return nil
}

func (m *mockFullClassRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestClassCreateAssignsOwner(t *testing.T) {
	repo := &mockFullClassRepo{}
	svc := NewClassService(repo, nil, nil, nil)

	class, err := svc.Create(context.Background(), "t1", models.ClassRequest{Name: "Grade 3B"})
	require.NoError(t, err)
	assert.Equal(t, "t1", class.TeacherID)
	assert.Equal(t, "class-new", class.ID)
}

func TestClassCreateRequiresName(t *testing.T) {
	svc := NewClassService(&mockFullClassRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), "t1", models.ClassRequest{})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestClassUpdateForeignClassIsNotFound(t *testing.T) {
	repo := &mockFullClassRepo{byID: map[string]*models.Class{
		"c1": {ID: "c1", Name: "Grade 3B", TeacherID: "t2"},
	}}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "t1", "c1", models.ClassRequest{Name: "Grade 4A"})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestClassUpdateRewritesNameAndDescription(t *testing.T) {
	repo := &mockFullClassRepo{byID: map[string]*models.Class{
		"c1": {ID: "c1", Name: "Grade 3B", TeacherID: "t1"},
	}}
	svc := NewClassService(repo, nil, nil, nil)

	class, err := svc.Update(context.Background(), "t1", "c1", models.ClassRequest{
		Name:        "Grade 4A",
		Description: strPtr("Afternoon class"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grade 4A", class.Name)
	require.NotNil(t, class.Description)
	assert.Equal(t, "Afternoon class", *class.Description)
}

func TestClassDeleteInvalidatesLeaderboard(t *testing.T) {
	repo := &mockFullClassRepo{byID: map[string]*models.Class{
		"c1": {ID: "c1", Name: "Grade 3B", TeacherID: "t1"},
	}}
	invalidator := &mockInvalidator{}
	svc := NewClassService(repo, invalidator, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "t1", "c1"))
	assert.Equal(t, []string{"c1"}, repo.deleted)
	assert.Equal(t, []string{"c1"}, invalidator.classes)

	err := svc.Delete(context.Background(), "t1", "ghost")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
