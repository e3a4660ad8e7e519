package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type groupWorkRepository interface {
	CreateAggregate(ctx context.Context, groupWork *models.GroupWork, groups []models.GroupSpec, behaviors []models.GroupWorkBehavior) error
	ReplaceAggregate(ctx context.Context, groupWorkID, name string, groups []models.GroupSpec, behaviors []models.GroupWorkBehavior) error
	FindOwned(ctx context.Context, id, teacherID string) (*models.GroupWork, error)
	GetDetail(ctx context.Context, id string) (*models.GroupWorkDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.GroupWorkDetail, error)
	Delete(ctx context.Context, id string) error
	Leaderboard(ctx context.Context, groupWorkID string) ([]models.GroupStanding, error)
}

// GroupWorkService manages the group-work aggregate lifecycle. Edits are
// wholesale: the children are rebuilt from the payload in one transaction.
type GroupWorkService struct {
	groupWorks groupWorkRepository
	classes    studentClassRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewGroupWorkService constructs a GroupWorkService instance.
func NewGroupWorkService(groupWorks groupWorkRepository, classes studentClassRepository, validate *validator.Validate, logger *zap.Logger) *GroupWorkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GroupWorkService{groupWorks: groupWorks, classes: classes, validator: validate, logger: logger}
}

// Create builds the aggregate atomically and returns it hydrated.
func (s *GroupWorkService) Create(ctx context.Context, teacherID string, req models.GroupWorkRequest) (*models.GroupWorkDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, class_id, groups, and behavior_ids are required")
	}

	if _, err := s.classes.FindOwned(ctx, req.ClassID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	groupWork := &models.GroupWork{
		Name:      req.Name,
		TeacherID: teacherID,
		ClassID:   &req.ClassID,
	}
	behaviors := behaviorAssociations(req.BehaviorIDs, req.BehaviorPraises)
	if err := s.groupWorks.CreateAggregate(ctx, groupWork, req.Groups, behaviors); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group work")
	}

	detail, err := s.groupWorks.GetDetail(ctx, groupWork.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group work")
	}
	return detail, nil
}

// List returns the teacher's aggregates, hydrated, newest first.
func (s *GroupWorkService) List(ctx context.Context, teacherID string) ([]models.GroupWorkDetail, error) {
	details, err := s.groupWorks.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group works")
	}
	return details, nil
}

// Get returns one hydrated aggregate owned by the teacher.
func (s *GroupWorkService) Get(ctx context.Context, teacherID, id string) (*models.GroupWorkDetail, error) {
	if _, err := s.groupWorks.FindOwned(ctx, id, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group work not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group work")
	}
	detail, err := s.groupWorks.GetDetail(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group work")
	}
	return detail, nil
}

// Update replaces the aggregate's children with the payload and renames
// it when a name is given; an omitted name keeps the stored one. Award
// history is not touched.
func (s *GroupWorkService) Update(ctx context.Context, teacherID, id string, req models.GroupWorkUpdateRequest) (*models.GroupWorkDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group work payload")
	}

	groupWork, err := s.groupWorks.FindOwned(ctx, id, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group work not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group work")
	}

	name := req.Name
	if name == "" {
		name = groupWork.Name
	}

	behaviors := behaviorAssociations(req.BehaviorIDs, req.BehaviorPraises)
	if err := s.groupWorks.ReplaceAggregate(ctx, id, name, req.Groups, behaviors); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group work")
	}

	detail, err := s.groupWorks.GetDetail(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group work")
	}
	return detail, nil
}

// Delete removes the aggregate and its children. Awards survive.
func (s *GroupWorkService) Delete(ctx context.Context, teacherID, id string) error {
	if _, err := s.groupWorks.FindOwned(ctx, id, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group work not found or access denied")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group work")
	}
	if err := s.groupWorks.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete group work")
	}
	return nil
}

// Leaderboard ranks the aggregate's groups by summed award points.
func (s *GroupWorkService) Leaderboard(ctx context.Context, teacherID, id string) ([]models.GroupStanding, error) {
	if _, err := s.groupWorks.FindOwned(ctx, id, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group work not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group work")
	}
	standings, err := s.groupWorks.Leaderboard(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build leaderboard")
	}
	return standings, nil
}

func behaviorAssociations(behaviorIDs []string, praises map[string]*string) []models.GroupWorkBehavior {
	assocs := make([]models.GroupWorkBehavior, 0, len(behaviorIDs))
	for _, behaviorID := range behaviorIDs {
		assocs = append(assocs, models.GroupWorkBehavior{
			BehaviorID: behaviorID,
			Praise:     praises[behaviorID],
		})
	}
	return assocs
}
