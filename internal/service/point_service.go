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

type pointRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Point, error)
	CreateGroupPoint(ctx context.Context, point *models.GroupPoint) error
	ListByGroup(ctx context.Context, groupID string) ([]models.GroupPoint, error)
	FindGroupPoint(ctx context.Context, id string) (*models.GroupPoint, error)
	UpdateGroupPoint(ctx context.Context, id string, points int, reason string) error
	DeleteGroupPoint(ctx context.Context, id string) error
}

type pointStudentRepository interface {
	FindWithOwner(ctx context.Context, id string) (*models.StudentOwnership, error)
}

type pointGroupWorkRepository interface {
	FindGroupContext(ctx context.Context, groupID string) (*models.GroupAwardContext, error)
}

// PointService exposes the individual ledger read-only and the group
// ledger in full.
type PointService struct {
	points     pointRepository
	students   pointStudentRepository
	groupWorks pointGroupWorkRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPointService constructs a PointService instance.
func NewPointService(points pointRepository, students pointStudentRepository, groupWorks pointGroupWorkRepository, validate *validator.Validate, logger *zap.Logger) *PointService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PointService{points: points, students: students, groupWorks: groupWorks, validator: validate, logger: logger}
}

// History returns a student's ledger, newest first. The student's class
// must belong to the caller.
func (s *PointService) History(ctx context.Context, teacherID, studentID string) ([]models.Point, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	student, err := s.students.FindWithOwner(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if student.ClassTeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another teacher's class")
	}

	points, err := s.points.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list points")
	}
	return points, nil
}

// GroupHistory returns a group's ledger, newest first. A group owned by
// another teacher reads as not found; a deleted group's history stays
// readable.
func (s *PointService) GroupHistory(ctx context.Context, teacherID, groupID string) ([]models.GroupPoint, error) {
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupId is required")
	}
	if err := s.checkGroupOwner(ctx, teacherID, groupID, true); err != nil {
		return nil, err
	}
	points, err := s.points.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group points")
	}
	return points, nil
}

// AppendGroupPoint adds a row to an existing, owned group's ledger.
func (s *PointService) AppendGroupPoint(ctx context.Context, teacherID string, req models.GroupPointRequest) (*models.GroupPoint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "group_id and points are required")
	}

	if err := s.checkGroupOwner(ctx, teacherID, req.GroupID, false); err != nil {
		return nil, err
	}

	point := &models.GroupPoint{
		GroupID:      req.GroupID,
		BehaviorID:   req.BehaviorID,
		Points:       req.Points,
		Reason:       req.Reason,
		BehaviorName: req.BehaviorName,
	}
	if err := s.points.CreateGroupPoint(ctx, point); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record group point")
	}
	return point, nil
}

// UpdateGroupPoint rewrites the points and reason of a group ledger row
// belonging to one of the caller's groups.
func (s *PointService) UpdateGroupPoint(ctx context.Context, teacherID, id string, points int, reason string) (*models.GroupPoint, error) {
	existing, err := s.points.FindGroupPoint(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group point not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group point")
	}
	if err := s.checkGroupOwner(ctx, teacherID, existing.GroupID, true); err != nil {
		return nil, err
	}

	if err := s.points.UpdateGroupPoint(ctx, id, points, reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group point not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group point")
	}
	point, err := s.points.FindGroupPoint(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group point")
	}
	return point, nil
}

// DeleteGroupPoint removes a group ledger row belonging to one of the
// caller's groups.
func (s *PointService) DeleteGroupPoint(ctx context.Context, teacherID, id string) error {
	existing, err := s.points.FindGroupPoint(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group point not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group point")
	}
	if err := s.checkGroupOwner(ctx, teacherID, existing.GroupID, true); err != nil {
		return err
	}

	if err := s.points.DeleteGroupPoint(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group point not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete group point")
	}
	return nil
}

// checkGroupOwner reports not-found when the group belongs to another
// teacher. With allowMissing set, a group that no longer exists passes:
// ledger rows outlive their group and stay manageable by the token holder.
func (s *PointService) checkGroupOwner(ctx context.Context, teacherID, groupID string, allowMissing bool) error {
	awardCtx, err := s.groupWorks.FindGroupContext(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if allowMissing {
				return nil
			}
			return appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch group")
	}
	if awardCtx.GroupWork.TeacherID != teacherID {
		return appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}
	return nil
}
