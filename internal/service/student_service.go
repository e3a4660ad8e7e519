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

type studentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
	FindWithOwner(ctx context.Context, id string) (*models.StudentOwnership, error)
	FindManyWithOwner(ctx context.Context, ids []string) ([]models.StudentOwnership, error)
	Create(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	AwardPoints(ctx context.Context, point *models.Point) error
}

type studentClassRepository interface {
	FindOwned(ctx context.Context, id, teacherID string) (*models.Class, error)
}

type studentBehaviorRepository interface {
	FindOwned(ctx context.Context, id, teacherID string) (*models.Behavior, error)
}

// leaderboardCacheInvalidator drops cached leaderboard payloads when the
// underlying standings change.
type leaderboardCacheInvalidator interface {
	InvalidateClass(ctx context.Context, classID string)
}

// StudentService manages rosters and the bulk individual point award.
type StudentService struct {
	students  studentRepository
	classes   studentClassRepository
	behaviors studentBehaviorRepository
	cache     leaderboardCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students studentRepository, classes studentClassRepository, behaviors studentBehaviorRepository, cache leaderboardCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, classes: classes, behaviors: behaviors, cache: cache, validator: validate, logger: logger}
}

// List returns the roster of an owned class.
func (s *StudentService) List(ctx context.Context, teacherID, classID string) ([]models.Student, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	if _, err := s.classes.FindOwned(ctx, classID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Create enrolls a student into an owned class with a zero balance.
func (s *StudentService) Create(ctx context.Context, teacherID string, req models.StudentCreateRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and class_id are required")
	}

	if _, err := s.classes.FindOwned(ctx, req.ClassID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	student := &models.Student{
		Name:    req.Name,
		Points:  0,
		ClassID: req.ClassID,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	if s.cache != nil {
		s.cache.InvalidateClass(ctx, req.ClassID)
	}
	return student, nil
}

// Delete removes a student. Ledger rows are retained; group memberships
// cascade away with the row.
func (s *StudentService) Delete(ctx context.Context, teacherID, id string) error {
	student, err := s.students.FindWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if student.ClassTeacherID != teacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "student belongs to another teacher's class")
	}

	if err := s.students.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if s.cache != nil {
		s.cache.InvalidateClass(ctx, student.ClassID)
	}
	return nil
}

// AwardPoints credits the same amount to each listed student. Every
// student gets its own transaction pairing the balance increment with a
// ledger row; a failed student is logged and skipped so the rest still
// receive their points.
func (s *StudentService) AwardPoints(ctx context.Context, teacherID string, req models.AwardPointsRequest) (*models.AwardPointsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student_ids and a positive points_to_add are required")
	}

	students, err := s.students.FindManyWithOwner(ctx, req.StudentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch students")
	}
	if len(students) != len(req.StudentIDs) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "one or more students not found")
	}
	for _, student := range students {
		if student.ClassTeacherID != teacherID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "one or more students belong to another teacher's class")
		}
	}

	var behaviorName *string
	if req.BehaviorID != nil {
		behavior, err := s.behaviors.FindOwned(ctx, *req.BehaviorID, teacherID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch behavior")
		}
		behaviorName = &behavior.Name
	}

	result := &models.AwardPointsResult{Updated: []models.Student{}}
	touchedClasses := map[string]struct{}{}
	for _, student := range students {
		point := &models.Point{
			StudentID:    student.ID,
			BehaviorID:   req.BehaviorID,
			Points:       req.PointsToAdd,
			Reason:       req.Reason,
			BehaviorName: behaviorName,
		}
		if err := s.students.AwardPoints(ctx, point); err != nil {
			s.logger.Error("failed to award points to student",
				zap.String("student_id", student.ID),
				zap.Error(err))
			result.Failed = append(result.Failed, student.ID)
			continue
		}
		updated := student.Student
		updated.Points += req.PointsToAdd
		result.Updated = append(result.Updated, updated)
		touchedClasses[student.ClassID] = struct{}{}
	}

	if s.cache != nil {
		for classID := range touchedClasses {
			s.cache.InvalidateClass(ctx, classID)
		}
	}
	return result, nil
}
