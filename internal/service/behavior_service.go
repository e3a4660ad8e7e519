package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightclass/class-rewards-api/internal/models"
	"github.com/brightclass/class-rewards-api/internal/repository"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

// defaultBehaviorNames is the fixed catalog seeded under the sentinel
// account. Each name exists twice, as an INDIVIDUAL behavior and as a
// GROUP_WORK behavior with canned praise.
var defaultBehaviorNames = []string{
	"Participate",
	"Following instruction",
	"Sitting properly",
	"Finish task on time",
	"Listening attentively",
	"Stays in the designated place",
	"Working cooperatively",
	"Working quietly",
}

var defaultGroupPraises = map[string]string{
	"Participate":                   "Everyone joined in, well done!",
	"Following instruction":         "Great job following the instructions!",
	"Sitting properly":              "Nice posture, team!",
	"Finish task on time":           "Finished right on time, excellent!",
	"Listening attentively":         "Wonderful listening, everyone!",
	"Stays in the designated place": "Great job staying in your spot!",
	"Working cooperatively":         "Amazing teamwork!",
	"Working quietly":               "So focused and quiet, impressive!",
}

type behaviorTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	ListIDs(ctx context.Context, excludeEmail string) ([]string, error)
}

type behaviorRepository interface {
	ListByTeacher(ctx context.Context, teacherID string, behaviorType *models.BehaviorType) ([]models.Behavior, error)
	ListDefaults(ctx context.Context, sentinelTeacherID string) ([]models.Behavior, error)
	FindByID(ctx context.Context, id string) (*models.Behavior, error)
	FindOwned(ctx context.Context, id, teacherID string) (*models.Behavior, error)
	Create(ctx context.Context, behavior *models.Behavior) error
	Upsert(ctx context.Context, behavior *models.Behavior) error
	Update(ctx context.Context, behavior *models.Behavior) error
	Delete(ctx context.Context, id string) error
	NamesByTeacher(ctx context.Context, teacherID string) (map[string]struct{}, error)
}

// BehaviorService manages a teacher's behavior catalog and the default
// catalog under the sentinel account.
type BehaviorService struct {
	behaviors       behaviorRepository
	teachers        behaviorTeacherRepository
	validator       *validator.Validate
	logger          *zap.Logger
	defaultsAccount string
}

// NewBehaviorService constructs a BehaviorService instance.
func NewBehaviorService(behaviors behaviorRepository, teachers behaviorTeacherRepository, validate *validator.Validate, logger *zap.Logger, defaultsAccount string) *BehaviorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BehaviorService{behaviors: behaviors, teachers: teachers, validator: validate, logger: logger, defaultsAccount: defaultsAccount}
}

// List returns the teacher's behaviors, optionally filtered by type, in
// insertion order.
func (s *BehaviorService) List(ctx context.Context, teacherID string, behaviorType string) ([]models.Behavior, error) {
	var filter *models.BehaviorType
	if behaviorType != "" {
		parsed := models.BehaviorType(behaviorType)
		if !parsed.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "behavior type must be INDIVIDUAL or GROUP_WORK")
		}
		filter = &parsed
	}

	behaviors, err := s.behaviors.ListByTeacher(ctx, teacherID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list behaviors")
	}
	return behaviors, nil
}

// Create adds a behavior to the teacher's catalog.
func (s *BehaviorService) Create(ctx context.Context, teacherID string, req models.BehaviorCreateRequest) (*models.Behavior, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}
	behaviorType := models.BehaviorType(req.BehaviorType)
	if req.BehaviorType == "" {
		behaviorType = models.BehaviorTypeIndividual
	}
	if !behaviorType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "behavior type must be INDIVIDUAL or GROUP_WORK")
	}

	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
	}

	behavior := &models.Behavior{
		Name:         req.Name,
		TeacherID:    teacherID,
		IsDefault:    false,
		BehaviorType: behaviorType,
		Praise:       req.Praise,
	}
	if err := s.behaviors.Create(ctx, behavior); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "behavior with this name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create behavior")
	}
	return behavior, nil
}

// Update applies a partial update to an owned behavior. Omitted fields
// retain their previous values.
func (s *BehaviorService) Update(ctx context.Context, teacherID, id string, req models.BehaviorUpdateRequest) (*models.Behavior, error) {
	behavior, err := s.behaviors.FindOwned(ctx, id, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch behavior")
	}

	if req.Name != nil && *req.Name != "" {
		behavior.Name = *req.Name
	}
	if req.Praise != nil {
		behavior.Praise = req.Praise
	}

	if err := s.behaviors.Update(ctx, behavior); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "behavior with this name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update behavior")
	}
	return behavior, nil
}

// Delete removes a behavior. Default behaviors and behaviors owned by
// another teacher are refused.
func (s *BehaviorService) Delete(ctx context.Context, teacherID, id string) error {
	behavior, err := s.behaviors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch behavior")
	}

	if behavior.IsDefault {
		return appErrors.Clone(appErrors.ErrForbidden, "default behaviors cannot be deleted")
	}
	if behavior.TeacherID != teacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "behavior belongs to another teacher")
	}

	if err := s.behaviors.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete behavior")
	}
	return nil
}

// SeedDefaults ensures the sentinel account exists and upserts the fixed
// default catalog under it. The sentinel's password hash is random, so the
// account can never be logged into.
func (s *BehaviorService) SeedDefaults(ctx context.Context) error {
	sentinel, err := s.teachers.FindByEmail(ctx, s.defaultsAccount)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up defaults account")
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if hashErr != nil {
			return appErrors.Wrap(hashErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash sentinel password")
		}
		sentinel = &models.Teacher{
			Email:        s.defaultsAccount,
			Name:         "Default Teacher",
			PasswordHash: string(hash),
		}
		if createErr := s.teachers.Create(ctx, sentinel); createErr != nil {
			return appErrors.Wrap(createErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create defaults account")
		}
		s.logger.Info("created defaults account", zap.String("teacher_id", sentinel.ID))
	}

	for _, name := range defaultBehaviorNames {
		individual := &models.Behavior{
			Name:         name,
			TeacherID:    sentinel.ID,
			IsDefault:    true,
			BehaviorType: models.BehaviorTypeIndividual,
		}
		if err := s.behaviors.Upsert(ctx, individual); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed default behavior")
		}
	}
	for _, name := range defaultBehaviorNames {
		praise := defaultGroupPraises[name]
		group := &models.Behavior{
			Name:         name + " (group)",
			TeacherID:    sentinel.ID,
			IsDefault:    true,
			BehaviorType: models.BehaviorTypeGroupWork,
			Praise:       &praise,
		}
		if err := s.behaviors.Upsert(ctx, group); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed default group behavior")
		}
	}

	s.logger.Info("seeded default behavior catalog", zap.Int("count", len(defaultBehaviorNames)*2))
	return nil
}

// PropagateGroupWorkDefaults copies any default GROUP_WORK behavior a
// teacher is missing (matched by name) into their catalog as a non-default
// row. Safe to run repeatedly.
func (s *BehaviorService) PropagateGroupWorkDefaults(ctx context.Context) error {
	sentinel, err := s.teachers.FindByEmail(ctx, s.defaultsAccount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "defaults account not found, run seed first")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up defaults account")
	}

	defaults, err := s.behaviors.ListDefaults(ctx, sentinel.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list default behaviors")
	}

	teacherIDs, err := s.teachers.ListIDs(ctx, s.defaultsAccount)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	for _, teacherID := range teacherIDs {
		existing, err := s.behaviors.NamesByTeacher(ctx, teacherID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher behaviors")
		}
		for _, def := range defaults {
			if def.BehaviorType != models.BehaviorTypeGroupWork {
				continue
			}
			if _, ok := existing[def.Name]; ok {
				continue
			}
			clone := &models.Behavior{
				Name:         def.Name,
				TeacherID:    teacherID,
				IsDefault:    false,
				BehaviorType: def.BehaviorType,
				Praise:       def.Praise,
			}
			if err := s.behaviors.Upsert(ctx, clone); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to propagate default behavior")
			}
			s.logger.Info("propagated group work default",
				zap.String("behavior", def.Name),
				zap.String("teacher_id", teacherID))
		}
	}
	return nil
}
