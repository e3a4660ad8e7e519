package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightclass/class-rewards-api/internal/badge"
	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

const defaultPraise = "Great work!"

type awardRepository interface {
	Create(ctx context.Context, award *models.GroupWorkAward) error
	ListByGroup(ctx context.Context, groupID string) ([]models.GroupWorkAwardDetail, error)
}

type awardGroupWorkRepository interface {
	FindGroupContext(ctx context.Context, groupID string) (*models.GroupAwardContext, error)
}

type awardBehaviorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Behavior, error)
}

type awardStudentRepository interface {
	AwardPoints(ctx context.Context, point *models.Point) error
}

// GroupAwardResponse is the created award decorated with the chosen badge.
type GroupAwardResponse struct {
	models.GroupWorkAward
	Badge badge.Badge `json:"badge"`
}

// AwardService is the award engine: it resolves praise, picks a badge,
// records the award, and fans the points out to every group member.
type AwardService struct {
	awards     awardRepository
	groupWorks awardGroupWorkRepository
	behaviors  awardBehaviorRepository
	students   awardStudentRepository
	cache      leaderboardCacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAwardService constructs an AwardService instance.
func NewAwardService(awards awardRepository, groupWorks awardGroupWorkRepository, behaviors awardBehaviorRepository, students awardStudentRepository, cache leaderboardCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AwardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AwardService{awards: awards, groupWorks: groupWorks, behaviors: behaviors, students: students, cache: cache, validator: validate, logger: logger}
}

// Award grants points, praise and a badge to a group. Praise precedence:
// the activity's per-behavior override, then the caller's praise, then the
// default. The badge is drawn uniformly from the catalog for the
// behavior's type. Each member then gets a balance increment plus ledger
// row in its own transaction; a failed member is logged and skipped while
// the award itself stands.
func (s *AwardService) Award(ctx context.Context, teacherID string, req models.GroupAwardRequest) (*GroupAwardResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "group_id and positive points are required")
	}

	awardCtx, err := s.groupWorks.FindGroupContext(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	if awardCtx.GroupWork.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}

	var behaviorName *string
	behaviorType := models.BehaviorTypeGroupWork
	var associationPraise *string
	if req.BehaviorID != nil {
		behavior, err := s.behaviors.FindByID(ctx, *req.BehaviorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch behavior")
		}
		behaviorName = &behavior.Name
		behaviorType = behavior.BehaviorType
		associationPraise = awardCtx.BehaviorPraise[*req.BehaviorID]
	}

	praise := defaultPraise
	if associationPraise != nil && *associationPraise != "" {
		praise = *associationPraise
	} else if req.Praise != nil && *req.Praise != "" {
		praise = *req.Praise
	}

	chosen, ok := badge.PickRandom(behaviorType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInternal, "no badge available for behavior type")
	}

	award := &models.GroupWorkAward{
		GroupID:    req.GroupID,
		BehaviorID: req.BehaviorID,
		Points:     req.Points,
		Praise:     praise,
		BadgeID:    chosen.ID,
		BadgeName:  chosen.Name,
		AwardedBy:  teacherID,
	}
	if err := s.awards.Create(ctx, award); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record award")
	}

	s.fanOut(ctx, awardCtx, award, behaviorName)

	if s.cache != nil && awardCtx.GroupWork.ClassID != nil {
		s.cache.InvalidateClass(ctx, *awardCtx.GroupWork.ClassID)
	}

	return &GroupAwardResponse{GroupWorkAward: *award, Badge: chosen}, nil
}

// History lists a group's awards, newest first. A group owned by another
// teacher reads as not found; a deleted group's history stays readable.
func (s *AwardService) History(ctx context.Context, teacherID, groupID string) ([]models.GroupWorkAwardDetail, error) {
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupId is required")
	}
	awardCtx, err := s.groupWorks.FindGroupContext(ctx, groupID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	if err == nil && awardCtx.GroupWork.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}
	awards, err := s.awards.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list awards")
	}
	return awards, nil
}

func (s *AwardService) fanOut(ctx context.Context, awardCtx *models.GroupAwardContext, award *models.GroupWorkAward, behaviorName *string) {
	reason := fmt.Sprintf("Group work: %s - %s", awardCtx.GroupWork.Name, award.Praise)
	ledgerName := "Group work"
	if behaviorName != nil {
		ledgerName = *behaviorName
	}

	for _, studentID := range awardCtx.MemberIDs {
		point := &models.Point{
			StudentID:    studentID,
			BehaviorID:   award.BehaviorID,
			Points:       award.Points,
			Reason:       reason,
			BehaviorName: &ledgerName,
		}
		if err := s.students.AwardPoints(ctx, point); err != nil {
			s.logger.Error("failed to fan out award points",
				zap.String("student_id", studentID),
				zap.String("award_id", award.ID),
				zap.Error(err))
		}
	}
}
