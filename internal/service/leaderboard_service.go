package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type leaderboardStudentRepository interface {
	Leaderboard(ctx context.Context, classID string) ([]models.Student, error)
}

type leaderboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// LeaderboardConfig tunes the leaderboard cache.
type LeaderboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ClassStandings is the cached leaderboard payload.
type ClassStandings struct {
	ClassID  string           `json:"class_id"`
	Students []models.Student `json:"students"`
}

// LeaderboardService ranks a class's students by points, with the result
// cached in Redis until a point award or roster change invalidates it.
type LeaderboardService struct {
	students leaderboardStudentRepository
	classes  studentClassRepository
	cache    leaderboardCache
	metrics  cacheMetricsRecorder
	config   LeaderboardConfig
	logger   *zap.Logger
}

// NewLeaderboardService constructs a LeaderboardService instance.
func NewLeaderboardService(students leaderboardStudentRepository, classes studentClassRepository, cache leaderboardCache, metrics cacheMetricsRecorder, config LeaderboardConfig, logger *zap.Logger) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{students: students, classes: classes, cache: cache, metrics: metrics, config: config, logger: logger}
}

// ClassLeaderboard returns the owned class's students ranked by points.
// The second return reports whether the payload came from cache.
func (s *LeaderboardService) ClassLeaderboard(ctx context.Context, teacherID, classID string) (*ClassStandings, bool, error) {
	if _, err := s.classes.FindOwned(ctx, classID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "class not found or access denied")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	key := classLeaderboardKey(classID)
	if s.cacheEnabled() {
		start := time.Now()
		var cached ClassStandings
		err := s.cache.Get(ctx, key, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			return &cached, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	students, err := s.students.Leaderboard(ctx, classID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build leaderboard")
	}
	standings := &ClassStandings{ClassID: classID, Students: students}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, standings, s.config.CacheTTL); err != nil {
			s.logger.Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return standings, false, nil
}

// InvalidateClass drops the cached leaderboard for a class.
func (s *LeaderboardService) InvalidateClass(ctx context.Context, classID string) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, classLeaderboardKey(classID)); err != nil {
		s.logger.Warn("leaderboard cache invalidation failed", zap.String("class_id", classID), zap.Error(err))
	}
}

func (s *LeaderboardService) cacheEnabled() bool {
	return s.config.CacheEnabled && s.cache != nil
}

func classLeaderboardKey(classID string) string {
	return fmt.Sprintf("leaderboard:class:%s", classID)
}
