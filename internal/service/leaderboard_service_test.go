package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
)

type mockLeaderboardRepo struct {
	standings map[string][]models.Student
	calls     int
}

func (m *mockLeaderboardRepo) Leaderboard(ctx context.Context, classID string) ([]models.Student, error) {
	m.calls++
	return m.standings[classID], nil
}

type mockCache struct {
	entries map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	delete(m.entries, pattern)
	return nil
}

func newTestLeaderboardService(repo *mockLeaderboardRepo, classes *mockClassRepo, cache *mockCache) *LeaderboardService {
	var c leaderboardCache
	if cache != nil {
		c = cache
	}
	return NewLeaderboardService(repo, classes, c, nil, LeaderboardConfig{
		CacheEnabled: cache != nil,
		CacheTTL:     time.Minute,
	}, nil)
}

func TestClassLeaderboardMissThenHit(t *testing.T) {
	repo := &mockLeaderboardRepo{standings: map[string][]models.Student{
		"c1": {
			{ID: "s1", Name: "Ana", Points: 9, ClassID: "c1"},
			{ID: "s2", Name: "Ben", Points: 4, ClassID: "c1"},
		},
	}}
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", TeacherID: "t1"},
	}}
	cache := newMockCache()
	svc := newTestLeaderboardService(repo, classes, cache)

	standings, hit, err := svc.ClassLeaderboard(context.Background(), "t1", "c1")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, standings.Students, 2)
	assert.Equal(t, "Ana", standings.Students[0].Name)

	standings, hit, err = svc.ClassLeaderboard(context.Background(), "t1", "c1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, standings.Students, 2)
	assert.Equal(t, 1, repo.calls)
}

func TestClassLeaderboardWorksWithoutCache(t *testing.T) {
	repo := &mockLeaderboardRepo{standings: map[string][]models.Student{
		"c1": {{ID: "s1", Points: 1, ClassID: "c1"}},
	}}
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", TeacherID: "t1"},
	}}
	svc := newTestLeaderboardService(repo, classes, nil)

	_, hit, err := svc.ClassLeaderboard(context.Background(), "t1", "c1")
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = svc.ClassLeaderboard(context.Background(), "t1", "c1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}

func TestClassLeaderboardForeignClassIsNotFound(t *testing.T) {
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", TeacherID: "t2"},
	}}
	svc := newTestLeaderboardService(&mockLeaderboardRepo{}, classes, newMockCache())

	_, _, err := svc.ClassLeaderboard(context.Background(), "t1", "c1")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestInvalidateClassDropsCachedStandings(t *testing.T) {
	repo := &mockLeaderboardRepo{standings: map[string][]models.Student{
		"c1": {{ID: "s1", Points: 1, ClassID: "c1"}},
	}}
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", TeacherID: "t1"},
	}}
	cache := newMockCache()
	svc := newTestLeaderboardService(repo, classes, cache)

	_, _, err := svc.ClassLeaderboard(context.Background(), "t1", "c1")
	require.NoError(t, err)

	svc.InvalidateClass(context.Background(), "c1")
	assert.Equal(t, []string{"leaderboard:class:c1"}, cache.deleted)

	_, hit, err := svc.ClassLeaderboard(context.Background(), "t1", "c1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}
