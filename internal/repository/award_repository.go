package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightclass/class-rewards-api/internal/models"
)

// AwardRepository persists group work awards. Awards keep their group_id
// even after the group is deleted so the history stays readable.
type AwardRepository struct {
	db *sqlx.DB
}

// NewAwardRepository constructs an award repository.
func NewAwardRepository(db *sqlx.DB) *AwardRepository {
	return &AwardRepository{db: db}
}

// Create appends one award row.
func (r *AwardRepository) Create(ctx context.Context, award *models.GroupWorkAward) error {
	if award.ID == "" {
		award.ID = uuid.NewString()
	}
	if award.CreatedAt.IsZero() {
		award.CreatedAt = time.Now().UTC()
	}
	const insert = `INSERT INTO group_work_awards (id, group_id, behavior_id, points, praise, badge_id, badge_name, awarded_by, created_at)
VALUES (:id, :group_id, :behavior_id, :points, :praise, :badge_id, :badge_name, :awarded_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, insert, award); err != nil {
		return fmt.Errorf("insert group work award: %w", err)
	}
	return nil
}

// ListByGroup returns a group's awards, newest first, with behavior and
// activity names joined in where those rows still exist.
func (r *AwardRepository) ListByGroup(ctx context.Context, groupID string) ([]models.GroupWorkAwardDetail, error) {
	const query = `SELECT a.id, a.group_id, a.behavior_id, a.points, a.praise, a.badge_id, a.badge_name, a.awarded_by, a.created_at,
        b.name AS context_behavior_name, g.name AS context_group_name, gw.name AS context_group_work_name
FROM group_work_awards a
LEFT JOIN behaviors b ON b.id = a.behavior_id
LEFT JOIN groups g ON g.id = a.group_id
LEFT JOIN group_works gw ON gw.id = g.group_work_id
WHERE a.group_id = $1 ORDER BY a.created_at DESC`
	awards := []models.GroupWorkAwardDetail{}
	if err := r.db.SelectContext(ctx, &awards, query, groupID); err != nil {
		return nil, fmt.Errorf("list group work awards: %w", err)
	}
	return awards, nil
}
