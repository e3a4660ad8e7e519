package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightclass/class-rewards-api/internal/models"
)

// PointRepository reads the individual point ledger and manages the
// group-level ledger. Individual rows are written only by
// StudentRepository.AwardPoints, inside the balance transaction.
type PointRepository struct {
	db *sqlx.DB
}

// NewPointRepository constructs a point repository.
func NewPointRepository(db *sqlx.DB) *PointRepository {
	return &PointRepository{db: db}
}

// ListByStudent returns a student's ledger, newest first.
func (r *PointRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Point, error) {
	const query = `SELECT id, student_id, behavior_id, points, reason, behavior_name, created_at
FROM points WHERE student_id = $1 ORDER BY created_at DESC`
	points := []models.Point{}
	if err := r.db.SelectContext(ctx, &points, query, studentID); err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	return points, nil
}

// CreateGroupPoint appends a row to the group ledger.
func (r *PointRepository) CreateGroupPoint(ctx context.Context, point *models.GroupPoint) error {
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = time.Now().UTC()
	}
	const insert = `INSERT INTO group_points (id, group_id, behavior_id, points, reason, behavior_name, created_at)
VALUES (:id, :group_id, :behavior_id, :points, :reason, :behavior_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, insert, point); err != nil {
		return fmt.Errorf("insert group point: %w", err)
	}
	return nil
}

// ListByGroup returns a group's ledger, newest first.
func (r *PointRepository) ListByGroup(ctx context.Context, groupID string) ([]models.GroupPoint, error) {
	const query = `SELECT id, group_id, behavior_id, points, reason, behavior_name, created_at
FROM group_points WHERE group_id = $1 ORDER BY created_at DESC`
	points := []models.GroupPoint{}
	if err := r.db.SelectContext(ctx, &points, query, groupID); err != nil {
		return nil, fmt.Errorf("list group points: %w", err)
	}
	return points, nil
}

// FindGroupPoint fetches one group ledger row.
func (r *PointRepository) FindGroupPoint(ctx context.Context, id string) (*models.GroupPoint, error) {
	const query = `SELECT id, group_id, behavior_id, points, reason, behavior_name, created_at
FROM group_points WHERE id = $1 LIMIT 1`
	var point models.GroupPoint
	if err := r.db.GetContext(ctx, &point, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group point: %w", err)
	}
	return &point, nil
}

// UpdateGroupPoint rewrites the points and reason of a group ledger row.
func (r *PointRepository) UpdateGroupPoint(ctx context.Context, id string, points int, reason string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE group_points SET points = $2, reason = $3 WHERE id = $1`, id, points, reason)
	if err != nil {
		return fmt.Errorf("update group point: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update group point: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteGroupPoint removes a group ledger row.
func (r *PointRepository) DeleteGroupPoint(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM group_points WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete group point: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group point: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
