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

// BehaviorRepository manages persistence for behavior catalogs.
type BehaviorRepository struct {
	db *sqlx.DB
}

// NewBehaviorRepository constructs a behavior repository.
func NewBehaviorRepository(db *sqlx.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

// ListByTeacher returns the teacher's behaviors in insertion order,
// optionally filtered by type. Rows created in the same microsecond
// fall back to id order so listings stay stable.
func (r *BehaviorRepository) ListByTeacher(ctx context.Context, teacherID string, behaviorType *models.BehaviorType) ([]models.Behavior, error) {
	query := `SELECT id, name, teacher_id, is_default, behavior_type, praise, created_at, updated_at
FROM behaviors WHERE teacher_id = $1`
	args := []interface{}{teacherID}
	if behaviorType != nil {
		query += ` AND behavior_type = $2`
		args = append(args, *behaviorType)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	var behaviors []models.Behavior
	if err := r.db.SelectContext(ctx, &behaviors, query, args...); err != nil {
		return nil, fmt.Errorf("list behaviors: %w", err)
	}
	return behaviors, nil
}

// ListDefaults returns the default catalog owned by the sentinel teacher.
func (r *BehaviorRepository) ListDefaults(ctx context.Context, sentinelTeacherID string) ([]models.Behavior, error) {
	const query = `SELECT id, name, teacher_id, is_default, behavior_type, praise, created_at, updated_at
FROM behaviors WHERE teacher_id = $1 AND is_default = TRUE ORDER BY created_at ASC, id ASC`
	var behaviors []models.Behavior
	if err := r.db.SelectContext(ctx, &behaviors, query, sentinelTeacherID); err != nil {
		return nil, fmt.Errorf("list default behaviors: %w", err)
	}
	return behaviors, nil
}

// FindByID returns a behavior by identifier.
func (r *BehaviorRepository) FindByID(ctx context.Context, id string) (*models.Behavior, error) {
	const query = `SELECT id, name, teacher_id, is_default, behavior_type, praise, created_at, updated_at
FROM behaviors WHERE id = $1 LIMIT 1`
	var behavior models.Behavior
	if err := r.db.GetContext(ctx, &behavior, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find behavior: %w", err)
	}
	return &behavior, nil
}

// FindOwned returns the behavior only when the teacher owns it.
func (r *BehaviorRepository) FindOwned(ctx context.Context, id, teacherID string) (*models.Behavior, error) {
	const query = `SELECT id, name, teacher_id, is_default, behavior_type, praise, created_at, updated_at
FROM behaviors WHERE id = $1 AND teacher_id = $2 LIMIT 1`
	var behavior models.Behavior
	if err := r.db.GetContext(ctx, &behavior, query, id, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find owned behavior: %w", err)
	}
	return &behavior, nil
}

// Create inserts a behavior. A duplicate (teacher_id, name) pair returns
// ErrDuplicateKey so callers can answer 409.
func (r *BehaviorRepository) Create(ctx context.Context, behavior *models.Behavior) error {
	if behavior.ID == "" {
		behavior.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if behavior.CreatedAt.IsZero() {
		behavior.CreatedAt = now
	}
	behavior.UpdatedAt = now
	const query = `INSERT INTO behaviors (id, name, teacher_id, is_default, behavior_type, praise, created_at, updated_at)
VALUES (:id, :name, :teacher_id, :is_default, :behavior_type, :praise, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, behavior); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create behavior: %w", err)
	}
	return nil
}

// Upsert inserts the behavior or refreshes the existing row keyed on
// (teacher_id, name). Used by seeding and propagation, which must be
// idempotent.
func (r *BehaviorRepository) Upsert(ctx context.Context, behavior *models.Behavior) error {
	if behavior.ID == "" {
		behavior.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if behavior.CreatedAt.IsZero() {
		behavior.CreatedAt = now
	}
	behavior.UpdatedAt = now
	const query = `INSERT INTO behaviors (id, name, teacher_id, is_default, behavior_type, praise, created_at, updated_at)
VALUES (:id, :name, :teacher_id, :is_default, :behavior_type, :praise, :created_at, :updated_at)
ON CONFLICT (teacher_id, name) DO UPDATE SET is_default = EXCLUDED.is_default, behavior_type = EXCLUDED.behavior_type, praise = EXCLUDED.praise, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, behavior); err != nil {
		return fmt.Errorf("upsert behavior: %w", err)
	}
	return nil
}

// Update modifies name and praise of an existing behavior.
func (r *BehaviorRepository) Update(ctx context.Context, behavior *models.Behavior) error {
	behavior.UpdatedAt = time.Now().UTC()
	const query = `UPDATE behaviors SET name = :name, praise = :praise, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, behavior); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update behavior: %w", err)
	}
	return nil
}

// Delete removes a behavior.
func (r *BehaviorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM behaviors WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete behavior: %w", err)
	}
	return nil
}

// NamesByTeacher returns the behavior names a teacher already has,
// used to compute missing default copies during propagation.
func (r *BehaviorRepository) NamesByTeacher(ctx context.Context, teacherID string) (map[string]struct{}, error) {
	const query = `SELECT name FROM behaviors WHERE teacher_id = $1`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, teacherID); err != nil {
		return nil, fmt.Errorf("list behavior names: %w", err)
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}
