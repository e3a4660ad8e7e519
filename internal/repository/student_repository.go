package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brightclass/class-rewards-api/internal/models"
)

// StudentRepository manages student rosters and point balances.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByClass returns the students of one class, newest first.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	const query = `SELECT id, name, points, class_id, created_at, updated_at
FROM students WHERE class_id = $1 ORDER BY created_at DESC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindWithOwner returns a student joined with its class's owning teacher.
func (r *StudentRepository) FindWithOwner(ctx context.Context, id string) (*models.StudentOwnership, error) {
	const query = `SELECT s.id, s.name, s.points, s.class_id, s.created_at, s.updated_at, c.teacher_id AS class_teacher_id
FROM students s JOIN classes c ON c.id = s.class_id WHERE s.id = $1 LIMIT 1`
	var student models.StudentOwnership
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student with owner: %w", err)
	}
	return &student, nil
}

// FindManyWithOwner resolves several students with their class owners.
func (r *StudentRepository) FindManyWithOwner(ctx context.Context, ids []string) ([]models.StudentOwnership, error) {
	const query = `SELECT s.id, s.name, s.points, s.class_id, s.created_at, s.updated_at, c.teacher_id AS class_teacher_id
FROM students s JOIN classes c ON c.id = s.class_id WHERE s.id = ANY($1)`
	var students []models.StudentOwnership
	if err := r.db.SelectContext(ctx, &students, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find students with owner: %w", err)
	}
	return students, nil
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, points, class_id, created_at, updated_at)
VALUES (:id, :name, :points, :class_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Delete removes a student; the schema cascades to membership rows while
// the point ledger is retained.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// AwardPoints atomically increments the student's balance and appends the
// matching ledger row. Both writes commit together so the balance can never
// drift from the ledger for a completed call.
func (r *StudentRepository) AwardPoints(ctx context.Context, point *models.Point) (err error) {
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin award points: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const increment = `UPDATE students SET points = points + $2, updated_at = $3 WHERE id = $1`
	res, err := tx.ExecContext(ctx, increment, point.StudentID, point.Points, point.CreatedAt)
	if err != nil {
		return fmt.Errorf("increment student points: %w", err)
	}
	if affected, affErr := res.RowsAffected(); affErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	const insert = `INSERT INTO points (id, student_id, behavior_id, points, reason, behavior_name, created_at)
VALUES (:id, :student_id, :behavior_id, :points, :reason, :behavior_name, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insert, point); err != nil {
		return fmt.Errorf("insert point row: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit award points: %w", err)
	}
	return nil
}

// Leaderboard returns a class roster ordered by points.
func (r *StudentRepository) Leaderboard(ctx context.Context, classID string) ([]models.Student, error) {
	const query = `SELECT id, name, points, class_id, created_at, updated_at
FROM students WHERE class_id = $1 ORDER BY points DESC, name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("class leaderboard: %w", err)
	}
	return students, nil
}
