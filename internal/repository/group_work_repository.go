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

// GroupWorkRepository manages the group-work aggregate: the activity row,
// its groups, their member rosters, and the targeted behaviors. Children
// are never edited in place; create and replace rebuild them inside one
// transaction.
type GroupWorkRepository struct {
	db *sqlx.DB
}

// NewGroupWorkRepository constructs a group work repository.
func NewGroupWorkRepository(db *sqlx.DB) *GroupWorkRepository {
	return &GroupWorkRepository{db: db}
}

// CreateAggregate inserts the group work with all of its children in a
// single transaction, so a failed step leaves nothing behind.
func (r *GroupWorkRepository) CreateAggregate(ctx context.Context, groupWork *models.GroupWork, groups []models.GroupSpec, behaviors []models.GroupWorkBehavior) (err error) {
	if groupWork.ID == "" {
		groupWork.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if groupWork.CreatedAt.IsZero() {
		groupWork.CreatedAt = now
	}
	groupWork.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create group work: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO group_works (id, name, teacher_id, class_id, created_at, updated_at)
VALUES (:id, :name, :teacher_id, :class_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insert, groupWork); err != nil {
		return fmt.Errorf("insert group work: %w", err)
	}

	if err = r.insertChildren(ctx, tx, groupWork.ID, groups, behaviors, now); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create group work: %w", err)
	}
	return nil
}

// ReplaceAggregate updates the activity name and rebuilds every child row
// from the supplied payload. This is a wholesale replace, not a diff: any
// group or membership absent from the payload is discarded.
func (r *GroupWorkRepository) ReplaceAggregate(ctx context.Context, groupWorkID, name string, groups []models.GroupSpec, behaviors []models.GroupWorkBehavior) (err error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace group work: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE group_works SET name = $2, updated_at = $3 WHERE id = $1`, groupWorkID, name, now); err != nil {
		return fmt.Errorf("update group work name: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id IN (SELECT id FROM groups WHERE group_work_id = $1)`, groupWorkID); err != nil {
		return fmt.Errorf("delete group members: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM groups WHERE group_work_id = $1`, groupWorkID); err != nil {
		return fmt.Errorf("delete groups: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM group_work_behaviors WHERE group_work_id = $1`, groupWorkID); err != nil {
		return fmt.Errorf("delete group work behaviors: %w", err)
	}

	if err = r.insertChildren(ctx, tx, groupWorkID, groups, behaviors, now); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace group work: %w", err)
	}
	return nil
}

func (r *GroupWorkRepository) insertChildren(ctx context.Context, tx *sqlx.Tx, groupWorkID string, groups []models.GroupSpec, behaviors []models.GroupWorkBehavior, now time.Time) error {
	const insertGroup = `INSERT INTO groups (id, name, group_work_id, created_at) VALUES ($1, $2, $3, $4)`
	const insertMember = `INSERT INTO group_members (id, group_id, student_id, created_at) VALUES ($1, $2, $3, $4)`
	for _, spec := range groups {
		groupID := uuid.NewString()
		if _, err := tx.ExecContext(ctx, insertGroup, groupID, spec.Name, groupWorkID, now); err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		for _, studentID := range spec.StudentIDs {
			if _, err := tx.ExecContext(ctx, insertMember, uuid.NewString(), groupID, studentID, now); err != nil {
				return fmt.Errorf("insert group member: %w", err)
			}
		}
	}

	const insertBehavior = `INSERT INTO group_work_behaviors (id, group_work_id, behavior_id, praise) VALUES ($1, $2, $3, $4)`
	for _, assoc := range behaviors {
		if _, err := tx.ExecContext(ctx, insertBehavior, uuid.NewString(), groupWorkID, assoc.BehaviorID, assoc.Praise); err != nil {
			return fmt.Errorf("insert group work behavior: %w", err)
		}
	}
	return nil
}

// FindOwned returns the group work only when the teacher owns it.
func (r *GroupWorkRepository) FindOwned(ctx context.Context, id, teacherID string) (*models.GroupWork, error) {
	const query = `SELECT id, name, teacher_id, class_id, created_at, updated_at
FROM group_works WHERE id = $1 AND teacher_id = $2 LIMIT 1`
	var groupWork models.GroupWork
	if err := r.db.GetContext(ctx, &groupWork, query, id, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find owned group work: %w", err)
	}
	return &groupWork, nil
}

// GetDetail hydrates one aggregate: the activity, its class, each group
// with member students, and the targeted behaviors.
func (r *GroupWorkRepository) GetDetail(ctx context.Context, id string) (*models.GroupWorkDetail, error) {
	const query = `SELECT id, name, teacher_id, class_id, created_at, updated_at
FROM group_works WHERE id = $1 LIMIT 1`
	var groupWork models.GroupWork
	if err := r.db.GetContext(ctx, &groupWork, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get group work: %w", err)
	}
	return r.hydrate(ctx, groupWork)
}

// ListByTeacher returns the teacher's aggregates, newest first, hydrated.
func (r *GroupWorkRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.GroupWorkDetail, error) {
	const query = `SELECT id, name, teacher_id, class_id, created_at, updated_at
FROM group_works WHERE teacher_id = $1 ORDER BY created_at DESC`
	var groupWorks []models.GroupWork
	if err := r.db.SelectContext(ctx, &groupWorks, query, teacherID); err != nil {
		return nil, fmt.Errorf("list group works: %w", err)
	}

	details := make([]models.GroupWorkDetail, 0, len(groupWorks))
	for _, groupWork := range groupWorks {
		detail, err := r.hydrate(ctx, groupWork)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// Delete removes the aggregate; the schema cascades to groups, members and
// behavior associations. Award history is deliberately retained.
func (r *GroupWorkRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM group_works WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete group work: %w", err)
	}
	return nil
}

// FindGroupContext loads one group with its activity, the per-behavior
// praise overrides, and the current member roster.
func (r *GroupWorkRepository) FindGroupContext(ctx context.Context, groupID string) (*models.GroupAwardContext, error) {
	const groupQuery = `SELECT id, name, group_work_id, created_at FROM groups WHERE id = $1 LIMIT 1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, groupQuery, groupID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group: %w", err)
	}

	const gwQuery = `SELECT id, name, teacher_id, class_id, created_at, updated_at FROM group_works WHERE id = $1 LIMIT 1`
	var groupWork models.GroupWork
	if err := r.db.GetContext(ctx, &groupWork, gwQuery, group.GroupWorkID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group's activity: %w", err)
	}

	const assocQuery = `SELECT id, group_work_id, behavior_id, praise FROM group_work_behaviors WHERE group_work_id = $1`
	var assocs []models.GroupWorkBehavior
	if err := r.db.SelectContext(ctx, &assocs, assocQuery, group.GroupWorkID); err != nil {
		return nil, fmt.Errorf("list behavior praises: %w", err)
	}
	praise := make(map[string]*string, len(assocs))
	for _, assoc := range assocs {
		praise[assoc.BehaviorID] = assoc.Praise
	}

	const memberQuery = `SELECT student_id FROM group_members WHERE group_id = $1`
	var memberIDs []string
	if err := r.db.SelectContext(ctx, &memberIDs, memberQuery, groupID); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}

	return &models.GroupAwardContext{
		Group:          group,
		GroupWork:      groupWork,
		BehaviorPraise: praise,
		MemberIDs:      memberIDs,
	}, nil
}

// Leaderboard ranks the aggregate's groups by summed award points.
func (r *GroupWorkRepository) Leaderboard(ctx context.Context, groupWorkID string) ([]models.GroupStanding, error) {
	const query = `SELECT g.id AS group_id, g.name AS group_name,
        COALESCE(SUM(a.points),0) AS total_points, COUNT(a.id) AS award_count
FROM groups g LEFT JOIN group_work_awards a ON a.group_id = g.id
WHERE g.group_work_id = $1
GROUP BY g.id, g.name ORDER BY total_points DESC, g.name ASC`
	var standings []models.GroupStanding
	if err := r.db.SelectContext(ctx, &standings, query, groupWorkID); err != nil {
		return nil, fmt.Errorf("group work leaderboard: %w", err)
	}
	return standings, nil
}

func (r *GroupWorkRepository) hydrate(ctx context.Context, groupWork models.GroupWork) (*models.GroupWorkDetail, error) {
	detail := &models.GroupWorkDetail{GroupWork: groupWork, Groups: []models.GroupDetail{}, Behaviors: []models.GroupWorkBehaviorDetail{}}

	if groupWork.ClassID != nil {
		const classQuery = `SELECT id, name, description, teacher_id, created_at, updated_at FROM classes WHERE id = $1 LIMIT 1`
		var class models.Class
		err := r.db.GetContext(ctx, &class, classQuery, *groupWork.ClassID)
		if err == nil {
			detail.Class = &class
		} else if err != sql.ErrNoRows {
			return nil, fmt.Errorf("get group work class: %w", err)
		}
	}

	const groupsQuery = `SELECT id, name, group_work_id, created_at FROM groups WHERE group_work_id = $1 ORDER BY created_at ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, groupsQuery, groupWork.ID); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	for _, group := range groups {
		const studentsQuery = `SELECT s.id, s.name, s.points, s.class_id, s.created_at, s.updated_at
FROM group_members m JOIN students s ON s.id = m.student_id WHERE m.group_id = $1 ORDER BY m.created_at ASC`
		var students []models.Student
		if err := r.db.SelectContext(ctx, &students, studentsQuery, group.ID); err != nil {
			return nil, fmt.Errorf("list group students: %w", err)
		}
		detail.Groups = append(detail.Groups, models.GroupDetail{Group: group, Students: students})
	}

	const behaviorsQuery = `SELECT gb.id, gb.group_work_id, gb.behavior_id, gb.praise,
        b.id AS "behavior.id", b.name AS "behavior.name", b.teacher_id AS "behavior.teacher_id",
        b.is_default AS "behavior.is_default", b.behavior_type AS "behavior.behavior_type",
        b.praise AS "behavior.praise", b.created_at AS "behavior.created_at", b.updated_at AS "behavior.updated_at"
FROM group_work_behaviors gb JOIN behaviors b ON b.id = gb.behavior_id WHERE gb.group_work_id = $1`
	var assocs []models.GroupWorkBehaviorDetail
	if err := r.db.SelectContext(ctx, &assocs, behaviorsQuery, groupWork.ID); err != nil {
		return nil, fmt.Errorf("list group work behaviors: %w", err)
	}
	detail.Behaviors = assocs

	return detail, nil
}
