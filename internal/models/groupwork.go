package models

import "time"

// GroupWork is the aggregate root for one group activity: a partition of a
// class's students into groups plus the behaviors the activity targets.
// Its children are replaced wholesale on every edit.
type GroupWork struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	ClassID   *string   `db:"class_id" json:"class_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Group is one team within a group work.
type Group struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	GroupWorkID string    `db:"group_work_id" json:"group_work_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GroupMember ties a student into a group's roster.
type GroupMember struct {
	ID        string    `db:"id" json:"id"`
	GroupID   string    `db:"group_id" json:"group_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupWorkBehavior associates a targeted behavior with a group work,
// with an optional praise override for that activity.
type GroupWorkBehavior struct {
	ID          string  `db:"id" json:"id"`
	GroupWorkID string  `db:"group_work_id" json:"group_work_id"`
	BehaviorID  string  `db:"behavior_id" json:"behavior_id"`
	Praise      *string `db:"praise" json:"praise,omitempty"`
}

// GroupDetail is a group hydrated with its member students.
type GroupDetail struct {
	Group
	Students []Student `json:"students"`
}

// GroupWorkBehaviorDetail pairs the association row with the behavior.
type GroupWorkBehaviorDetail struct {
	GroupWorkBehavior
	Behavior Behavior `json:"behavior"`
}

// GroupWorkDetail is the fully hydrated aggregate returned by the API.
type GroupWorkDetail struct {
	GroupWork
	Class     *Class                    `json:"class,omitempty"`
	Groups    []GroupDetail             `json:"groups"`
	Behaviors []GroupWorkBehaviorDetail `json:"behaviors"`
}

// GroupWorkAward is an append-only ledger row recording a group award:
// points, the praise actually shown, and the badge chosen.
type GroupWorkAward struct {
	ID         string    `db:"id" json:"id"`
	GroupID    string    `db:"group_id" json:"group_id"`
	BehaviorID *string   `db:"behavior_id" json:"behavior_id,omitempty"`
	Points     int       `db:"points" json:"points"`
	Praise     string    `db:"praise" json:"praise"`
	BadgeID    string    `db:"badge_id" json:"badge_id"`
	BadgeName  string    `db:"badge_name" json:"badge_name"`
	AwardedBy  string    `db:"awarded_by" json:"awarded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// GroupWorkAwardDetail decorates an award with its behavior and activity
// context for history listings.
type GroupWorkAwardDetail struct {
	GroupWorkAward
	BehaviorName  *string `db:"context_behavior_name" json:"behavior_name,omitempty"`
	GroupName     *string `db:"context_group_name" json:"group_name,omitempty"`
	GroupWorkName *string `db:"context_group_work_name" json:"group_work_name,omitempty"`
}

// GroupSpec describes one group to create when building or replacing the
// aggregate's children.
type GroupSpec struct {
	Name       string   `json:"name" validate:"required"`
	StudentIDs []string `json:"student_ids"`
}

// GroupStanding is one row of a group-work leaderboard: a group with its
// summed award points.
type GroupStanding struct {
	GroupID     string `db:"group_id" json:"group_id"`
	GroupName   string `db:"group_name" json:"group_name"`
	TotalPoints int    `db:"total_points" json:"total_points"`
	AwardCount  int    `db:"award_count" json:"award_count"`
}

// GroupWorkRequest holds the payload for creating or replacing a group
// work aggregate. BehaviorPraises keys are behavior ids.
type GroupWorkRequest struct {
	Name            string             `json:"name" validate:"required"`
	ClassID         string             `json:"class_id" validate:"required"`
	Groups          []GroupSpec        `json:"groups" validate:"required,min=1,dive"`
	BehaviorIDs     []string           `json:"behavior_ids" validate:"required,min=1"`
	BehaviorPraises map[string]*string `json:"behavior_praises"`
}

// GroupWorkUpdateRequest replaces the aggregate's children and, when a
// name is given, renames it. Children absent from the payload are simply
// dropped.
type GroupWorkUpdateRequest struct {
	Name            string             `json:"name"`
	Groups          []GroupSpec        `json:"groups" validate:"dive"`
	BehaviorIDs     []string           `json:"behavior_ids"`
	BehaviorPraises map[string]*string `json:"behavior_praises"`
}

// GroupAwardRequest holds the payload for awarding points to a group.
type GroupAwardRequest struct {
	GroupID    string  `json:"group_id" validate:"required"`
	Points     int     `json:"points" validate:"required,gt=0"`
	BehaviorID *string `json:"behavior_id"`
	Praise     *string `json:"praise"`
}

// GroupPointRequest appends or rewrites a group ledger row.
type GroupPointRequest struct {
	GroupID      string  `json:"group_id" validate:"required"`
	Points       int     `json:"points" validate:"required"`
	Reason       string  `json:"reason"`
	BehaviorID   *string `json:"behavior_id"`
	BehaviorName *string `json:"behavior_name"`
}

// GroupAwardContext carries everything the award engine needs about a
// group: the activity, per-behavior praise overrides, and the roster.
type GroupAwardContext struct {
	Group          Group
	GroupWork      GroupWork
	BehaviorPraise map[string]*string
	MemberIDs      []string
}
