package models

import "time"

// BehaviorType separates individually awarded behaviors from group-work ones.
type BehaviorType string

const (
	BehaviorTypeIndividual BehaviorType = "INDIVIDUAL"
	BehaviorTypeGroupWork  BehaviorType = "GROUP_WORK"
)

// Valid reports whether the type is a known behavior type.
func (t BehaviorType) Valid() bool {
	return t == BehaviorTypeIndividual || t == BehaviorTypeGroupWork
}

// Behavior is a named awardable trait in a teacher's catalog. Rows owned by
// the sentinel default account carry is_default=true and are copied, not
// referenced, into each teacher's catalog at registration.
type Behavior struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	TeacherID    string       `db:"teacher_id" json:"teacher_id"`
	IsDefault    bool         `db:"is_default" json:"is_default"`
	BehaviorType BehaviorType `db:"behavior_type" json:"behavior_type"`
	Praise       *string      `db:"praise" json:"praise,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// BehaviorCreateRequest holds the payload for adding a behavior.
type BehaviorCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	BehaviorType string  `json:"behavior_type"`
	Praise       *string `json:"praise"`
}

// BehaviorUpdateRequest holds the partial-update payload. Nil fields keep
// their stored values.
type BehaviorUpdateRequest struct {
	Name   *string `json:"name"`
	Praise *string `json:"praise"`
}
