package models

import "time"

// Point is an append-only ledger row crediting points to a student.
// Rows are never updated or deleted.
type Point struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	BehaviorID   *string   `db:"behavior_id" json:"behavior_id,omitempty"`
	Points       int       `db:"points" json:"points"`
	Reason       string    `db:"reason" json:"reason"`
	BehaviorName *string   `db:"behavior_name" json:"behavior_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GroupPoint is the group-level ledger counterpart of Point.
type GroupPoint struct {
	ID           string    `db:"id" json:"id"`
	GroupID      string    `db:"group_id" json:"group_id"`
	BehaviorID   *string   `db:"behavior_id" json:"behavior_id,omitempty"`
	Points       int       `db:"points" json:"points"`
	Reason       string    `db:"reason" json:"reason"`
	BehaviorName *string   `db:"behavior_name" json:"behavior_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
