package models

import "time"

// Student belongs to a class. Points is a denormalized running sum kept in
// step with the point ledger inside the same transaction.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Points    int       `db:"points" json:"points"`
	ClassID   string    `db:"class_id" json:"class_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentOwnership joins a student to its class owner for access checks.
type StudentOwnership struct {
	Student
	ClassTeacherID string `db:"class_teacher_id" json:"-"`
}

// StudentCreateRequest holds the payload for enrolling a student.
type StudentCreateRequest struct {
	Name    string `json:"name" validate:"required"`
	ClassID string `json:"class_id" validate:"required"`
}

// AwardPointsRequest credits the same point amount to several students at
// once, each getting its own ledger row.
type AwardPointsRequest struct {
	StudentIDs  []string `json:"student_ids" validate:"required,min=1"`
	PointsToAdd int      `json:"points_to_add" validate:"required,gt=0"`
	Reason      string   `json:"reason"`
	BehaviorID  *string  `json:"behavior_id"`
}

// AwardPointsResult reports the outcome of a bulk point award.
type AwardPointsResult struct {
	Updated []Student `json:"updated"`
	Failed  []string  `json:"failed,omitempty"`
}
