package models

import "time"

// Class groups students under an owning teacher.
type Class struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail is a class hydrated with its student roster.
type ClassDetail struct {
	Class
	Students []Student `json:"students"`
}

// ClassRequest holds the payload for creating or updating a class.
type ClassRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}
