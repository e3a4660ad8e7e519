package models

import "time"

// Teacher is the tenant identity; every other record is owned by one.
type Teacher struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TeacherInfo describes a teacher in API responses.
type TeacherInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Info projects the persisted row into its response shape.
func (t *Teacher) Info() TeacherInfo {
	return TeacherInfo{ID: t.ID, Email: t.Email, Name: t.Name, CreatedAt: t.CreatedAt}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
