package domain

import "time"

// AdminUser is a back-office operator. Admins authenticate by their unique
// name and are implicitly trusted once created; there is no verification
// step like client accounts have.
type AdminUser struct {
	ID           string
	Name         string
	PasswordHash string // bcrypt encoded, never serialized
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
