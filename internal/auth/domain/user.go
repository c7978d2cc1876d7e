package domain

import "time"

// User is an end-user client account. Level and the exp counters belong to
// the gamification layer; auth only copies them into the token claims at
// issuance time.
type User struct {
	ID                      string
	NickName                string
	Email                   string
	PasswordHash            string // bcrypt encoded, never serialized
	Level                   int
	ExpRequiredForNextLevel int
	CurrentExp              int
	IsVerified              bool
	VerificationCode        string
	VerificationCodeAt      *time.Time // when the current code was issued
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
