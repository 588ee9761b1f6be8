package domain

import "time"

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string
	Email        string // lowercase, unique
	FullName     string
	Username     string // unique
	PasswordHash string // argon2 encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName falls back to the username when no full name was given.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
