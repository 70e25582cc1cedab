package model

import "time"

// UserID uniquely identifies a user account
type UserID int64

// User represents a portal account, either a player or an administrator
type User struct {
	ID           UserID
	Username     string // unique
	Phone        string // unique, normalized to digits only
	PasswordHash string // bcrypt hash
	IsAdmin      bool
	CreatedAt    time.Time
}
