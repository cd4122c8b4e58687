package models

import "time"

// Role constants for user accounts.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account stored in the internal database.
// Auth and identity only; agreement history lives in the agreement store.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// SystemKeyValue is a system-level configuration entry (schema version,
// runtime settings). Not user-scoped.
type SystemKeyValue struct {
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}
