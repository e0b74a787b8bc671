package domain

import "time"

// UserRole enumerates account roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Valid reports whether the role is a known value.
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User is the domain model for accounts. Associations is a
// comma-separated list of department tags; see departments.go.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         UserRole
	Associations string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Tags returns the user's association tags as a set.
func (u *User) Tags() TagSet {
	return ParseAssociations(u.Associations)
}
