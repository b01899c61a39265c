package model

import "strings"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts the role names case-insensitively. An empty string means
// the default role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleStudent:
		return RoleStudent, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User is never mutated after registration. Email is the login key but is
// not unique: two registrations with the same address produce two records
// and login resolves to the first one.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
