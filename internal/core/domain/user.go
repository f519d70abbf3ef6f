package domain

import "time"

// Role determines which operations an identity may perform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Roles lists every role accepted at registration.
var Roles = []Role{RoleAdmin, RoleManager, RoleUser}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User models a registered account. Users are never updated or deleted.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the username/role pair proven by a valid session token.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
