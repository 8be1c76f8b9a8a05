package domain

import (
	"fmt"
	"strings"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// roleAliases maps the labels used by the legacy front-end onto roles.
var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"trainer":       RoleTrainer,
	"entrenador":    RoleTrainer,
	"client":        RoleClient,
	"cliente":       RoleClient,
}

// ParseRole is case-insensitive and falls back to RoleClient for blank or
// unknown input.
func ParseRole(s string) Role {
	if r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r
	}
	return RoleClient
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleClient:
		return true
	}
	return false
}

// User represents anyone known to the system: an admin, a trainer or a client.
type User struct {
	ID   int64  `json:"id"`   // Positive, unique within the users collection
	Name string `json:"name"` // Trimmed, never blank once stored
	Role Role   `json:"role"`
}

// NewUser builds a normalized User.
func NewUser(id int64, name, role string) User {
	return User{
		ID:   id,
		Name: strings.TrimSpace(name),
		Role: ParseRole(role),
	}
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// Describe renders the user as "Name (role)".
func (u User) Describe() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.Role)
}

// Document serializes the user.
func (u User) Document() Document {
	return Document{
		"id":   u.ID,
		"name": u.Name,
		"role": string(u.Role),
	}
}

// UserFromDocument deserializes a user. It requires a positive id and a
// non-blank name; the role is normalized.
func UserFromDocument(doc Document) (User, bool) {
	if doc == nil {
		return User{}, false
	}
	id, ok := intField(doc, "id")
	if !ok || id <= 0 {
		return User{}, false
	}
	name, ok := stringField(doc, "name")
	if !ok || name == "" {
		return User{}, false
	}
	role, _ := stringField(doc, "role")
	return NewUser(id, name, role), true
}
