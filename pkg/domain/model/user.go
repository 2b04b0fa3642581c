package model

import (
	"strings"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/types"
)

// User is a registered donor or administrator
type User struct {
	ID           types.UserID `json:"id" firestore:"id"`
	Email        string       `json:"email" firestore:"email"`
	Name         string       `json:"name" firestore:"name"`
	PasswordHash string       `json:"-" firestore:"password_hash"`
	Role         types.Role   `json:"role" firestore:"role"`
	CreatedAt    time.Time    `json:"created_at" firestore:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" firestore:"updated_at"`
}

// NewUser creates a new User instance
func NewUser(email, name, passwordHash string, role types.Role) *User {
	now := time.Now()
	return &User{
		ID:           types.NewUserID(),
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin reports whether the user may see every donor's devices
func (u *User) IsAdmin() bool {
	return u.Role == types.RoleAdmin
}

// NormalizeEmail trims and lower-cases an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
