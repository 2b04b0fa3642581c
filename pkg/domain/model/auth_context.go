package model

import (
	"context"

	"github.com/ecoloop/ecoloop/pkg/domain/types"
)

type contextKey string

const authContextKey contextKey = "authContext"

// AuthContext carries the authenticated caller. It is copied into background
// work so receipts and logs keep the user attribution.
type AuthContext struct {
	UserID    types.UserID    `json:"user_id,omitempty"`
	SessionID types.SessionID `json:"session_id,omitempty"`
	Email     string          `json:"email,omitempty"`
	Role      types.Role      `json:"role,omitempty"`
}

// NewAuthContext builds an AuthContext for user within session
func NewAuthContext(user *User, sessionID types.SessionID) *AuthContext {
	return &AuthContext{
		UserID:    user.ID,
		SessionID: sessionID,
		Email:     user.Email,
		Role:      user.Role,
	}
}

// IsAdmin reports whether the caller has the admin role
func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Role == types.RoleAdmin
}

// WithAuthContext adds AuthContext to the context
func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	if authCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, authContextKey, authCtx)
}

// GetAuthContext retrieves AuthContext from the context
func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*AuthContext)
	return authCtx, ok && authCtx != nil
}

// Clone creates a copy of the AuthContext
func (a *AuthContext) Clone() *AuthContext {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
