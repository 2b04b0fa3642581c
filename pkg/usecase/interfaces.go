package usecase

import (
	"context"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/ecoloop/ecoloop/pkg/timeline"
)

// AuthUseCase defines the interface for account and session operations
type AuthUseCase interface {
	// Register creates a donor account
	Register(ctx context.Context, email, password, name string) (*model.User, error)

	// Login checks the password and emails a verification code
	Login(ctx context.Context, email, password string) (*model.LoginChallenge, error)

	// VerifyCode completes a login and creates a session
	VerifyCode(ctx context.Context, challengeToken, code string) (*model.Session, error)

	// ResendCode emails a fresh code for a pending login
	ResendCode(ctx context.Context, challengeToken string) (*model.LoginChallenge, error)

	// ValidateSession validates a session by ID and secret
	ValidateSession(ctx context.Context, sessionID, sessionSecret string) (*model.Session, error)

	// DeleteSession deletes a session
	DeleteSession(ctx context.Context, sessionID string) error

	// GetUserFromSession gets user information from a session
	GetUserFromSession(ctx context.Context, sessionID string) (*model.User, error)
}

// DonationUseCase defines the interface for device donations and impact
type DonationUseCase interface {
	Submit(ctx context.Context, userID types.UserID, rows []model.DeviceSubmission) ([]*model.Device, error)
	ListDevices(ctx context.Context, userID types.UserID) ([]*model.Device, error)
	ListAllDevices(ctx context.Context) ([]*model.Device, error)
	Impact(ctx context.Context, userID types.UserID, window timeline.Window) (*model.ImpactReport, error)
	ExtractSerial(ctx context.Context, image []byte) (string, error)
	DeviceTypes() []impact.DeviceType
}

// ContactUseCase defines the interface for the public contact form
type ContactUseCase interface {
	Send(ctx context.Context, msg model.ContactMessage) (*model.ContactMessage, error)
}
