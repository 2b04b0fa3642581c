package interfaces

import (
	"context"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id types.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id types.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id types.SessionID) error

	// Two-factor challenge operations
	SaveChallenge(ctx context.Context, challenge *model.TwoFactorChallenge) error
	GetChallenge(ctx context.Context, id types.ChallengeID) (*model.TwoFactorChallenge, error)
	DeleteChallenge(ctx context.Context, id types.ChallengeID) error

	// Device operations. Listings are ordered by donation date, oldest first.
	SaveDevices(ctx context.Context, devices []*model.Device) error
	ListDevicesByUser(ctx context.Context, userID types.UserID) ([]*model.Device, error)
	ListAllDevices(ctx context.Context) ([]*model.Device, error)

	// Contact form messages
	SaveContactMessage(ctx context.Context, msg *model.ContactMessage) error

	// Close closes the repository connection
	Close() error
}
