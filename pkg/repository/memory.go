package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu         sync.RWMutex
	users      map[types.UserID]*model.User
	sessions   map[types.SessionID]*model.Session
	challenges map[types.ChallengeID]*model.TwoFactorChallenge
	devices    map[types.DeviceID]*model.Device
	contacts   map[types.ContactMessageID]*model.ContactMessage
}

var _ interfaces.Repository = (*Memory)(nil)

// NewMemory creates a new memory repository
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[types.UserID]*model.User),
		sessions:   make(map[types.SessionID]*model.Session),
		challenges: make(map[types.ChallengeID]*model.TwoFactorChallenge),
		devices:    make(map[types.DeviceID]*model.Device),
		contacts:   make(map[types.ContactMessageID]*model.ContactMessage),
	}
}

// SaveUser saves a user to memory
func (m *Memory) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	userCopy := *user
	m.users[user.ID] = &userCopy
	return nil
}

// GetUser retrieves a user by ID
func (m *Memory) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no user with ID", goerr.V("user_id", id))
	}

	userCopy := *user
	return &userCopy, nil
}

// GetUserByEmail retrieves a user by normalized email address
func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			userCopy := *user
			return &userCopy, nil
		}
	}
	return nil, goerr.Wrap(model.ErrUserNotFound, "no user with email", goerr.V("email", email))
}

// SaveSession saves a session to memory
func (m *Memory) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessionCopy := *session
	m.sessions[session.ID] = &sessionCopy
	return nil
}

// GetSession retrieves a session by ID
func (m *Memory) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "no session with ID", goerr.V("session_id", id))
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// DeleteSession deletes a session. Deleting an unknown session is not an error.
func (m *Memory) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// SaveChallenge saves a two-factor challenge
func (m *Memory) SaveChallenge(ctx context.Context, challenge *model.TwoFactorChallenge) error {
	if challenge == nil {
		return goerr.New("challenge is nil")
	}
	if challenge.ID == "" {
		return goerr.New("challenge ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	challengeCopy := *challenge
	m.challenges[challenge.ID] = &challengeCopy
	return nil
}

// GetChallenge retrieves a two-factor challenge by ID
func (m *Memory) GetChallenge(ctx context.Context, id types.ChallengeID) (*model.TwoFactorChallenge, error) {
	if id == "" {
		return nil, goerr.New("challenge ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	challenge, exists := m.challenges[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrChallengeNotFound, "no challenge with ID", goerr.V("challenge_id", id))
	}

	challengeCopy := *challenge
	return &challengeCopy, nil
}

// DeleteChallenge deletes a two-factor challenge
func (m *Memory) DeleteChallenge(ctx context.Context, id types.ChallengeID) error {
	if id == "" {
		return goerr.New("challenge ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.challenges, id)
	return nil
}

// SaveDevices stores a batch of devices. The batch is rejected as a whole if
// any device is invalid.
func (m *Memory) SaveDevices(ctx context.Context, devices []*model.Device) error {
	for i, d := range devices {
		if err := checkDevice(d); err != nil {
			return goerr.Wrap(err, "invalid device in batch", goerr.V("index", i))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range devices {
		deviceCopy := *d
		m.devices[d.ID] = &deviceCopy
	}
	return nil
}

// ListDevicesByUser lists the devices donated by userID
func (m *Memory) ListDevicesByUser(ctx context.Context, userID types.UserID) ([]*model.Device, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var devices []*model.Device
	for _, d := range m.devices {
		if d.UserID == userID {
			deviceCopy := *d
			devices = append(devices, &deviceCopy)
		}
	}

	sortDevices(devices)
	return devices, nil
}

// ListAllDevices lists every donated device
func (m *Memory) ListAllDevices(ctx context.Context) ([]*model.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]*model.Device, 0, len(m.devices))
	for _, d := range m.devices {
		deviceCopy := *d
		devices = append(devices, &deviceCopy)
	}

	sortDevices(devices)
	return devices, nil
}

// SaveContactMessage stores a contact form submission
func (m *Memory) SaveContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	if msg == nil {
		return goerr.New("contact message is nil")
	}
	if msg.ID == "" {
		return goerr.New("contact message ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	msgCopy := *msg
	m.contacts[msg.ID] = &msgCopy
	return nil
}

// CountContactMessages returns the number of stored contact messages
func (m *Memory) CountContactMessages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contacts)
}

// Close closes the repository (no-op for memory)
func (m *Memory) Close() error {
	return nil
}

func checkDevice(d *model.Device) error {
	if d == nil {
		return goerr.New("device is nil")
	}
	if d.ID == "" {
		return goerr.New("device ID is empty")
	}
	if d.UserID == "" {
		return goerr.New("device user ID is empty", goerr.V("device_id", d.ID))
	}
	return nil
}

// sortDevices orders devices by donation date, then ID for a stable listing.
func sortDevices(devices []*model.Device) {
	sort.Slice(devices, func(i, j int) bool {
		if !devices[i].DonatedAt.Equal(devices[j].DonatedAt) {
			return devices[i].DonatedAt.Before(devices[j].DonatedAt)
		}
		return devices[i].ID < devices[j].ID
	})
}
