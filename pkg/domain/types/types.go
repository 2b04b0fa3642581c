package types

import (
	"github.com/google/uuid"
)

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// NewUserID creates a new UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// SessionID represents a session identifier
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID using UUID v7
func NewSessionID() (SessionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return SessionID(id.String()), nil
}

// SessionSecret represents a session secret token
type SessionSecret string

// String returns the string representation
func (s SessionSecret) String() string {
	return string(s)
}

// DeviceID identifies one donated device
type DeviceID string

// String returns the string representation
func (id DeviceID) String() string {
	return string(id)
}

// NewDeviceID creates a time-ordered DeviceID. UUID v7 keeps document IDs roughly
// in donation order, which makes Firestore listings easier to read.
func NewDeviceID() DeviceID {
	id, err := uuid.NewV7()
	if err != nil {
		return DeviceID(uuid.New().String())
	}
	return DeviceID(id.String())
}

// ChallengeID identifies a pending two-factor challenge
type ChallengeID string

// String returns the string representation
func (id ChallengeID) String() string {
	return string(id)
}

// NewChallengeID creates a new ChallengeID
func NewChallengeID() ChallengeID {
	return ChallengeID(uuid.New().String())
}

// ContactMessageID identifies a message sent through the contact form
type ContactMessageID string

// String returns the string representation
func (id ContactMessageID) String() string {
	return string(id)
}

// NewContactMessageID creates a new ContactMessageID
func NewContactMessageID() ContactMessageID {
	return ContactMessageID(uuid.New().String())
}

// Role is the access level of a user
type Role string

const (
	RoleDonor Role = "donor"
	RoleAdmin Role = "admin"
)

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RoleAdmin:
		return true
	}
	return false
}
