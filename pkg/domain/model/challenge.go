package model

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/types"
)

const (
	// CodeDigits is the length of an emailed verification code
	CodeDigits = 6
	// ChallengeDuration bounds how long a code may be used
	ChallengeDuration = 10 * time.Minute
	// MaxCodeAttempts is the number of wrong codes that burn a challenge,
	// counted across resends
	MaxCodeAttempts = 5
	// MaxCodeResends is how many times one challenge may be sent a new code
	MaxCodeResends = 3
)

// TwoFactorChallenge is a pending second login step. Only the hash of the
// emailed code is stored.
type TwoFactorChallenge struct {
	ID       types.ChallengeID `json:"id" firestore:"id"`
	UserID   types.UserID      `json:"user_id" firestore:"user_id"`
	CodeHash string            `json:"-" firestore:"code_hash"`
	Attempts int               `json:"attempts" firestore:"attempts"`
	Resends  int               `json:"resends" firestore:"resends"`
	// Version increases with every new code. Tokens naming an older version
	// are stale.
	Version   int       `json:"version" firestore:"version"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	ExpiresAt time.Time `json:"expires_at" firestore:"expires_at"`
}

// NewTwoFactorChallenge creates a challenge for userID and returns it together
// with the plain code to send.
func NewTwoFactorChallenge(userID types.UserID, now time.Time) (*TwoFactorChallenge, string, error) {
	c := &TwoFactorChallenge{
		ID:        types.NewChallengeID(),
		UserID:    userID,
		CreatedAt: now,
	}
	code, err := c.newCode(now)
	if err != nil {
		return nil, "", err
	}
	return c, code, nil
}

// Reissue replaces the code and restarts the expiry. Wrong attempts made
// against earlier codes still count. Fails with ErrTooManyResends once
// MaxCodeResends is reached.
func (c *TwoFactorChallenge) Reissue(now time.Time) (string, error) {
	if c.Resends >= MaxCodeResends {
		return "", ErrTooManyResends
	}
	code, err := c.newCode(now)
	if err != nil {
		return "", err
	}
	c.Resends++
	return code, nil
}

func (c *TwoFactorChallenge) newCode(now time.Time) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	c.CodeHash = HashCode(code)
	c.Version++
	c.ExpiresAt = now.Add(ChallengeDuration)
	return code, nil
}

// IsExpired reports whether the code can no longer be used at now
func (c *TwoFactorChallenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Matches compares code against the stored hash in constant time
func (c *TwoFactorChallenge) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(c.CodeHash), []byte(HashCode(code))) == 1
}

// RemainingAttempts is how many wrong codes are still tolerated
func (c *TwoFactorChallenge) RemainingAttempts() int {
	if c.Attempts >= MaxCodeAttempts {
		return 0
	}
	return MaxCodeAttempts - c.Attempts
}

// GenerateCode returns a uniformly random numeric code of CodeDigits digits.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeDigits, n.Int64()), nil
}

// HashCode returns the hex SHA-256 of code
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
