package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	mailsvc "github.com/ecoloop/ecoloop/pkg/service/mail"
	"github.com/ecoloop/ecoloop/pkg/utils/metrics"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest accepted password
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes
	MaxPasswordLength = 72
)

// Auth implements AuthUseCase with password login, an emailed second factor
// and repository-based sessions.
type Auth struct {
	repo    interfaces.Repository
	mailer  interfaces.Mailer
	tokens  *challengeTokens
	metrics *metrics.Registry

	adminEmails map[string]struct{}
	bcryptCost  int
	dummyHash   []byte
	now         func() time.Time
}

// AuthOption configures Auth
type AuthOption func(*Auth)

// WithAdminEmails grants the admin role to accounts registered with these
// addresses.
func WithAdminEmails(emails ...string) AuthOption {
	return func(a *Auth) {
		for _, e := range emails {
			if e = model.NormalizeEmail(e); e != "" {
				a.adminEmails[e] = struct{}{}
			}
		}
	}
}

// WithAuthMetrics records issued challenges and failed codes
func WithAuthMetrics(reg *metrics.Registry) AuthOption {
	return func(a *Auth) {
		a.metrics = reg
	}
}

// WithAuthClock replaces time.Now for challenge expiry
func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *Auth) {
		a.now = now
	}
}

// WithBcryptCost sets the password hashing cost
func WithBcryptCost(cost int) AuthOption {
	return func(a *Auth) {
		a.bcryptCost = cost
	}
}

// NewAuth creates a new Auth use case. tokenSecret signs challenge tokens and
// must be at least MinTokenSecretLength bytes.
func NewAuth(repo interfaces.Repository, mailer interfaces.Mailer, tokenSecret []byte, opts ...AuthOption) (*Auth, error) {
	a := &Auth{
		repo:        repo,
		mailer:      mailer,
		adminEmails: make(map[string]struct{}),
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	tokens, err := newChallengeTokens(tokenSecret, func() time.Time { return a.now() })
	if err != nil {
		return nil, err
	}
	a.tokens = tokens

	// Compared against when the email is unknown so both failures cost the same
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), a.bcryptCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare password hashing", goerr.V("cost", a.bcryptCost))
	}
	a.dummyHash = dummy

	return a, nil
}

// Register creates a donor account. The email must not be registered yet.
func (a *Auth) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	logger := ctxlog.From(ctx)

	email = model.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, goerr.New("password length out of range",
			goerr.V("min", MinPasswordLength),
			goerr.V("max", MaxPasswordLength),
			goerr.T(model.ErrTagValidation))
	}

	if _, err := a.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, goerr.Wrap(model.ErrUserAlreadyExists, "email already registered", goerr.V("email", email))
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, goerr.Wrap(err, "failed to look up user", goerr.V("email", email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	role := types.RoleDonor
	if _, ok := a.adminEmails[email]; ok {
		role = types.RoleAdmin
	}

	user := model.NewUser(email, name, string(hash), role)
	if err := a.repo.SaveUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to save user", goerr.V("email", email))
	}

	logger.Info("Registered user",
		"userID", user.ID,
		"role", user.Role,
	)

	return user, nil
}

// Login checks the password, emails a verification code and returns the
// token that identifies the pending challenge.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.LoginChallenge, error) {
	logger := ctxlog.From(ctx)

	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "email and password are required")
	}

	user, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			return nil, goerr.Wrap(err, "failed to look up user")
		}
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "unknown email")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Info("Password mismatch", "userID", user.ID)
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "password mismatch")
	}

	challenge, code, err := model.NewTwoFactorChallenge(user.ID, a.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create challenge")
	}
	if err := a.repo.SaveChallenge(ctx, challenge); err != nil {
		return nil, goerr.Wrap(err, "failed to save challenge")
	}

	if err := a.sendCode(ctx, user, code); err != nil {
		return nil, err
	}

	logger.Info("Issued verification code",
		"userID", user.ID,
		"challengeID", challenge.ID,
		"expiresAt", challenge.ExpiresAt,
	)

	return a.challengeResponse(challenge)
}

// VerifyCode checks the emailed code. A wrong code counts against the
// challenge and the last allowed failure burns it. Success creates a session.
func (a *Auth) VerifyCode(ctx context.Context, challengeToken, code string) (*model.Session, error) {
	logger := ctxlog.From(ctx)

	challenge, err := a.loadChallenge(ctx, challengeToken)
	if err != nil {
		return nil, err
	}

	code = strings.Join(strings.Fields(code), "")
	if !challenge.Matches(code) {
		a.metrics.ObserveVerifyFailure()
		challenge.Attempts++

		if challenge.Attempts >= model.MaxCodeAttempts {
			if err := a.repo.DeleteChallenge(ctx, challenge.ID); err != nil {
				return nil, goerr.Wrap(err, "failed to delete challenge", goerr.V("challengeID", challenge.ID))
			}
			logger.Warn("Verification challenge exhausted",
				"userID", challenge.UserID,
				"challengeID", challenge.ID,
			)
			return nil, goerr.Wrap(model.ErrTooManyAttempts, "challenge exhausted", goerr.V("challengeID", challenge.ID))
		}

		if err := a.repo.SaveChallenge(ctx, challenge); err != nil {
			return nil, goerr.Wrap(err, "failed to save challenge", goerr.V("challengeID", challenge.ID))
		}
		return nil, goerr.Wrap(model.ErrInvalidCode, "code mismatch",
			goerr.V("challengeID", challenge.ID),
			goerr.V("remaining", challenge.RemainingAttempts()))
	}

	if err := a.repo.DeleteChallenge(ctx, challenge.ID); err != nil {
		return nil, goerr.Wrap(err, "failed to delete challenge", goerr.V("challengeID", challenge.ID))
	}

	session, err := model.NewSession(challenge.UserID, model.SessionDuration)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}
	if err := a.repo.SaveSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	logger.Info("Created new session",
		"sessionID", session.ID,
		"userID", session.UserID,
		"expiresAt", session.ExpiresAt,
	)

	return session, nil
}

// ResendCode replaces the code of a pending challenge and emails it again.
// The returned token supersedes the previous one, which stops working. Wrong
// attempts carry over and a challenge can be resent at most MaxCodeResends
// times.
func (a *Auth) ResendCode(ctx context.Context, challengeToken string) (*model.LoginChallenge, error) {
	challenge, err := a.loadChallenge(ctx, challengeToken)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.GetUser(ctx, challenge.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("userID", challenge.UserID))
	}

	code, err := challenge.Reissue(a.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to reissue code")
	}
	if err := a.repo.SaveChallenge(ctx, challenge); err != nil {
		return nil, goerr.Wrap(err, "failed to save challenge", goerr.V("challengeID", challenge.ID))
	}

	if err := a.sendCode(ctx, user, code); err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Info("Reissued verification code",
		"userID", user.ID,
		"challengeID", challenge.ID,
	)

	return a.challengeResponse(challenge)
}

// loadChallenge resolves a token to a live challenge. Expired and exhausted
// challenges are deleted.
func (a *Auth) loadChallenge(ctx context.Context, challengeToken string) (*model.TwoFactorChallenge, error) {
	claims, err := a.tokens.parse(challengeToken)
	if err != nil {
		return nil, err
	}
	challengeID := claims.challengeID

	challenge, err := a.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get challenge", goerr.V("challengeID", challengeID))
	}
	if challenge.UserID != claims.userID {
		return nil, goerr.Wrap(model.ErrChallengeNotFound, "challenge belongs to another user",
			goerr.V("challengeID", challengeID))
	}
	if challenge.Version != claims.version {
		return nil, goerr.Wrap(model.ErrInvalidChallenge, "challenge token was superseded by a resend",
			goerr.V("challengeID", challengeID),
			goerr.V("tokenVersion", claims.version),
			goerr.V("version", challenge.Version))
	}

	if challenge.IsExpired(a.now()) {
		if err := a.repo.DeleteChallenge(ctx, challenge.ID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete challenge", goerr.V("challengeID", challenge.ID))
		}
		return nil, goerr.Wrap(model.ErrChallengeExpired, "challenge expired", goerr.V("challengeID", challenge.ID))
	}
	if challenge.RemainingAttempts() == 0 {
		if err := a.repo.DeleteChallenge(ctx, challenge.ID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete challenge", goerr.V("challengeID", challenge.ID))
		}
		return nil, goerr.Wrap(model.ErrTooManyAttempts, "challenge exhausted", goerr.V("challengeID", challenge.ID))
	}

	return challenge, nil
}

func (a *Auth) sendCode(ctx context.Context, user *model.User, code string) error {
	email, err := mailsvc.LoginCodeEmail(user, code, model.ChallengeDuration)
	if err != nil {
		return goerr.Wrap(err, "failed to build verification email")
	}
	if err := a.mailer.Send(ctx, email); err != nil {
		return goerr.Wrap(err, "failed to send verification code",
			goerr.V("userID", user.ID),
			goerr.T(model.ErrTagUnavailable))
	}
	a.metrics.ObserveChallenge()
	return nil
}

func (a *Auth) challengeResponse(challenge *model.TwoFactorChallenge) (*model.LoginChallenge, error) {
	token, err := a.tokens.issue(challenge)
	if err != nil {
		return nil, err
	}
	return &model.LoginChallenge{
		Token:     token,
		ExpiresAt: challenge.ExpiresAt,
	}, nil
}

// ValidateSession validates a session by ID and secret
func (a *Auth) ValidateSession(ctx context.Context, sessionID, sessionSecret string) (*model.Session, error) {
	if sessionID == "" || sessionSecret == "" {
		return nil, goerr.Wrap(model.ErrInvalidSession, "session ID and secret are required")
	}

	session, err := a.repo.GetSession(ctx, types.SessionID(sessionID))
	if err != nil {
		return nil, goerr.Wrap(err, "session not found")
	}

	if subtle.ConstantTimeCompare([]byte(session.Secret), []byte(sessionSecret)) != 1 {
		return nil, goerr.Wrap(model.ErrInvalidSession, "invalid session secret")
	}

	if session.IsExpired() {
		return nil, goerr.Wrap(model.ErrSessionExpired, "session expired", goerr.V("sessionID", sessionID))
	}

	return session, nil
}

// DeleteSession deletes a session
func (a *Auth) DeleteSession(ctx context.Context, sessionID string) error {
	logger := ctxlog.From(ctx)

	if sessionID == "" {
		return goerr.Wrap(model.ErrInvalidSession, "session ID is required")
	}

	if err := a.repo.DeleteSession(ctx, types.SessionID(sessionID)); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	logger.Info("Deleted session",
		"sessionID", sessionID,
	)

	return nil
}

// GetUserFromSession gets user information from a session
func (a *Auth) GetUserFromSession(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, goerr.Wrap(model.ErrInvalidSession, "session ID is required")
	}

	session, err := a.repo.GetSession(ctx, types.SessionID(sessionID))
	if err != nil {
		return nil, goerr.Wrap(err, "session not found")
	}

	if session.IsExpired() {
		return nil, goerr.Wrap(model.ErrSessionExpired, "session expired", goerr.V("sessionID", sessionID))
	}

	user, err := a.repo.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "user not found")
	}

	return user, nil
}

// validateEmail accepts a bare address without display name
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return goerr.New("invalid email address",
			goerr.V("email", email),
			goerr.T(model.ErrTagValidation))
	}
	return nil
}
