package usecase

import (
	"strconv"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

const (
	tokenIssuer = "ecoloop"
	// versionClaim names the code version the token was issued for
	versionClaim = "ver"

	// MinTokenSecretLength is the shortest accepted HS256 signing key
	MinTokenSecretLength = 32
)

// challengeTokens signs and verifies the token handed to the browser between
// the password step and the code step.
type challengeClaims struct {
	userID      types.UserID
	challengeID types.ChallengeID
	version     int
}

type challengeTokens struct {
	secret []byte
	now    func() time.Time
}

func newChallengeTokens(secret []byte, now func() time.Time) (*challengeTokens, error) {
	if len(secret) < MinTokenSecretLength {
		return nil, goerr.New("token secret is too short",
			goerr.V("length", len(secret)),
			goerr.V("min", MinTokenSecretLength))
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &challengeTokens{secret: key, now: now}, nil
}

// issue signs a token naming the challenge and its user. It expires with the
// challenge.
func (t *challengeTokens) issue(challenge *model.TwoFactorChallenge) (string, error) {
	tok, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(challenge.UserID.String()).
		JwtID(challenge.ID.String()).
		IssuedAt(t.now()).
		Expiration(challenge.ExpiresAt).
		Claim(versionClaim, strconv.Itoa(challenge.Version)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build challenge token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, t.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign challenge token")
	}
	return string(signed), nil
}

// parse verifies signature, issuer and expiry and returns the claims.
func (t *challengeTokens) parse(token string) (*challengeClaims, error) {
	if token == "" {
		return nil, goerr.Wrap(model.ErrInvalidChallenge, "challenge token is empty")
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, t.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInvalidChallenge, "failed to verify challenge token",
			goerr.V("cause", err.Error()))
	}

	if tok.Subject() == "" || tok.JwtID() == "" {
		return nil, goerr.Wrap(model.ErrInvalidChallenge, "challenge token lacks claims")
	}

	raw, _ := tok.Get(versionClaim)
	text, _ := raw.(string)
	version, err := strconv.Atoi(text)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInvalidChallenge, "challenge token lacks code version")
	}

	return &challengeClaims{
		userID:      types.UserID(tok.Subject()),
		challengeID: types.ChallengeID(tok.JwtID()),
		version:     version,
	}, nil
}
