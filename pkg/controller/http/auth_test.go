package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"email": "alice@example.com", "password": "correct horse", "name": "Alice"}

	w := env.do(t, http.MethodPost, "/api/auth/register", creds, nil)
	gt.Equal(t, http.StatusCreated, w.Code)
	user := decodeBody[model.User](t, w)
	gt.Equal(t, "alice@example.com", user.Email)
	gt.False(t, strings.Contains(w.Body.String(), "password"))

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register", creds, nil)
		gt.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "alice@example.com", "password": "wrong horse",
		}, nil)
		gt.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w = env.do(t, http.MethodPost, "/api/auth/login", creds, nil)
	gt.Equal(t, http.StatusOK, w.Code)
	challenge := decodeBody[model.LoginChallenge](t, w)
	gt.NotEqual(t, "", challenge.Token)
	gt.Equal(t, 0, len(w.Result().Cookies()))

	t.Run("wrong code", func(t *testing.T) {
		code := env.lastCode(t)
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}
		w := env.do(t, http.MethodPost, "/api/auth/verify", map[string]string{
			"challenge_token": challenge.Token, "code": wrong,
		}, nil)
		gt.Equal(t, http.StatusUnauthorized, w.Code)
		gt.Equal(t, 0, len(w.Result().Cookies()))
	})

	t.Run("resend issues a new token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/resend", map[string]string{
			"challenge_token": challenge.Token,
		}, nil)
		gt.Equal(t, http.StatusOK, w.Code)
		previous := challenge
		challenge = decodeBody[model.LoginChallenge](t, w)

		w = env.do(t, http.MethodPost, "/api/auth/resend", map[string]string{
			"challenge_token": previous.Token,
		}, nil)
		gt.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w = env.do(t, http.MethodPost, "/api/auth/verify", map[string]string{
		"challenge_token": challenge.Token, "code": env.lastCode(t),
	}, nil)
	gt.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	id := findCookie(cookies, "session_id")
	secret := findCookie(cookies, "session_secret")
	gt.NotNil(t, id)
	gt.NotNil(t, secret)
	gt.True(t, id.HttpOnly)
	gt.Equal(t, http.SameSiteLaxMode, id.SameSite)
	gt.True(t, secret.Secure) // example.com is not a local host

	w = env.do(t, http.MethodGet, "/api/user/me", nil, cookies)
	gt.Equal(t, http.StatusOK, w.Code)
	me := decodeBody[model.User](t, w)
	gt.Equal(t, user.ID, me.ID)

	w = env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	gt.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		gt.True(t, c.MaxAge < 0)
	}

	w = env.do(t, http.MethodGet, "/api/user/me", nil, cookies)
	gt.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyOnLocalhostSetsInsecureCookies(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"email": "dev@example.com", "password": "correct horse", "name": "Dev"}
	gt.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/auth/register", creds, nil).Code)

	w := env.do(t, http.MethodPost, "/api/auth/login", creds, nil)
	challenge := decodeBody[model.LoginChallenge](t, w)

	req := jsonRequest(t, http.MethodPost, "/api/auth/verify", map[string]string{
		"challenge_token": challenge.Token, "code": env.lastCode(t),
	})
	req.Host = "localhost:8080"
	w = env.send(req)
	gt.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		gt.False(t, c.Secure)
	}
}
