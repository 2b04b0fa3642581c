package http

import (
	"net/http"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
}

type resendRequest struct {
	ChallengeToken string `json:"challenge_token"`
}

// HandleRegister creates an account
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authUC.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, user)
}

// HandleLogin checks the password and starts the emailed second step
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	challenge, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, challenge)
}

// HandleVerify completes the login and sets the session cookies
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.authUC.VerifyCode(r.Context(), req.ChallengeToken, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	secure := !isLocalhost(r)
	setCookie(w, sessionIDCookie, session.ID.String(), session.ExpiresAt, secure)
	setCookie(w, sessionSecretCookie, session.Secret.String(), session.ExpiresAt, secure)

	user, err := h.authUC.GetUserFromSession(r.Context(), session.ID.String())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctxlog.From(r.Context()).Info("User authenticated successfully",
		"userID", user.ID,
	)

	writeJSON(w, r, http.StatusOK, user)
}

// HandleResend emails a fresh verification code
func (h *AuthHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	challenge, err := h.authUC.ResendCode(r.Context(), req.ChallengeToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, challenge)
}

// HandleLogout handles logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionIDCookie); err == nil {
		if err := h.authUC.DeleteSession(r.Context(), c.Value); err != nil {
			ctxlog.From(r.Context()).Debug("Failed to delete session", "error", err)
		}
	}

	clearCookie(w, sessionIDCookie)
	clearCookie(w, sessionSecretCookie)

	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// HandleUserMe returns current user information
func (h *AuthHandler) HandleUserMe(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := model.GetAuthContext(r.Context())
	if !ok {
		writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "no authenticated caller"))
		return
	}

	user, err := h.authUC.GetUserFromSession(r.Context(), authCtx.SessionID.String())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, user)
}

func setCookie(w http.ResponseWriter, name, value string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
