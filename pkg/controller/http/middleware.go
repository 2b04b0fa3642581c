package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/ecoloop/ecoloop/pkg/utils/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	sessionIDCookie     = "session_id"
	sessionSecretCookie = "session_secret"
)

// Middleware provides session-based access control
type Middleware struct {
	authUC usecase.AuthUseCase
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authUC usecase.AuthUseCase) *Middleware {
	return &Middleware{
		authUC: authUC,
	}
}

// RequireAuth middleware checks session authentication and stores the caller
// in the request context (chi compatible)
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idCookie, err := r.Cookie(sessionIDCookie)
		if err != nil {
			writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "missing session_id"))
			return
		}
		secretCookie, err := r.Cookie(sessionSecretCookie)
		if err != nil {
			writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "missing session_secret"))
			return
		}

		session, err := m.authUC.ValidateSession(r.Context(), idCookie.Value, secretCookie.Value)
		if err != nil {
			writeError(w, r, err)
			return
		}

		user, err := m.authUC.GetUserFromSession(r.Context(), session.ID.String())
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := model.WithAuthContext(r.Context(), model.NewAuthContext(user, session.ID))
		logger := ctxlog.From(ctx).With("userID", user.ID)
		ctx = ctxlog.With(ctx, logger)

		logger.Debug("Authenticated request",
			"sessionID", session.ID,
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the admin role. It must run after
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, ok := model.GetAuthContext(r.Context())
		if !ok {
			writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "no authenticated caller"))
			return
		}
		if !authCtx.IsAdmin() {
			writeError(w, r, goerr.New("admin role required",
				goerr.V("userID", authCtx.UserID),
				goerr.T(model.ErrTagForbidden)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckOrigin rejects cross-site requests that change state. Requests
// without an Origin header are not browser cross-site requests and pass.
func CheckOrigin(frontendURL string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin != "" && !SameHost(origin, GetFrontendURL(r, frontendURL)) {
				writeError(w, r, goerr.New("cross-origin request rejected",
					goerr.V("origin", origin),
					goerr.T(model.ErrTagForbidden)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Embed logger from the initial context into request context
			logger := ctxlog.From(ctx).With("requestID", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// MetricsMiddleware observes request latency by route pattern
func MetricsMiddleware(reg *metrics.Registry) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reg.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}

// isLocalhost reports whether the request targets a local development host
func isLocalhost(r *http.Request) bool {
	host := r.Host
	if u, err := url.Parse("//" + host); err == nil {
		host = u.Hostname()
	}
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
