package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ecoloop/ecoloop/frontend"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/ecoloop/ecoloop/pkg/utils/apperr"
	"github.com/ecoloop/ecoloop/pkg/utils/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultMaxUploadSize = 12 << 20
	maxJSONBodySize      = 1 << 20
)

// Config holds HTTP server settings
type Config struct {
	Addr          string
	FrontendURL   string
	MaxUploadSize int64
	Metrics       *metrics.Registry
	// Frontend overrides the embedded single-page app
	Frontend http.FileSystem
}

// NewConfig creates a server configuration
func NewConfig(addr, frontendURL string, reg *metrics.Registry) *Config {
	return &Config{
		Addr:          addr,
		FrontendURL:   frontendURL,
		MaxUploadSize: defaultMaxUploadSize,
		Metrics:       reg,
	}
}

// UseCases bundles the application logic the handlers call
type UseCases struct {
	auth     usecase.AuthUseCase
	donation usecase.DonationUseCase
	contact  usecase.ContactUseCase
}

// NewUseCases creates a UseCases bundle
func NewUseCases(auth usecase.AuthUseCase, donation usecase.DonationUseCase, contact usecase.ContactUseCase) *UseCases {
	return &UseCases{
		auth:     auth,
		donation: donation,
		contact:  contact,
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, cfg *Config, uc *UseCases) (*Server, error) {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}

	router := chi.NewRouter()
	mw := NewMiddleware(uc.auth)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(MetricsMiddleware(cfg.Metrics))
	router.Use(middleware.Recoverer)

	authHandler := NewAuthHandler(uc.auth)
	donationHandler := NewDonationHandler(uc.donation, cfg.MaxUploadSize)
	contactHandler := NewContactHandler(uc.contact)

	// Health check
	router.Get("/health", handleHealth)
	router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(CheckOrigin(cfg.FrontendURL))
		r.NotFound(handleAPINotFound)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/verify", authHandler.HandleVerify)
			r.Post("/resend", authHandler.HandleResend)
			r.Post("/logout", authHandler.HandleLogout)
		})

		r.Get("/device-types", donationHandler.HandleDeviceTypes)
		r.Post("/contact", contactHandler.HandleContact)

		// Donor routes (protected)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Get("/user/me", authHandler.HandleUserMe)
			r.Get("/devices", donationHandler.HandleListDevices)
			r.Post("/devices", donationHandler.HandleSubmit)
			r.Get("/impact", donationHandler.HandleImpact)
			r.Post("/serial", donationHandler.HandleSerial)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Use(RequireAdmin)
			r.Get("/devices", donationHandler.HandleAllDevices)
		})
	})

	// Frontend routes (serve embedded or filesystem)
	fs := cfg.Frontend
	if fs == nil {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Embedded frontend not available", "error", err)
		}
		fs = embedded
	}
	if fs != nil {
		spa, err := NewSPAHandler(fs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create frontend handler")
		}
		router.Handle("/*", spa)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ecoloop",
	})
}

// handleAPINotFound keeps unknown API paths from reaching the frontend
func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, goerr.New("no such endpoint",
		goerr.V("path", r.URL.Path),
		goerr.T(model.ErrTagNotFound)))
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError logs err and writes an error response with the status of its
// tags. Internal errors are not described to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)

	status := apperr.StatusCode(err)
	message := http.StatusText(status)
	if status < http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		message = err.Error()
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return goerr.New("request body is empty", goerr.T(model.ErrTagValidation))
		}
		return goerr.Wrap(err, "invalid JSON body", goerr.T(model.ErrTagValidation))
	}
	return nil
}
