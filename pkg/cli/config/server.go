package config

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strings"

	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr          string
	FrontendURL   string
	AdminEmails   []string
	TokenSecret   string
	ContactInbox  string
	MaxUploadSize int64
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("ECOLOOP_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "frontend-url",
			Usage:       "Public URL of the frontend (if not set, automatically detected from request headers)",
			Sources:     cli.EnvVars("ECOLOOP_FRONTEND_URL"),
			Destination: &s.FrontendURL,
		},
		&cli.StringSliceFlag{
			Name:        "admin-email",
			Usage:       "Email address granted the admin role on registration (repeatable)",
			Sources:     cli.EnvVars("ECOLOOP_ADMIN_EMAILS"),
			Destination: &s.AdminEmails,
		},
		&cli.StringFlag{
			Name:        "token-secret",
			Usage:       "Signing key for login challenge tokens (at least 32 bytes; random per process if empty)",
			Sources:     cli.EnvVars("ECOLOOP_TOKEN_SECRET"),
			Destination: &s.TokenSecret,
		},
		&cli.StringFlag{
			Name:        "contact-inbox",
			Usage:       "Address that receives contact form messages (messages are only stored if empty)",
			Sources:     cli.EnvVars("ECOLOOP_CONTACT_INBOX"),
			Destination: &s.ContactInbox,
		},
		&cli.Int64Flag{
			Name:        "max-upload-size",
			Usage:       "Largest accepted photo upload in bytes",
			Value:       12 << 20,
			Sources:     cli.EnvVars("ECOLOOP_MAX_UPLOAD_SIZE"),
			Destination: &s.MaxUploadSize,
		},
	}
}

// Secret returns the challenge token signing key. Without a configured secret
// a random one is generated, so outstanding challenges do not survive a restart.
func (s *Server) Secret(ctx context.Context) ([]byte, error) {
	if s.TokenSecret != "" {
		if len(s.TokenSecret) < usecase.MinTokenSecretLength {
			return nil, goerr.New("token secret is too short",
				goerr.V("length", len(s.TokenSecret)),
				goerr.V("min", usecase.MinTokenSecretLength))
		}
		return []byte(s.TokenSecret), nil
	}

	ctxlog.From(ctx).Warn("No token secret configured, generating a random one")
	secret := make([]byte, usecase.MinTokenSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, goerr.Wrap(err, "failed to generate token secret")
	}
	return secret, nil
}

// Admins returns the configured admin addresses with blanks removed
func (s *Server) Admins() []string {
	var admins []string
	for _, email := range s.AdminEmails {
		for _, part := range strings.Split(email, ",") {
			if part = strings.TrimSpace(part); part != "" {
				admins = append(admins, part)
			}
		}
	}
	return admins
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.String("frontend_url", s.FrontendURL),
		slog.Int("admin_emails", len(s.Admins())),
		slog.Bool("has_token_secret", s.TokenSecret != ""),
		slog.String("contact_inbox", s.ContactInbox),
		slog.Int64("max_upload_size", s.MaxUploadSize),
	)
}
