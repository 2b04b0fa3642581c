package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/service/mail"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Mail holds SMTP relay configuration
type Mail struct {
	Host          string
	Port          int64
	Username      string
	Password      string
	From          string
	Opportunistic bool
	Timeout       time.Duration
}

// Flags returns CLI flags for Mail configuration
func (m *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP relay host",
			Category:    "Mail",
			Sources:     cli.EnvVars("ECOLOOP_SMTP_HOST"),
			Destination: &m.Host,
		},
		&cli.Int64Flag{
			Name:        "smtp-port",
			Usage:       "SMTP relay port",
			Category:    "Mail",
			Value:       587,
			Sources:     cli.EnvVars("ECOLOOP_SMTP_PORT"),
			Destination: &m.Port,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP username",
			Category:    "Mail",
			Sources:     cli.EnvVars("ECOLOOP_SMTP_USERNAME"),
			Destination: &m.Username,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Category:    "Mail",
			Sources:     cli.EnvVars("ECOLOOP_SMTP_PASSWORD"),
			Destination: &m.Password,
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "Sender address of outgoing email",
			Category:    "Mail",
			Value:       "EcoLoop <no-reply@ecoloop.org>",
			Sources:     cli.EnvVars("ECOLOOP_MAIL_FROM"),
			Destination: &m.From,
		},
		&cli.BoolFlag{
			Name:        "smtp-opportunistic-tls",
			Usage:       "Allow plain SMTP when the relay does not offer STARTTLS",
			Category:    "Mail",
			Sources:     cli.EnvVars("ECOLOOP_SMTP_OPPORTUNISTIC_TLS"),
			Destination: &m.Opportunistic,
		},
		&cli.DurationFlag{
			Name:        "smtp-timeout",
			Usage:       "SMTP connection timeout",
			Category:    "Mail",
			Value:       15 * time.Second,
			Sources:     cli.EnvVars("ECOLOOP_SMTP_TIMEOUT"),
			Destination: &m.Timeout,
		},
	}
}

// Configure creates the mailer. Without an SMTP host, email is only logged.
func (m *Mail) Configure(ctx context.Context) (interfaces.Mailer, error) {
	if !m.IsConfigured() {
		ctxlog.From(ctx).Warn("SMTP not configured, email will be written to the log instead of sent")
		return mail.NewLog(), nil
	}

	mailer, err := mail.NewSMTP(mail.SMTPConfig{
		Host:          m.Host,
		Port:          int(m.Port),
		Username:      m.Username,
		Password:      m.Password,
		From:          m.From,
		Opportunistic: m.Opportunistic,
		Timeout:       m.Timeout,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init SMTP mailer", goerr.V("host", m.Host))
	}
	return mailer, nil
}

// IsConfigured checks if an SMTP relay is configured
func (m *Mail) IsConfigured() bool {
	return m.Host != ""
}

// LogValue returns structured log value
func (m Mail) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", m.Host),
		slog.Int64("port", m.Port),
		slog.String("from", m.From),
		slog.Bool("has_username", m.Username != ""),
		slog.Bool("has_password", m.Password != ""),
		slog.Bool("opportunistic_tls", m.Opportunistic),
		slog.Duration("timeout", m.Timeout),
	)
}
