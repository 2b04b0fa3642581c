// Package mail delivers the service's transactional email.
package mail

import (
	"context"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the connection settings of an SMTP relay
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Opportunistic allows falling back to plain text when STARTTLS is missing
	Opportunistic bool
	Timeout       time.Duration
}

// SMTP sends email through an SMTP relay
type SMTP struct {
	client *gomail.Client
	from   string
}

var _ interfaces.Mailer = (*SMTP)(nil)

// NewSMTP creates a mailer for cfg. No connection is made until Send.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, goerr.New("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, goerr.New("sender address is required")
	}

	policy := gomail.TLSMandatory
	if cfg.Opportunistic {
		policy = gomail.TLSOpportunistic
	}

	opts := []gomail.Option{
		gomail.WithTLSPortPolicy(policy),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create SMTP client", goerr.V("host", cfg.Host))
	}

	return &SMTP{client: client, from: cfg.From}, nil
}

// Send delivers email
func (s *SMTP) Send(ctx context.Context, email interfaces.Email) error {
	msg, err := buildMessage(s.from, email)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to send email",
			goerr.V("to", email.To),
			goerr.V("subject", email.Subject))
	}

	ctxlog.From(ctx).Info("Email sent", "to", email.To, "subject", email.Subject)
	return nil
}

func buildMessage(from string, email interfaces.Email) (*gomail.Msg, error) {
	if email.To == "" {
		return nil, goerr.New("recipient is required")
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, goerr.Wrap(err, "invalid sender address", goerr.V("from", from))
	}
	if err := msg.To(email.To); err != nil {
		return nil, goerr.Wrap(err, "invalid recipient address", goerr.V("to", email.To))
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, goerr.Wrap(err, "invalid reply-to address", goerr.V("reply_to", email.ReplyTo))
		}
	}
	msg.Subject(email.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, email.Body)

	return msg, nil
}

// Log writes email to the logger instead of sending it. It is used when no SMTP
// relay is configured, e.g. in local development.
type Log struct{}

var _ interfaces.Mailer = Log{}

// NewLog creates a log-only mailer
func NewLog() Log {
	return Log{}
}

// Send logs email
func (Log) Send(ctx context.Context, email interfaces.Email) error {
	ctxlog.From(ctx).Info("Email not sent (no SMTP configured)",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Body,
	)
	return nil
}
