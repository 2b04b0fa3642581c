package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	mailsvc "github.com/ecoloop/ecoloop/pkg/service/mail"
	"github.com/ecoloop/ecoloop/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Field limits of the contact form, in characters
const (
	MaxContactNameLength    = 200
	MaxContactSubjectLength = 200
	MaxContactMessageLength = 5000
)

// Contact implements ContactUseCase
type Contact struct {
	repo     interfaces.Repository
	mailer   interfaces.Mailer
	inbox    string
	notifier interfaces.Notifier
	dispatch Dispatcher
	now      func() time.Time
}

// ContactOption configures Contact
type ContactOption func(*Contact)

// WithContactNotifier also posts messages to chat
func WithContactNotifier(n interfaces.Notifier) ContactOption {
	return func(c *Contact) {
		c.notifier = n
	}
}

// WithContactDispatcher replaces async.Dispatch for chat notices
func WithContactDispatcher(fn Dispatcher) ContactOption {
	return func(c *Contact) {
		c.dispatch = fn
	}
}

// WithContactClock replaces time.Now for message timestamps
func WithContactClock(now func() time.Time) ContactOption {
	return func(c *Contact) {
		c.now = now
	}
}

// NewContact creates a new Contact use case. Messages are relayed by email to
// inbox; an empty inbox only stores them.
func NewContact(repo interfaces.Repository, mailer interfaces.Mailer, inbox string, opts ...ContactOption) *Contact {
	c := &Contact{
		repo:     repo,
		mailer:   mailer,
		inbox:    strings.TrimSpace(inbox),
		dispatch: async.Dispatch,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send validates and stores a contact form message, then relays it
func (c *Contact) Send(ctx context.Context, input model.ContactMessage) (*model.ContactMessage, error) {
	logger := ctxlog.From(ctx)

	msg := &model.ContactMessage{
		ID:        types.NewContactMessageID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     model.NormalizeEmail(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: c.now(),
	}
	if err := validateContact(msg); err != nil {
		return nil, err
	}

	if err := c.repo.SaveContactMessage(ctx, msg); err != nil {
		return nil, goerr.Wrap(err, "failed to save contact message")
	}

	if c.inbox == "" {
		logger.Warn("Contact inbox not configured, message stored only", "messageID", msg.ID)
	} else {
		email, err := mailsvc.ContactRelayEmail(c.inbox, msg)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build contact relay email", goerr.V("messageID", msg.ID))
		}
		if err := c.mailer.Send(ctx, email); err != nil {
			return nil, goerr.Wrap(err, "failed to relay contact message",
				goerr.V("messageID", msg.ID),
				goerr.T(model.ErrTagUnavailable))
		}
	}

	if c.notifier != nil {
		posted := *msg
		c.dispatch(ctx, func(ctx context.Context) error {
			return c.notifier.NotifyContact(ctx, &posted)
		})
	}

	logger.Info("Contact message received",
		"messageID", msg.ID,
		"subject", msg.Subject,
	)

	return msg, nil
}

func validateContact(msg *model.ContactMessage) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"name", msg.Name, MaxContactNameLength},
		{"subject", msg.Subject, MaxContactSubjectLength},
		{"message", msg.Message, MaxContactMessageLength},
	}
	for _, f := range fields {
		if f.value == "" {
			return goerr.New(f.name+" is required",
				goerr.T(model.ErrTagValidation))
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return goerr.New(f.name+" is too long",
				goerr.V("max", f.max),
				goerr.T(model.ErrTagValidation))
		}
	}
	if strings.ContainsAny(msg.Subject, "\r\n") {
		return goerr.New("subject must be a single line", goerr.T(model.ErrTagValidation))
	}
	return validateEmail(msg.Email)
}
