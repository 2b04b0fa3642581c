// Package slack posts contact form messages and donation notices to the
// team's Slack channel.
package slack

import (
	"context"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// PostClient is the part of *slack.Client the service needs
type PostClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Service provides Slack messaging capabilities
type Service struct {
	client    PostClient
	channelID string
}

var _ interfaces.Notifier = (*Service)(nil)

// New creates a Slack service posting to channelID with a bot token
func New(token, channelID string) *Service {
	return NewWithClient(slack.New(token), channelID)
}

// NewWithClient creates a Slack service over an existing client
func NewWithClient(client PostClient, channelID string) *Service {
	return &Service{
		client:    client,
		channelID: channelID,
	}
}

// NotifyContact posts a contact form message
func (s *Service) NotifyContact(ctx context.Context, msg *model.ContactMessage) error {
	if msg == nil {
		return goerr.New("contact message is nil")
	}
	return s.post(ctx, contactFallback(msg), ContactBlocks(msg)...)
}

// NotifyDonation posts a summary of a new donation
func (s *Service) NotifyDonation(ctx context.Context, donor *model.User, summary model.DonationSummary) error {
	if donor == nil {
		return goerr.New("donor is nil")
	}
	return s.post(ctx, donationFallback(donor, summary), DonationBlocks(donor, summary)...)
}

func (s *Service) post(ctx context.Context, text string, blocks ...slack.Block) error {
	channel, ts, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post message to Slack", goerr.V("channel", s.channelID))
	}

	ctxlog.From(ctx).Debug("Posted Slack message", "channel", channel, "ts", ts)
	return nil
}
