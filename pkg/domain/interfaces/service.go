package interfaces

//go:generate moq -out mocks/service_mock.go -pkg mocks . Mailer TextDetector SerialExtractor Notifier

import (
	"context"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
)

// Email is a plain-text message to a single recipient
type Email struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers transactional email: login codes, receipts and contact relays
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// TextDetector returns the text an OCR backend finds in an image, one line per
// detected line.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// SerialExtractor pulls a device serial number out of a photo of its label
type SerialExtractor interface {
	ExtractSerial(ctx context.Context, image []byte) (string, error)
}

// Notifier posts notices to the team chat
type Notifier interface {
	NotifyContact(ctx context.Context, msg *model.ContactMessage) error
	NotifyDonation(ctx context.Context, donor *model.User, summary model.DonationSummary) error
}
