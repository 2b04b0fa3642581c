package mail

import (
	"bytes"
	"embed"
	"text/template"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/m-mizutani/goerr/v2"
)

// ErrTagTemplateFailure marks errors rendering an email body
var ErrTagTemplateFailure = goerr.NewTag("template_failure")

//go:embed templates/*.txt
var templateFS embed.FS

type loginCodeData struct {
	Name    string
	Code    string
	Minutes int
}

type receiptLine struct {
	DeviceType   string
	Manufacturer string
	Model        string
	Weight       string
	SerialNumber string
}

type receiptData struct {
	Name        string
	Date        string
	Count       int
	Lines       []receiptLine
	Weight      string
	Metals      string
	Plastics    string
	CO2         string
	Equivalency string
}

type contactData struct {
	Name     string
	Email    string
	Subject  string
	Received string
	Message  string
}

// LoginCodeEmail builds the message carrying a verification code
func LoginCodeEmail(user *model.User, code string, validFor time.Duration) (interfaces.Email, error) {
	body, err := render("login_code.txt", loginCodeData{
		Name:    displayName(user),
		Code:    code,
		Minutes: int(validFor.Minutes()),
	})
	if err != nil {
		return interfaces.Email{}, err
	}

	return interfaces.Email{
		To:      user.Email,
		Subject: "Your ecoloop verification code",
		Body:    body,
	}, nil
}

// ReceiptEmail builds the donation receipt for devices submitted together
func ReceiptEmail(user *model.User, devices []*model.Device, at time.Time) (interfaces.Email, error) {
	summary := model.Summarize(devices)

	data := receiptData{
		Name:        displayName(user),
		Date:        at.Format("January 2, 2006"),
		Count:       summary.Count,
		Weight:      impact.FormatWeight(summary.Weight),
		Metals:      impact.FormatWeight(summary.Composition.Metals()),
		Plastics:    impact.FormatWeight(summary.Composition.Plastic),
		CO2:         impact.FormatWeight(summary.CO2Emissions),
		Equivalency: impact.Equivalent(summary.CO2Emissions).DisplayText,
	}
	for _, d := range devices {
		if d == nil {
			continue
		}
		data.Lines = append(data.Lines, receiptLine{
			DeviceType:   d.DeviceType,
			Manufacturer: d.Manufacturer,
			Model:        d.Model,
			Weight:       impact.FormatWeight(d.Weight),
			SerialNumber: d.SerialNumber,
		})
	}

	body, err := render("receipt.txt", data)
	if err != nil {
		return interfaces.Email{}, err
	}

	return interfaces.Email{
		To:      user.Email,
		Subject: "Thank you for your donation",
		Body:    body,
	}, nil
}

// ContactRelayEmail forwards a contact form message to inbox. Replies go to
// the visitor.
func ContactRelayEmail(inbox string, msg *model.ContactMessage) (interfaces.Email, error) {
	body, err := render("contact.txt", contactData{
		Name:     msg.Name,
		Email:    msg.Email,
		Subject:  msg.Subject,
		Received: msg.CreatedAt.Format(time.RFC1123),
		Message:  msg.Message,
	})
	if err != nil {
		return interfaces.Email{}, err
	}

	return interfaces.Email{
		To:      inbox,
		ReplyTo: msg.Email,
		Subject: "[Contact] " + msg.Subject,
		Body:    body,
	}, nil
}

func render(name string, data any) (string, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read email template",
			goerr.V("template", name),
			goerr.T(ErrTagTemplateFailure))
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse email template",
			goerr.V("template", name),
			goerr.T(ErrTagTemplateFailure))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute email template",
			goerr.V("template", name),
			goerr.T(ErrTagTemplateFailure))
	}
	return buf.String(), nil
}

func displayName(user *model.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}
