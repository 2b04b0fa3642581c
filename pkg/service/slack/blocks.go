package slack

import (
	"fmt"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/slack-go/slack"
)

// maxSectionText is Slack's limit for the text of a section block
const maxSectionText = 3000

// ContactBlocks renders a contact form message
func ContactBlocks(msg *model.ContactMessage) []slack.Block {
	return []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "📬 "+truncate(msg.Subject, 140), true, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown(fmt.Sprintf("*From:*\n%s", msg.Name)),
			markdown(fmt.Sprintf("*Email:*\n<mailto:%s|%s>", msg.Email, msg.Email)),
		}, nil),
		slack.NewSectionBlock(markdown(truncate(msg.Message, maxSectionText)), nil, nil),
	}
}

// DonationBlocks renders a donation summary
func DonationBlocks(donor *model.User, summary model.DonationSummary) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("♻️ *New donation* from %s: %d device(s)", donorName(donor), summary.Count)),
			nil, nil,
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown(fmt.Sprintf("*Weight:*\n%s lb", impact.FormatWeight(summary.Weight))),
			markdown(fmt.Sprintf("*CO2 saved:*\n%s lb", impact.FormatWeight(summary.CO2Emissions))),
			markdown(fmt.Sprintf("*Metals:*\n%s lb", impact.FormatWeight(summary.Composition.Metals()))),
			markdown(fmt.Sprintf("*Plastics:*\n%s lb", impact.FormatWeight(summary.Composition.Plastic))),
		}, nil),
	}

	if eq := impact.Equivalent(summary.CO2Emissions); !eq.IsEmpty() {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.PlainTextType, eq.DisplayText, false, false),
		))
	}
	return blocks
}

func contactFallback(msg *model.ContactMessage) string {
	return fmt.Sprintf("Contact form: %s from %s <%s>", msg.Subject, msg.Name, msg.Email)
}

func donationFallback(donor *model.User, summary model.DonationSummary) string {
	return fmt.Sprintf("New donation from %s: %d device(s), %s lb",
		donorName(donor), summary.Count, impact.FormatWeight(summary.Weight))
}

func donorName(donor *model.User) string {
	if donor.Name != "" {
		return donor.Name
	}
	return donor.Email
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
