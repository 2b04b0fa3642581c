package model

import (
	"time"

	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/ecoloop/ecoloop/pkg/timeline"
)

// LoginChallenge is returned after a correct password. The token identifies
// the pending challenge when the emailed code is submitted.
type LoginChallenge struct {
	Token     string    `json:"challenge_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImpactReport is a donor's chart series for one window together with
// all-time totals.
type ImpactReport struct {
	Window        timeline.Window      `json:"window"`
	Label         string               `json:"label"`
	Series        []timeline.Point     `json:"series"`
	Totals        DonationSummary      `json:"totals"`
	Equivalencies impact.Equivalencies `json:"equivalencies"`
}
