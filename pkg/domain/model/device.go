package model

import (
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/ecoloop/ecoloop/pkg/timeline"
)

// Device is one donated device with its computed impact. The composition
// fields are stored flat next to the descriptive columns.
type Device struct {
	ID           types.DeviceID  `json:"id" firestore:"id"`
	UserID       types.UserID    `json:"user_id" firestore:"user_id"`
	DeviceType   string          `json:"device_type" firestore:"device_type"`
	Manufacturer string          `json:"manufacturer" firestore:"manufacturer"`
	Model        string          `json:"model" firestore:"model"`
	Condition    string          `json:"condition" firestore:"condition"`
	Weight       float64         `json:"weight" firestore:"weight"`
	SerialNumber string          `json:"serial_number" firestore:"serial_number"`
	Category     impact.Category `json:"category" firestore:"category"`

	impact.Composition
	CO2Emissions float64 `json:"co2_emissions" firestore:"co2_emissions"`

	DonatedAt time.Time `json:"donated_at" firestore:"donated_at"`
}

// Record projects the device onto the fields the aggregator needs
func (d *Device) Record() timeline.Record {
	return timeline.Record{
		DonatedAt:    d.DonatedAt,
		Composition:  d.Composition,
		CO2Emissions: d.CO2Emissions,
	}
}

// Records converts a device list for aggregation
func Records(devices []*Device) []timeline.Record {
	records := make([]timeline.Record, 0, len(devices))
	for _, d := range devices {
		if d == nil {
			continue
		}
		records = append(records, d.Record())
	}
	return records
}

// DonationSummary totals a set of devices
type DonationSummary struct {
	Count        int                `json:"count"`
	Weight       float64            `json:"weight"`
	Composition  impact.Composition `json:"composition"`
	CO2Emissions float64            `json:"co2_emissions"`
}

// Summarize adds up weight, materials and CO2 of devices. Non-finite values
// count as zero.
func Summarize(devices []*Device) DonationSummary {
	var s DonationSummary
	for _, d := range devices {
		if d == nil {
			continue
		}
		s.Count++
		s.Weight += impact.Finite(d.Weight)
		s.Composition = s.Composition.Add(d.Composition.Sanitized())
		s.CO2Emissions += impact.Finite(d.CO2Emissions)
	}
	return s
}
