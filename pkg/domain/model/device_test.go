package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/m-mizutani/gt"
)

func TestDeviceRecords(t *testing.T) {
	at := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)
	devices := []*model.Device{
		{
			DeviceType:   "Laptop",
			Composition:  impact.Composition{Copper: 0.4, Plastic: 5.4},
			CO2Emissions: 17.6,
			DonatedAt:    at,
		},
		nil,
	}

	records := model.Records(devices)
	gt.Equal(t, 1, len(records))
	gt.Equal(t, at, records[0].DonatedAt)
	gt.Equal(t, 5.4, records[0].Composition.Plastic)
	gt.Equal(t, 17.6, records[0].CO2Emissions)
}

func TestSummarize(t *testing.T) {
	devices := []*model.Device{
		{Weight: 20, Composition: impact.Composition{Copper: 0.4, Plastic: 5.4}, CO2Emissions: 17.6},
		{Weight: 2, Composition: impact.Composition{Copper: 0.52}, CO2Emissions: 4.44},
		nil,
	}

	s := model.Summarize(devices)
	gt.Equal(t, 2, s.Count)
	gt.Equal(t, 22.0, s.Weight)
	gt.Equal(t, 5.4, s.Composition.Plastic)
	gt.True(t, math.Abs(s.Composition.Copper-0.92) < 1e-9)
	gt.True(t, math.Abs(s.CO2Emissions-22.04) < 1e-9)

	empty := model.Summarize(nil)
	gt.Equal(t, 0, empty.Count)
}
