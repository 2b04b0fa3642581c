package timeline

import (
	"time"

	"github.com/ecoloop/ecoloop/pkg/impact"
)

// Record is one persisted donation as seen by the aggregator.
type Record struct {
	DonatedAt    time.Time
	Composition  impact.Composition
	CO2Emissions float64
}

// Point is one bucket of a cumulative series. A nil value marks a bucket that
// has not occurred yet, as opposed to one with zero impact.
type Point struct {
	Label    string   `json:"label"`
	Metals   *float64 `json:"metals"`
	Plastics *float64 `json:"plastics"`
	CO2      *float64 `json:"co2"`
}

// IsAbsent reports whether p marks a bucket in the future.
func (p Point) IsAbsent() bool {
	return p.Metals == nil && p.Plastics == nil && p.CO2 == nil
}

// totals accumulates the three charted figures.
type totals struct {
	metals   float64
	plastics float64
	co2      float64
}

func (t *totals) add(r Record) {
	c := r.Composition.Sanitized()
	t.metals += c.Metals()
	t.plastics += c.Plastic
	t.co2 += impact.Finite(r.CO2Emissions)
}

func (t totals) point(label string) Point {
	metals, plastics, co2 := t.metals, t.plastics, t.co2
	return Point{
		Label:    label,
		Metals:   &metals,
		Plastics: &plastics,
		CO2:      &co2,
	}
}

// origin is the zero-valued anchor point prepended to quarterly and all-time
// series.
func origin() Point {
	return totals{}.point("")
}

func absent(label string) Point {
	return Point{Label: label}
}
