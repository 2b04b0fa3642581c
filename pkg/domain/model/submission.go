package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DeviceSubmission is one row of the donation form as typed by the donor.
// Image is an optional photo of the serial number label.
type DeviceSubmission struct {
	DeviceType   string `json:"device_type"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Condition    string `json:"condition"`
	Weight       string `json:"weight"`
	SerialNumber string `json:"serial_number"`
	Image        []byte `json:"-"`
}

// Normalize trims every text field
func (s DeviceSubmission) Normalize() DeviceSubmission {
	s.DeviceType = strings.TrimSpace(s.DeviceType)
	s.Manufacturer = strings.TrimSpace(s.Manufacturer)
	s.Model = strings.TrimSpace(s.Model)
	s.Condition = strings.TrimSpace(s.Condition)
	s.Weight = strings.TrimSpace(s.Weight)
	s.SerialNumber = strings.TrimSpace(s.SerialNumber)
	return s
}

// Validate checks the required fields and returns the parsed weight.
func (s DeviceSubmission) Validate() (float64, error) {
	required := []struct {
		name  string
		value string
	}{
		{"device_type", s.DeviceType},
		{"manufacturer", s.Manufacturer},
		{"model", s.Model},
		{"condition", s.Condition},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return 0, goerr.New(f.name+" is required",
				goerr.T(ErrTagValidation))
		}
	}

	return ParseWeight(s.Weight)
}

var weightUnits = []string{"pounds", "pound", "lbs", "lb"}

// ParseWeight parses a weight in pounds such as "4.5", "4.5 lb" or "1,200".
// NaN, infinities and negative values are rejected.
func ParseWeight(s string) (float64, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	for _, unit := range weightUnits {
		if trimmed, ok := strings.CutSuffix(text, unit); ok {
			text = strings.TrimSpace(trimmed)
			break
		}
	}
	text = strings.ReplaceAll(text, ",", "")

	if text == "" {
		return 0, goerr.Wrap(ErrInvalidWeight, "weight is empty", goerr.V("weight", s))
	}

	w, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidWeight, "weight is not a number", goerr.V("weight", s))
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0, goerr.Wrap(ErrInvalidWeight, "weight out of range", goerr.V("weight", s))
	}
	return w, nil
}
