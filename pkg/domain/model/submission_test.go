package model_test

import (
	"errors"
	"testing"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestParseWeight(t *testing.T) {
	valid := []struct {
		input string
		want  float64
	}{
		{"4.5", 4.5},
		{" 12 ", 12},
		{"0", 0},
		{"3 lb", 3},
		{"3lbs", 3},
		{"2.25 Pounds", 2.25},
		{"1,200", 1200},
	}
	for _, tt := range valid {
		t.Run(tt.input, func(t *testing.T) {
			w, err := model.ParseWeight(tt.input)
			gt.NoError(t, err).Required()
			gt.Equal(t, tt.want, w)
		})
	}

	invalid := []string{"", "lb", "heavy", "-1", "NaN", "Inf", "-Inf", "4.5kg"}
	for _, input := range invalid {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := model.ParseWeight(input)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, model.ErrInvalidWeight))
		})
	}
}

func TestDeviceSubmissionValidate(t *testing.T) {
	row := model.DeviceSubmission{
		DeviceType:   "Laptop",
		Manufacturer: "Lenovo",
		Model:        "T480",
		Condition:    "Working",
		Weight:       "4.1",
	}

	t.Run("complete row", func(t *testing.T) {
		w, err := row.Validate()
		gt.NoError(t, err)
		gt.Equal(t, 4.1, w)
	})

	t.Run("missing manufacturer", func(t *testing.T) {
		r := row
		r.Manufacturer = "  "
		_, err := r.Validate()
		gt.Error(t, err)
	})

	t.Run("bad weight", func(t *testing.T) {
		r := row
		r.Weight = "-3"
		_, err := r.Validate()
		gt.True(t, errors.Is(err, model.ErrInvalidWeight))
	})
}

func TestDeviceSubmissionNormalize(t *testing.T) {
	r := model.DeviceSubmission{DeviceType: " Laptop ", SerialNumber: " ab12 "}.Normalize()
	gt.Equal(t, "Laptop", r.DeviceType)
	gt.Equal(t, "ab12", r.SerialNumber)
}
