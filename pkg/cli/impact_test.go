package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/ecoloop/ecoloop/pkg/cli"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/m-mizutani/gt"
	"gopkg.in/yaml.v3"
)

func TestEstimate(t *testing.T) {
	calc := impact.Default()

	t.Run("known device", func(t *testing.T) {
		out, err := cli.Estimate(calc, "Laptop", "10 lbs")
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		gt.NoError(t, cli.PrintYAML(&buf, out)).Required()

		var decoded map[string]any
		gt.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded)).Required()
		gt.Equal(t, decoded["device_type"], any("Laptop"))
		gt.Equal(t, decoded["category"], any("portable-devices"))
		gt.S(t, buf.String()).Contains("weight: 10")
		gt.S(t, buf.String()).Contains("ferrous_metals: 0.7")
		gt.S(t, buf.String()).Contains("co2_emissions: 8.8")
	})

	t.Run("large donation has equivalencies", func(t *testing.T) {
		out, err := cli.Estimate(calc, "Printer", "1,000")
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		gt.NoError(t, cli.PrintYAML(&buf, out)).Required()
		gt.S(t, buf.String()).Contains("miles driven")
		gt.S(t, buf.String()).Contains("smartphones charged")
	})

	t.Run("unknown device", func(t *testing.T) {
		_, err := cli.Estimate(calc, "Toaster", "3")
		gt.Error(t, err)
	})

	t.Run("bad weight", func(t *testing.T) {
		_, err := cli.Estimate(calc, "Laptop", "heavy")
		gt.Error(t, err)
	})
}

func TestPrintTables(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, cli.PrintYAML(&buf, impact.DefaultTables())).Required()

	var tables impact.Tables
	gt.NoError(t, yaml.Unmarshal(buf.Bytes(), &tables)).Required()
	gt.NoError(t, tables.Validate())
	gt.Equal(t, tables.DeviceTypes["CRT Monitor"], impact.CategoryCRTDisplays)
	gt.Equal(t, tables.Profiles[impact.CategoryCPU].CO2Factor, 0.40)
}

func TestRunRejectsInvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"ecoloop", "--log-level", "verbose", "tables"})
	gt.Error(t, err)
}
