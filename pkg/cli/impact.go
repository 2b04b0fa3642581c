package cli

import (
	"context"
	"io"
	"os"

	"github.com/ecoloop/ecoloop/pkg/cli/config"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type estimateOutput struct {
	DeviceType    string             `yaml:"device_type"`
	Category      string             `yaml:"category"`
	Weight        float64            `yaml:"weight"`
	Composition   impact.Composition `yaml:"composition"`
	CO2Emissions  float64            `yaml:"co2_emissions"`
	Equivalencies []string           `yaml:"equivalencies,omitempty"`
}

func cmdImpact() *cli.Command {
	var (
		impactCfg  config.Impact
		deviceType string
		weight     string
	)

	flags := joinFlags(
		impactCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Device type, e.g. Laptop",
				Required:    true,
				Destination: &deviceType,
			},
			&cli.StringFlag{
				Name:        "weight",
				Aliases:     []string{"w"},
				Usage:       "Device weight in pounds",
				Required:    true,
				Destination: &weight,
			},
		},
	)

	return &cli.Command{
		Name:  "impact",
		Usage: "Estimate the material composition and CO2 savings of one device",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			calc, err := impactCfg.Configure()
			if err != nil {
				return err
			}

			out, err := estimate(calc, deviceType, weight)
			if err != nil {
				return err
			}
			return printYAML(writerOf(c), out)
		},
	}
}

func cmdTables() *cli.Command {
	var impactCfg config.Impact

	return &cli.Command{
		Name:  "tables",
		Usage: "Print the active composition and CO2 tables as YAML",
		Flags: impactCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			calc, err := impactCfg.Configure()
			if err != nil {
				return err
			}
			return printYAML(writerOf(c), calc.Tables())
		},
	}
}

func estimate(calc *impact.Calculator, deviceType, weight string) (*estimateOutput, error) {
	w, err := model.ParseWeight(weight)
	if err != nil {
		return nil, err
	}

	category, ok := calc.Classify(deviceType)
	if !ok {
		return nil, goerr.New("unknown device type", goerr.V("device_type", deviceType))
	}

	est := calc.Estimate(w, deviceType)
	out := &estimateOutput{
		DeviceType:   deviceType,
		Category:     category.String(),
		Weight:       w,
		Composition:  est.Composition,
		CO2Emissions: est.CO2Emissions,
	}
	for _, eq := range impact.Equivalent(est.CO2Emissions).Results {
		out.Equivalencies = append(out.Equivalencies, eq.FormattedValue+" "+eq.Label)
	}
	return out, nil
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode YAML")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "failed to flush YAML")
	}
	return nil
}

func writerOf(c *cli.Command) io.Writer {
	if root := c.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
