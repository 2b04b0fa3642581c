package config

import (
	"log/slog"
	"os"

	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Impact holds the location of an optional lookup table override
type Impact struct {
	TablesFile string
}

// Flags returns CLI flags for Impact configuration
func (i *Impact) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "impact-tables",
			Usage:       "YAML file overriding the built-in composition and CO2 tables",
			Category:    "Impact",
			Sources:     cli.EnvVars("ECOLOOP_IMPACT_TABLES"),
			Destination: &i.TablesFile,
		},
	}
}

// Configure returns a calculator over the configured tables, or the built-in
// tables when no file is set.
func (i *Impact) Configure() (*impact.Calculator, error) {
	if !i.IsConfigured() {
		return impact.Default(), nil
	}

	tables, err := LoadTablesFromFile(i.TablesFile)
	if err != nil {
		return nil, err
	}
	return impact.NewCalculator(tables), nil
}

// IsConfigured checks if a tables file is set
func (i *Impact) IsConfigured() bool {
	return i.TablesFile != ""
}

// LogValue returns structured log value
func (i Impact) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("tables", i.TablesFile),
	)
}

// LoadTablesFromFile loads lookup tables from a YAML file
func LoadTablesFromFile(path string) (*impact.Tables, error) {
	if path == "" {
		return nil, goerr.New("tables file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "tables file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read tables file",
			goerr.V("path", path))
	}

	var tables impact.Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML tables",
			goerr.V("path", path))
	}

	if err := tables.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid tables",
			goerr.V("path", path))
	}

	return &tables, nil
}
