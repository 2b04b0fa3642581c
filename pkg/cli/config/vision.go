package config

import (
	"context"
	"log/slog"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/service/ocr"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Vision holds Google Cloud Vision configuration used for serial number OCR
type Vision struct {
	Enabled         bool
	APIKey          string
	CredentialsFile string
	Concurrency     int64
}

// Flags returns CLI flags for Vision configuration
func (v *Vision) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "vision-enabled",
			Usage:       "Read serial numbers from label photos with Cloud Vision (Application Default Credentials unless a key or credentials file is set)",
			Category:    "Vision",
			Sources:     cli.EnvVars("ECOLOOP_VISION_ENABLED"),
			Destination: &v.Enabled,
		},
		&cli.StringFlag{
			Name:        "vision-api-key",
			Usage:       "Cloud Vision API key",
			Category:    "Vision",
			Sources:     cli.EnvVars("ECOLOOP_VISION_API_KEY"),
			Destination: &v.APIKey,
		},
		&cli.StringFlag{
			Name:        "vision-credentials",
			Usage:       "Path to a service account key file for Cloud Vision",
			Category:    "Vision",
			Sources:     cli.EnvVars("ECOLOOP_VISION_CREDENTIALS"),
			Destination: &v.CredentialsFile,
		},
		&cli.Int64Flag{
			Name:        "vision-concurrency",
			Usage:       "Maximum number of photos read in parallel per submission",
			Category:    "Vision",
			Value:       4,
			Sources:     cli.EnvVars("ECOLOOP_VISION_CONCURRENCY"),
			Destination: &v.Concurrency,
		},
	}
}

// Configure creates a serial extractor, or returns nil when OCR is disabled
func (v *Vision) Configure(ctx context.Context) (interfaces.SerialExtractor, error) {
	if !v.IsConfigured() {
		ctxlog.From(ctx).Info("Vision not configured, photo serial extraction is disabled")
		return nil, nil
	}

	var opts []option.ClientOption
	switch {
	case v.APIKey != "":
		opts = append(opts, option.WithAPIKey(v.APIKey))
	case v.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(v.CredentialsFile))
	}

	detector, err := ocr.NewVision(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init vision client")
	}
	return ocr.New(detector), nil
}

// IsConfigured checks if OCR should be enabled
func (v *Vision) IsConfigured() bool {
	return v.Enabled || v.APIKey != "" || v.CredentialsFile != ""
}

// LogValue returns structured log value
func (v Vision) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", v.IsConfigured()),
		slog.Bool("has_api_key", v.APIKey != ""),
		slog.String("credentials", v.CredentialsFile),
		slog.Int64("concurrency", v.Concurrency),
	)
}
