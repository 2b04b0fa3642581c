package ocr

import (
	"context"
	"encoding/base64"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

const featureTextDetection = "TEXT_DETECTION"

// Vision detects text with the Google Cloud Vision API
type Vision struct {
	svc *vision.Service
}

var _ interfaces.TextDetector = (*Vision)(nil)

// NewVision creates a Vision client. Without options, Application Default
// Credentials are used.
func NewVision(ctx context.Context, opts ...option.ClientOption) (*Vision, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vision service")
	}
	return &Vision{svc: svc}, nil
}

// DetectText runs TEXT_DETECTION on image and returns the full detected text
func (v *Vision) DetectText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{
					Content: base64.StdEncoding.EncodeToString(image),
				},
				Features: []*vision.Feature{
					{Type: featureTextDetection},
				},
			},
		},
	}

	resp, err := v.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", goerr.Wrap(err, "vision annotate request failed")
	}
	if len(resp.Responses) == 0 {
		return "", nil
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Code != 0 {
		return "", goerr.New("vision returned an error",
			goerr.V("code", r.Error.Code),
			goerr.V("message", r.Error.Message))
	}
	if r.FullTextAnnotation != nil {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 {
		// The first annotation holds the whole text block
		return r.TextAnnotations[0].Description, nil
	}
	return "", nil
}
