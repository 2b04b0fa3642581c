// Package ocr reads serial numbers from photos of device labels.
package ocr

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// MaxImageSize is the largest image Vision accepts inline
	MaxImageSize = 10 << 20

	minSerialLength = 6
)

var (
	ErrSerialNotFound = goerr.New("no serial number found in image", goerr.T(model.ErrTagNotFound))
	ErrEmptyImage     = goerr.New("image is empty", goerr.T(model.ErrTagValidation))
	ErrImageTooLarge  = goerr.New("image is too large", goerr.T(model.ErrTagValidation))
)

// labelPattern matches a serial number printed after an "S/N" or "Serial"
// label, possibly on the next line.
var labelPattern = regexp.MustCompile(`(?im)(?:^|[^A-Z0-9])(?:S\s*/\s*N|SN|SERIAL\s*(?:NUMBER|NUM|NO\.?|#)?)(?:\s*[:#.]\s*|\s+)([A-Z0-9][A-Z0-9-]{3,})`)

// otherLabelPattern matches values printed after labels that are not serial
// numbers. Those values never qualify as a serial.
var otherLabelPattern = regexp.MustCompile(`(?im)(?:^|[^A-Z0-9])(?:MODEL(?:\s*(?:NO\.?|NUMBER|#))?|P\s*/\s*N|PART\s*(?:NO\.?|NUMBER|#)?|REV(?:ISION)?|SKU|MFG|TYPE)(?:\s*[:#.]\s*|\s+)([A-Z0-9][A-Z0-9-]*)`)

// labelWords are words that follow a bare serial label when the label value
// is missing and the next line starts another label.
var labelWords = map[string]bool{
	"MODEL":    true,
	"PART":     true,
	"PRODUCT":  true,
	"REV":      true,
	"REVISION": true,
	"TYPE":     true,
	"DATE":     true,
	"MADE":     true,
	"SKU":      true,
	"MFG":      true,
}

// Extractor finds serial numbers in images using a TextDetector
type Extractor struct {
	detector interfaces.TextDetector
}

var _ interfaces.SerialExtractor = (*Extractor)(nil)

// New creates an Extractor
func New(detector interfaces.TextDetector) *Extractor {
	return &Extractor{detector: detector}
}

// ExtractSerial returns the serial number printed on the label in image
func (e *Extractor) ExtractSerial(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if len(image) > MaxImageSize {
		return "", goerr.Wrap(ErrImageTooLarge, "rejecting image", goerr.V("size", len(image)))
	}

	text, err := e.detector.DetectText(ctx, image)
	if err != nil {
		return "", goerr.Wrap(err, "failed to detect text")
	}

	serial, err := ParseSerial(text)
	if err != nil {
		ctxlog.From(ctx).Debug("No serial number in detected text", "text", text)
		return "", err
	}
	return serial, nil
}

// ParseSerial picks the most likely serial number out of OCR text. A value
// following a serial label wins; otherwise the longest token of at least six
// characters that mixes letters and digits is used. Values of other labels
// such as Model or P/N are never picked.
func ParseSerial(text string) (string, error) {
	for _, m := range labelPattern.FindAllStringSubmatch(text, -1) {
		value := strings.ToUpper(strings.Trim(m[1], "-"))
		if labelWords[value] {
			continue
		}
		return value, nil
	}

	excluded := make(map[string]bool)
	for _, m := range otherLabelPattern.FindAllStringSubmatch(text, -1) {
		excluded[strings.ToUpper(strings.Trim(m[1], "-"))] = true
	}

	var best string
	for _, token := range strings.FieldsFunc(text, isSeparator) {
		token = strings.Trim(token, "-")
		if len(token) < minSerialLength || !mixesLettersAndDigits(token) {
			continue
		}
		if excluded[strings.ToUpper(token)] {
			continue
		}
		if len(token) > len(best) {
			best = token
		}
	}
	if best == "" {
		return "", ErrSerialNotFound
	}
	return strings.ToUpper(best), nil
}

func isSeparator(r rune) bool {
	return !(r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

func mixesLettersAndDigits(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
