package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/ecoloop/ecoloop/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]logging.Format{
		"":        logging.FormatAuto,
		"auto":    logging.FormatAuto,
		"console": logging.FormatConsole,
		"JSON":    logging.FormatJSON,
	} {
		got, err := logging.ParseFormat(input)
		gt.NoError(t, err)
		gt.Equal(t, want, got)
	}

	_, err := logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, slog.LevelDebug, logging.ParseLogLevel("DEBUG"))
	gt.Equal(t, slog.LevelWarn, logging.ParseLogLevel("warning"))
	gt.Equal(t, slog.LevelError, logging.ParseLogLevel("error"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel("nonsense"))
}

func TestAutoFormatWritesJSONToBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(slog.LevelInfo, &buf)
	logger.Debug("hidden")
	logger.Info("donation saved", "count", 3)

	var entry map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
	gt.Equal(t, "donation saved", entry["msg"])
	gt.Equal(t, 3.0, entry["count"])
}
