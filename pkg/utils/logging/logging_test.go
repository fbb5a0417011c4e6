package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, slog.LevelInfo, "json")
	gt.NoError(t, err).Required()

	logger.Debug("hidden")
	logger.Info("generated", "files", 3)

	gt.String(t, buf.String()).Contains(`"msg":"generated"`)
	gt.String(t, buf.String()).Contains(`"files":3`)
	gt.B(t, strings.Contains(buf.String(), "hidden")).False()
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, slog.LevelDebug, "console")
	gt.NoError(t, err).Required()

	logger.Debug("watching", "dir", "components")
	gt.String(t, buf.String()).Contains("watching")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, slog.LevelInfo, "xml")
	gt.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("WARN")
	gt.NoError(t, err).Required()
	gt.Value(t, level).Equal(slog.LevelWarn)

	_, err = logging.ParseLevel("loud")
	gt.Error(t, err)
}

func TestFrom(t *testing.T) {
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := logging.With(context.Background(), custom)
	gt.Value(t, logging.From(ctx)).Equal(custom)
}
