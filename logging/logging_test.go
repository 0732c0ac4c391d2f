package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dasdy/calcskin/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.NewLogger(&buf, slog.LevelDebug)

	ctx := logging.PackageCtx("dispatch")
	logger.With("view", 1).InfoContext(ctx, "Touch down", "code", 13)

	line := buf.String()
	assert.Contains(t, line, "msg=\"Touch down\"")
	assert.Contains(t, line, "package=dispatch")
	assert.Contains(t, line, "view=1")
	assert.Contains(t, line, "code=13")
}

func TestAppendCtxDoesNotShareAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.NewLogger(&buf, slog.LevelInfo)

	base := logging.PackageCtx("db")
	a := logging.AppendCtx(base, slog.String("journal", "a"))
	b := logging.AppendCtx(base, slog.String("journal", "b"))

	logger.InfoContext(a, "first")
	assert.Contains(t, buf.String(), "journal=a")
	assert.NotContains(t, buf.String(), "journal=b")

	buf.Reset()
	logger.InfoContext(b, "second")
	assert.Contains(t, buf.String(), "journal=b")
	assert.NotContains(t, buf.String(), "journal=a")

	buf.Reset()
	logger.InfoContext(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "package=")
}

func TestLevels(t *testing.T) {
	level, err := logging.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logging.ParseLevel("chatty")
	assert.Error(t, err)

	var buf bytes.Buffer

	logger := logging.NewLogger(&buf, level)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
