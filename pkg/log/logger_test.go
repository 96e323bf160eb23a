package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCslLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewCslLoggerWith(&buf, "predict", LevelWarn)
	require.NoError(t, err)

	ctx := context.Background()
	logger.Info(ctx, "hidden %d", 1)
	logger.Debug(ctx, "hidden")
	logger.Warn(ctx, "shown %s", "warn")
	logger.Error(ctx, "shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [predict] shown warn")
	assert.Contains(t, out, "[ERROR] [predict] shown error")
}

func TestCslLoggerWithKeepsOutput(t *testing.T) {
	var buf bytes.Buffer
	root, _ := NewCslLoggerWith(&buf, "", LevelDebug)
	child := root.With("crawler")

	child.Debug(context.Background(), "ngày %s", "1-9-2025")
	assert.Contains(t, buf.String(), "[DEBUG] [crawler] ngày 1-9-2025")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
