package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(false)
	logger.SetOutput(&buf)

	logger.Info("collection has %d series", 3)
	logger.Success("flushed %d updates", 2)
	logger.Warn("served from cache")
	logger.Error("store unavailable")
	logger.Debug("hidden in normal mode")

	output := buf.String()
	assert.Contains(t, output, "collection has 3 series")
	assert.Contains(t, output, "✓ flushed 2 updates")
	assert.Contains(t, output, "⚠ served from cache")
	assert.Contains(t, output, "✗ store unavailable")
	assert.NotContains(t, output, "hidden in normal mode")
}

func TestLogger_VerboseShowsDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(true)
	logger.SetOutput(&buf)

	logger.Debug("diff: %d to insert", 4)
	logger.DebugHTTP("POST %s", "https://graphql.anilist.co")

	assert.True(t, logger.Verbose())
	assert.Contains(t, buf.String(), "[DEBUG] diff: 4 to insert")
	assert.Contains(t, buf.String(), "[HTTP] POST https://graphql.anilist.co")
}

func TestLogger_BelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(false)
	logger.SetOutput(&buf)
	logger.level = LevelError

	logger.Stage("Should not appear")
	logger.Warn("Should not appear either")

	assert.Empty(t, buf.String())
}

func TestLogger_Context(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(false)
	logger.SetOutput(&buf)

	ctx := WithContext(context.Background(), logger)
	Info(ctx, "from context")

	assert.Same(t, logger, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
	assert.Contains(t, buf.String(), "from context")
}

func TestLogger_TeeToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tsundoku.log")
	file := OpenFile(FileOptions{Path: path})

	var console bytes.Buffer
	logger := New(false)
	logger.SetOutput(&console)
	logger.Tee(file)

	logger.Warn("written twice")
	require.NoError(t, file.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, console.String(), "written twice")
	assert.Contains(t, string(data), "written twice")
}
