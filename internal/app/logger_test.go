package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelControlsOutput(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logger := newLogger("warn", "text", out)

	logger.Info("not visible")
	logger.Warn("visible")

	output := out.String()
	assert.NotContains(t, output, "not visible")
	assert.Contains(t, output, "visible")
}

func TestNewLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logger := newLogger("chatty", "text", out)

	logger.Debug("not visible")
	logger.Info("visible")

	output := out.String()
	assert.NotContains(t, output, "not visible")
	assert.Contains(t, output, "visible")
}

func TestNewLogger_FormatSelectsHandler(t *testing.T) {
	t.Parallel()

	jsonOut := &bytes.Buffer{}
	newLogger("info", "json", jsonOut).Info("hello")
	require.True(t, bytes.HasPrefix(jsonOut.Bytes(), []byte("{")), "json format should produce JSON records")

	textOut := &bytes.Buffer{}
	newLogger("info", "text", textOut).Info("hello")
	assert.Contains(t, textOut.String(), "msg=hello")
}
