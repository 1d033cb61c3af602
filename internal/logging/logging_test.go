package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":        zapcore.WarnLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Format: FormatJSON, Out: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Named("catalog").Info("loaded", zap.Int("dogs", 3))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loaded", line["msg"])
	assert.Equal(t, "kennel", line["app"])
	assert.Equal(t, "catalog", line["logger"])
	assert.EqualValues(t, 3, line["dogs"])
}

func TestConsoleLoggerAndBadFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Out: &buf})
	require.NoError(t, err)
	log.Info("quiet")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "WARN")

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
