package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "acssign", "test", slog.LevelDebug)
	logger.Debug("signed request", slog.String("action", "RunSearchCaseFullText"), MaskField("authorization", "ACS3-HMAC-SHA256 ..."))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "signed request", line["message"])
	assert.Equal(t, "DEBUG", line["severity"])
	assert.Equal(t, "acssign", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.Equal(t, "RunSearchCaseFullText", line["action"])
	assert.Equal(t, RedactedValue, line["authorization"])
	assert.Contains(t, line, "timestamp")
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "acssign", "", slog.LevelWarn)
	logger.Info("dropped")
	assert.Zero(t, buf.Len())
	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestSetupBridgesStdLog(t *testing.T) {
	prevDefault := slog.Default()
	prevOutput, prevFlags, prevPrefix := log.Writer(), log.Flags(), log.Prefix()
	t.Cleanup(func() {
		slog.SetDefault(prevDefault)
		log.SetOutput(prevOutput)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
	})

	var buf bytes.Buffer
	Setup(&buf, "acsproxy", "", slog.LevelInfo)
	log.Print("listening")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "listening", line["message"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Equal(t, "acsproxy", line["service"])
	assert.NotContains(t, line, "env")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestMasking(t *testing.T) {
	assert.Equal(t, RedactedValue, MaskField("Secret", "sk").Value.String())
	assert.Equal(t, "", MaskField("secret", "").Value.String())
	assert.Equal(t, "RunSearchCaseFullText", MaskField("action", "RunSearchCaseFullText").Value.String())
	assert.Equal(t, "LTAI*********", MaskAccessKeyID("LTAI5tEXAMPLE"))
	assert.Equal(t, RedactedValue, MaskAccessKeyID("abc"))
}
