package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer, level int) *Logger {
	return &Logger{writer: buf, level: level, format: LogFormatText, fields: make(map[string]interface{})}
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf, LogLevelWarn)

	l.Debug("should not appear")
	assert.Empty(t, buf.String())

	l.Warn("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLoggerWithFieldIncludesValue(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf, LogLevelInfo).WithField("node", "chart/design")

	l.Info("allocating")
	assert.True(t, strings.Contains(buf.String(), "node=chart/design"))
}

func TestLoggerJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf, LogLevelInfo)
	l.format = LogFormatJSON

	l.Info("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestParseLogLevelUnknownDefaultsToInfo(t *testing.T) {
	assert.Equal(t, LogLevelInfo, parseLogLevel("nonsense"))
}
