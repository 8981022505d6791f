package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelFiltering(t *testing.T) {
	out := &bytes.Buffer{}
	log := NewConsoleLogger(out, "warn")

	log.Debugf("debug message")
	log.Infof("info message")
	log.Warnf("warn message")
	log.Errorf("error message")

	text := out.String()
	assert.NotContains(t, text, "debug message")
	assert.NotContains(t, text, "info message")
	assert.Contains(t, text, "warn message")
	assert.Contains(t, text, "error message")
}

func TestLogTimestampPrefix(t *testing.T) {
	out := &bytes.Buffer{}
	log := NewConsoleLogger(out, "info")

	log.Infof("hello %s", "world")
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] hello world\n$`, out.String())
}

func TestNilWriterDiscards(t *testing.T) {
	log := NewConsoleLogger(nil, "debug")
	// Must not panic.
	log.Debugf("into the void")
	log.Errorf("also into the void")
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	out := &bytes.Buffer{}
	log := NewConsoleLogger(out, "LOUD")

	log.Debugf("hidden")
	log.Infof("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}
