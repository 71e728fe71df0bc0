package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_DebugHiddenUnlessEnabled(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, false)

	log.Debugf("hidden %d\n", 1)
	log.Infof("shown %d\n", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestLogger_WithFieldTagsLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, true).WithField("round", 3)

	log.Debugf("retrying")

	assert.Contains(t, buf.String(), "round=3")
	assert.Contains(t, buf.String(), "retrying")
}
