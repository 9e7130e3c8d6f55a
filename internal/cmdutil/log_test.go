package cmdutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	var b bytes.Buffer
	log := NewLogger(&b, false, false)
	log.Debug("hidden")
	log.Warn("family size differs", "members", 4, "aligned", 3)
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "level=WARN")
	assert.Contains(t, b.String(), "members=4")

	b.Reset()
	NewLogger(&b, true, true).Warn("quiet wins")
	assert.Zero(t, b.Len())

	b.Reset()
	NewLogger(&b, false, true).Debug("shown")
	assert.Contains(t, b.String(), "shown")
}

func TestWarnf(t *testing.T) {
	var b bytes.Buffer
	Warnf(NewLogger(&b, false, false), "skipped %d of %d", 1, 3)
	assert.Contains(t, b.String(), `msg="skipped 1 of 3"`)
	Warnf(nil, "no panic")
	Discard().Error("dropped")
}
