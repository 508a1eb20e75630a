package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("skipped %d", 1)
	assert.Empty(t, buf.String())

	log.Warn("offering=%d has no slots", 7)
	assert.Contains(t, buf.String(), "offering=7 has no slots")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}
