package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupExportsSpansOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	tr, err := Setup(&buf)
	require.NoError(t, err)

	_, span := tr.Tracer.Start(context.Background(), "score")
	span.End()
	require.NoError(t, tr.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"score"`)
	assert.Contains(t, buf.String(), Name)
}

func TestDisabled(t *testing.T) {
	tr, err := Setup(nil)
	require.NoError(t, err)
	_, span := tr.Tracer.Start(context.Background(), "x")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tr.Shutdown(context.Background()))

	assert.NotNil(t, OrNoop(nil))
}
