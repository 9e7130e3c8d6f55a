package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Scored(3, 40, 2)
	m.Fetched("downloaded")
	m.Fetched("downloaded")
	m.Fetched("failed")
	m.Aligned("ok")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.AlignmentRecords))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.PositionsScored))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FunctionalResidues))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StructuresFetched.WithLabelValues("downloaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlignerRuns.WithLabelValues("ok")))
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.Scored(1, 1, 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AlignmentRecords))
}

func TestNilIsNoop(t *testing.T) {
	var m *Metrics
	m.Scored(1, 2, 3)
	m.Fetched("ok")
	m.Aligned("ok")
	m.ObserveStage("score", time.Now())
	assert.NoError(t, m.WriteTextfile("ignored"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Scored(2, 10, 1)
	m.ObserveStage("score", time.Now())

	path := filepath.Join(t.TempDir(), "pfmi3dsc.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pfmi3dsc_scoring_positions_total 10")
	assert.Contains(t, string(data), `pfmi3dsc_stage_duration_seconds_count{stage="score"} 1`)
}
