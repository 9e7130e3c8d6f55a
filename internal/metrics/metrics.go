// internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pfmi3dsc"

// Metrics holds the counters of one run. Each run owns its registry so
// repeated runs in one process (tests) never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	AlignmentRecords   prometheus.Counter
	PositionsScored    prometheus.Counter
	FunctionalResidues prometheus.Counter
	StructuresFetched  *prometheus.CounterVec // result: downloaded, cached, failed
	AlignerRuns        *prometheus.CounterVec // result: ok, failed
	StageDuration      *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		AlignmentRecords: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alignment",
			Name:      "records_total",
			Help:      "Alignment records ingested",
		}),
		PositionsScored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "positions_total",
			Help:      "Aligned positions scored",
		}),
		FunctionalResidues: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "functional_residues_total",
			Help:      "Positions flagged functional",
		}),
		StructuresFetched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "structures_total",
			Help:      "Structure downloads by result",
		}, []string{"result"}),
		AlignerRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "align",
			Name:      "runs_total",
			Help:      "Structural aligner invocations by result",
		}, []string{"result"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		}, []string{"stage"}),
	}
}

// ObserveStage records the time since start under stage. Nil-safe.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Fetched counts one structure download outcome. Nil-safe.
func (m *Metrics) Fetched(result string) {
	if m == nil {
		return
	}
	m.StructuresFetched.WithLabelValues(result).Inc()
}

// Aligned counts one aligner run outcome. Nil-safe.
func (m *Metrics) Aligned(result string) {
	if m == nil {
		return
	}
	m.AlignerRuns.WithLabelValues(result).Inc()
}

// Scored records the size of one scoring result. Nil-safe.
func (m *Metrics) Scored(records, positions, functional int) {
	if m == nil {
		return
	}
	m.AlignmentRecords.Add(float64(records))
	m.PositionsScored.Add(float64(positions))
	m.FunctionalResidues.Add(float64(functional))
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
