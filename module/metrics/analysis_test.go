package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

func TestAnalysisCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewAnalysisCollector(registry)

	c.ReplicaAnalyzed(1, 20*time.Millisecond)
	c.ReplicaAnalyzed(2, 30*time.Millisecond)
	c.ReplicaFailed(3)
	c.RecordsSkipped(1, 4)
	c.IterationsClassified(1, bench.FastPath, 7)
	c.IterationsClassified(1, bench.Checkpoint, 2)
	c.FinalizationLatency(2, 1.5)
	c.SequencesSegmented(1, []uint64{0, 3, 12})
	c.ProposalAnomaly("missing_timing")
	c.ProposalAnomaly("missing_timing")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.replicas.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.replicas.WithLabelValues("failure")))
	assert.Equal(t, float64(4), testutil.ToFloat64(c.skippedRecords.WithLabelValues("1")))
	assert.Equal(t, float64(7), testutil.ToFloat64(c.iterations.WithLabelValues("1", "FP")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.iterations.WithLabelValues("1", "IC")))
	assert.Equal(t, 1.5, testutil.ToFloat64(c.averageLatency.WithLabelValues("2")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.sequences.WithLabelValues("1")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.anomalies.WithLabelValues("missing_timing")))

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "benchmark_analysis_replicas_total")
	assert.Contains(t, names, "benchmark_segmenter_sequence_length")
	assert.Contains(t, names, "benchmark_reconciler_anomalies_total")
}

func TestAnalysisCollector_DoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewAnalysisCollector(registry)
	assert.Panics(t, func() {
		NewAnalysisCollector(registry)
	})
}
