package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module"
)

// AnalysisCollector implements module.AnalysisMetrics on top of Prometheus.
type AnalysisCollector struct {
	replicas         *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	skippedRecords   *prometheus.CounterVec
	iterations       *prometheus.GaugeVec
	averageLatency   *prometheus.GaugeVec
	sequences        *prometheus.CounterVec
	sequenceLength   prometheus.Histogram
	anomalies        *prometheus.CounterVec
}

var _ module.AnalysisMetrics = (*AnalysisCollector)(nil)

func NewAnalysisCollector(registerer prometheus.Registerer) *AnalysisCollector {
	r := NewRegisterer(registerer)

	return &AnalysisCollector{
		replicas: r.RegisterNewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemAnalysis,
			Name:      "replicas_total",
			Help:      "number of replicas whose artifact was analysed, by result",
		}, []string{LabelResult}),
		analysisDuration: r.RegisterNewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemAnalysis,
			Name:      "replica_duration_seconds",
			Help:      "time spent analysing the artifact of one replica",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		skippedRecords: r.RegisterNewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemTimeline,
			Name:      "skipped_records_total",
			Help:      "number of malformed per-iteration records dropped",
		}, []string{LabelReplica}),
		iterations: r.RegisterNewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemTimeline,
			Name:      "iterations",
			Help:      "number of iterations of the reconstructed timeline, by finalization kind",
		}, []string{LabelReplica, LabelKind}),
		averageLatency: r.RegisterNewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemTimeline,
			Name:      "average_finalization_latency_seconds",
			Help:      "average latency of the rounds finalized by the replica itself",
		}, []string{LabelReplica}),
		sequences: r.RegisterNewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemSegmenter,
			Name:      "sequences_total",
			Help:      "number of fast-path sequences found",
		}, []string{LabelReplica}),
		sequenceLength: r.RegisterNewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemSegmenter,
			Name:      "sequence_length",
			Help:      "length of the fast-path sequences, in iterations",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500},
		}),
		anomalies: r.RegisterNewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBenchmark,
			Subsystem: subsystemReconciler,
			Name:      "anomalies_total",
			Help:      "number of inconsistent proposal timings, by kind",
		}, []string{LabelKind}),
	}
}

func replicaLabel(replica bench.ReplicaID) string {
	return strconv.FormatUint(uint64(replica), 10)
}

func (c *AnalysisCollector) ReplicaAnalyzed(replica bench.ReplicaID, duration time.Duration) {
	c.replicas.WithLabelValues("success").Inc()
	c.analysisDuration.Observe(duration.Seconds())
}

func (c *AnalysisCollector) ReplicaFailed(replica bench.ReplicaID) {
	c.replicas.WithLabelValues("failure").Inc()
}

func (c *AnalysisCollector) RecordsSkipped(replica bench.ReplicaID, count int) {
	c.skippedRecords.WithLabelValues(replicaLabel(replica)).Add(float64(count))
}

func (c *AnalysisCollector) IterationsClassified(replica bench.ReplicaID, label bench.Label, count int) {
	c.iterations.WithLabelValues(replicaLabel(replica), label.String()).Set(float64(count))
}

func (c *AnalysisCollector) FinalizationLatency(replica bench.ReplicaID, seconds float64) {
	c.averageLatency.WithLabelValues(replicaLabel(replica)).Set(seconds)
}

func (c *AnalysisCollector) SequencesSegmented(replica bench.ReplicaID, lengths []uint64) {
	c.sequences.WithLabelValues(replicaLabel(replica)).Add(float64(len(lengths)))
	for _, l := range lengths {
		c.sequenceLength.Observe(float64(l))
	}
}

func (c *AnalysisCollector) ProposalAnomaly(kind string) {
	c.anomalies.WithLabelValues(kind).Inc()
}
