package metrics

import (
	"time"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module"
)

type NoopCollector struct{}

var _ module.AnalysisMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) ReplicaAnalyzed(bench.ReplicaID, time.Duration)         {}
func (nc *NoopCollector) ReplicaFailed(bench.ReplicaID)                          {}
func (nc *NoopCollector) RecordsSkipped(bench.ReplicaID, int)                    {}
func (nc *NoopCollector) IterationsClassified(bench.ReplicaID, bench.Label, int) {}
func (nc *NoopCollector) FinalizationLatency(bench.ReplicaID, float64)           {}
func (nc *NoopCollector) SequencesSegmented(bench.ReplicaID, []uint64)           {}
func (nc *NoopCollector) ProposalAnomaly(string)                                 {}
