package module

import (
	"time"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// AnalysisMetrics captures the outcome of analysing the benchmark artifacts
// of a set of replicas.
type AnalysisMetrics interface {
	// ReplicaAnalyzed reports that the artifact of a replica was analysed, and how long it took.
	ReplicaAnalyzed(replica bench.ReplicaID, duration time.Duration)

	// ReplicaFailed reports that the analysis of a replica was aborted.
	ReplicaFailed(replica bench.ReplicaID)

	// RecordsSkipped reports the number of malformed records dropped from a replica's artifact.
	RecordsSkipped(replica bench.ReplicaID, count int)

	// IterationsClassified reports how many iterations of a replica's timeline carry the given label.
	IterationsClassified(replica bench.ReplicaID, label bench.Label, count int)

	// FinalizationLatency reports the average finalization latency of a replica, in seconds.
	FinalizationLatency(replica bench.ReplicaID, seconds float64)

	// SequencesSegmented reports the lengths of the fast-path sequences of a replica.
	SequencesSegmented(replica bench.ReplicaID, lengths []uint64)

	// ProposalAnomaly reports an inconsistent proposal timing of the given kind.
	ProposalAnomaly(kind string)
}
