package timeline

import (
	"fmt"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// Reconstruct builds the dense timeline of a replica from its latency and
// label series. Both series are filled independently, latencies with 0 and
// labels with bench.Unresolved, and must span the same iterations.
//
// Expected errors:
//   - bench.MissingDataError if either series is empty or spans too many iterations
func Reconstruct(replica bench.ReplicaID, latencies *Series[float64], labels *Series[bench.Label]) (*bench.DenseTimeline, error) {
	latencyIterations, filledLatencies, err := Fill(latencies, 0)
	if err != nil {
		return nil, bench.NewMissingDataError(replica, fmt.Errorf("latency series: %w", err))
	}
	labelIterations, filledLabels, err := Fill(labels, bench.Unresolved)
	if err != nil {
		return nil, bench.NewMissingDataError(replica, fmt.Errorf("label series: %w", err))
	}

	// both series are built from the same records, so their axes coincide
	if len(latencyIterations) != len(labelIterations) || latencyIterations[0] != labelIterations[0] {
		return nil, fmt.Errorf("latency iterations [%d, +%d] and label iterations [%d, +%d] of replica %d differ",
			latencyIterations[0], len(latencyIterations), labelIterations[0], len(labelIterations), replica)
	}

	entries := make([]bench.TimelineEntry, len(latencyIterations))
	for i, iteration := range latencyIterations {
		entries[i] = bench.TimelineEntry{
			Iteration: iteration,
			Latency:   filledLatencies[i],
			Label:     filledLabels[i],
		}
	}

	return &bench.DenseTimeline{Replica: replica, Entries: entries}, nil
}

// FromRecords builds the latency and label series of a replica's records,
// labelling each record with classify.
func FromRecords(records []bench.RawRecord, classify func(bench.RawRecord) bench.Label) (*Series[float64], *Series[bench.Label]) {
	latencies := NewSeries[float64]()
	labels := NewSeries[bench.Label]()
	for _, r := range records {
		latencies.Put(r.Iteration, r.Latency.Seconds())
		labels.Put(r.Iteration, classify(r))
	}
	return latencies, labels
}
