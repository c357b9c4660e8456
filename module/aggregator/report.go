package aggregator

import (
	"github.com/montanaflynn/stats"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/segmenter"
)

// ReplicaReport summarizes the analysis of one replica.
type ReplicaReport struct {
	Replica        bench.ReplicaID
	FirstIteration uint64
	LastIteration  uint64
	// AverageLatency is the mean latency, in seconds, of the rounds finalized
	// by the replica itself (fast path or checkpoint). Nil when there is none.
	AverageLatency *float64
	// LatencySamples is the number of rounds AverageLatency is computed over.
	LatencySamples  int
	LabelCounts     map[bench.Label]int
	Sequences       []bench.Sequence
	SequenceLengths []uint64
	// SequenceHistogram counts Sequences by length.
	SequenceHistogram Histogram
}

// Count returns the number of iterations with the given label.
func (r *ReplicaReport) Count(label bench.Label) int {
	return r.LabelCounts[label]
}

// Summarize builds the report of one replica from its timeline and its
// segmentation. seg may be nil when no segmentation was run, in which case
// the report has no sequences.
func Summarize(timeline *bench.DenseTimeline, seg *segmenter.Result) *ReplicaReport {
	report := &ReplicaReport{
		Replica:           timeline.Replica,
		FirstIteration:    timeline.First(),
		LastIteration:     timeline.Last(),
		LabelCounts:       make(map[bench.Label]int, len(bench.Labels)),
		Sequences:         []bench.Sequence{},
		SequenceLengths:   []uint64{},
		SequenceHistogram: Histogram{},
	}
	for _, label := range bench.Labels {
		report.LabelCounts[label] = 0
	}

	latencies := make([]float64, 0, timeline.Len())
	for _, e := range timeline.Entries {
		report.LabelCounts[e.Label]++
		if e.Label == bench.FastPath || e.Label == bench.Checkpoint {
			latencies = append(latencies, e.Latency)
		}
	}
	report.LatencySamples = len(latencies)
	if len(latencies) > 0 {
		// only fails on empty input
		mean, err := stats.Mean(latencies)
		if err == nil {
			report.AverageLatency = &mean
		}
	}

	if seg != nil {
		report.Sequences = append(report.Sequences, seg.Sequences...)
		report.SequenceLengths = append(report.SequenceLengths, seg.Lengths...)
		report.SequenceHistogram = NewHistogram(seg.Lengths)
	}

	return report
}

// PooledReport combines the reports of several replicas.
type PooledReport struct {
	Replicas []bench.ReplicaID
	// AverageLatency is the mean over every contributing round of every
	// replica, not the mean of the per-replica averages.
	AverageLatency    *float64
	LatencySamples    int
	LabelCounts       map[bench.Label]int
	SequenceHistogram Histogram
}

// Pool combines the given replica reports.
func Pool(reports []*ReplicaReport) *PooledReport {
	pooled := &PooledReport{
		Replicas:          make([]bench.ReplicaID, 0, len(reports)),
		LabelCounts:       make(map[bench.Label]int, len(bench.Labels)),
		SequenceHistogram: Histogram{},
	}
	for _, label := range bench.Labels {
		pooled.LabelCounts[label] = 0
	}

	var weighted float64
	for _, r := range reports {
		pooled.Replicas = append(pooled.Replicas, r.Replica)
		for label, count := range r.LabelCounts {
			pooled.LabelCounts[label] += count
		}
		pooled.SequenceHistogram.Merge(r.SequenceHistogram)
		if r.AverageLatency != nil {
			weighted += *r.AverageLatency * float64(r.LatencySamples)
			pooled.LatencySamples += r.LatencySamples
		}
	}
	if pooled.LatencySamples > 0 {
		avg := weighted / float64(pooled.LatencySamples)
		pooled.AverageLatency = &avg
	}

	return pooled
}
