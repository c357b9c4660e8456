package report

import (
	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/aggregator"
	"github.com/massimoalbarello/consensus-on-demand/module/analysis"
)

// View is the serializable form of an analysis report. Maps are keyed by
// strings so that every encoding can represent them.
type View struct {
	Replicas  []ReplicaView           `json:"replicas" yaml:"replicas"`
	Pooled    PooledView              `json:"pooled" yaml:"pooled"`
	Proposals map[string]ProposalView `json:"proposals" yaml:"proposals"`
	Delays    map[string][]float64    `json:"delays" yaml:"delays"`
	Anomalies []AnomalyView           `json:"anomalies" yaml:"anomalies"`
	Failed    []FailureView           `json:"failed" yaml:"failed"`
}

type ReplicaView struct {
	Replica         uint                `json:"replica" yaml:"replica"`
	FirstIteration  uint64              `json:"first_iteration" yaml:"first_iteration"`
	LastIteration   uint64              `json:"last_iteration" yaml:"last_iteration"`
	AverageLatency  *float64            `json:"average_latency" yaml:"average_latency"`
	LatencySamples  int                 `json:"latency_samples" yaml:"latency_samples"`
	Counts          map[string]int      `json:"counts" yaml:"counts"`
	Sequences       []SequenceView      `json:"sequences" yaml:"sequences"`
	SequenceLengths []uint64            `json:"sequence_lengths" yaml:"sequence_lengths"`
	Histogram       []aggregator.Bucket `json:"histogram" yaml:"histogram"`
	Timeline        []IterationView     `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Skipped         []string            `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type SequenceView struct {
	Anchor uint64 `json:"anchor" yaml:"anchor"`
	Length uint64 `json:"length" yaml:"length"`
}

// IterationView is one point of the latency series of a replica.
type IterationView struct {
	Iteration uint64  `json:"iteration" yaml:"iteration"`
	Latency   float64 `json:"latency" yaml:"latency"`
	Label     string  `json:"label" yaml:"label"`
}

type PooledView struct {
	Replicas       []uint              `json:"replicas" yaml:"replicas"`
	AverageLatency *float64            `json:"average_latency" yaml:"average_latency"`
	LatencySamples int                 `json:"latency_samples" yaml:"latency_samples"`
	Counts         map[string]int      `json:"counts" yaml:"counts"`
	Histogram      []aggregator.Bucket `json:"histogram" yaml:"histogram"`
}

type ProposalView struct {
	Sent     *uint64  `json:"sent" yaml:"sent"`
	Received []uint64 `json:"received" yaml:"received"`
}

type AnomalyView struct {
	Kind    string `json:"kind" yaml:"kind"`
	Replica uint   `json:"replica" yaml:"replica"`
	Block   string `json:"block" yaml:"block"`
	Error   string `json:"error" yaml:"error"`
}

type FailureView struct {
	Replica uint   `json:"replica" yaml:"replica"`
	Error   string `json:"error" yaml:"error"`
}

// ViewOptions selects optional parts of a View.
type ViewOptions struct {
	// Timeline includes the per-iteration latency series of every replica.
	Timeline bool
}

// NewView converts an analysis report into its serializable form.
func NewView(r *analysis.Report, opts ViewOptions) *View {
	v := &View{
		Replicas:  make([]ReplicaView, 0, len(r.Replicas)),
		Proposals: make(map[string]ProposalView, len(r.Proposals)),
		Delays:    make(map[string][]float64, len(r.Delays)),
		Anomalies: make([]AnomalyView, 0, len(r.Anomalies)),
		Failed:    make([]FailureView, 0, len(r.Failed)),
	}

	for _, result := range r.Replicas {
		v.Replicas = append(v.Replicas, newReplicaView(result, opts))
	}

	if r.Pooled != nil {
		v.Pooled = PooledView{
			Replicas:       make([]uint, 0, len(r.Pooled.Replicas)),
			AverageLatency: r.Pooled.AverageLatency,
			LatencySamples: r.Pooled.LatencySamples,
			Counts:         counts(r.Pooled.LabelCounts),
			Histogram:      r.Pooled.SequenceHistogram.Buckets(),
		}
		for _, replica := range r.Pooled.Replicas {
			v.Pooled.Replicas = append(v.Pooled.Replicas, uint(replica))
		}
	}

	for hash, entry := range r.Proposals {
		p := ProposalView{Received: make([]uint64, 0, len(entry.Received))}
		if entry.Sent != nil {
			sent := uint64(*entry.Sent)
			p.Sent = &sent
		}
		for _, received := range entry.Received {
			p.Received = append(p.Received, uint64(received))
		}
		v.Proposals[string(hash)] = p
	}
	for hash, delays := range r.Delays {
		v.Delays[string(hash)] = delays
	}

	for _, a := range r.Anomalies {
		v.Anomalies = append(v.Anomalies, AnomalyView{
			Kind:    a.Kind.String(),
			Replica: uint(a.Replica),
			Block:   string(a.Block),
			Error:   a.Err.Error(),
		})
	}
	for _, f := range r.Failed {
		v.Failed = append(v.Failed, FailureView{Replica: uint(f.Replica), Error: f.Err.Error()})
	}

	return v
}

func newReplicaView(result *analysis.ReplicaResult, opts ViewOptions) ReplicaView {
	rep := result.Report
	v := ReplicaView{
		Replica:         uint(rep.Replica),
		FirstIteration:  rep.FirstIteration,
		LastIteration:   rep.LastIteration,
		AverageLatency:  rep.AverageLatency,
		LatencySamples:  rep.LatencySamples,
		Counts:          counts(rep.LabelCounts),
		Sequences:       make([]SequenceView, 0, len(rep.Sequences)),
		SequenceLengths: rep.SequenceLengths,
		Histogram:       rep.SequenceHistogram.Buckets(),
	}
	for _, s := range rep.Sequences {
		v.Sequences = append(v.Sequences, SequenceView{Anchor: s.Anchor, Length: s.Length})
	}
	if opts.Timeline && result.Timeline != nil {
		v.Timeline = make([]IterationView, 0, result.Timeline.Len())
		for _, e := range result.Timeline.Entries {
			v.Timeline = append(v.Timeline, IterationView{Iteration: e.Iteration, Latency: e.Latency, Label: e.Label.String()})
		}
	}
	for _, skipped := range result.Skipped {
		v.Skipped = append(v.Skipped, skipped.Error())
	}
	return v
}

func counts(labelCounts map[bench.Label]int) map[string]int {
	out := make(map[string]int, len(labelCounts))
	for label, count := range labelCounts {
		out[label.String()] = count
	}
	return out
}
