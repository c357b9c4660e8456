package analysis

import (
	"context"
	"fmt"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/aggregator"
	"github.com/massimoalbarello/consensus-on-demand/module/classifier"
	"github.com/massimoalbarello/consensus-on-demand/module/segmenter"
	"github.com/massimoalbarello/consensus-on-demand/module/timeline"
)

// Loader provides the artifact of a replica.
type Loader interface {
	// Load returns the decoded artifact of the replica.
	// Expected errors:
	//   - bench.MissingDataError if the replica has no usable artifact
	Load(ctx context.Context, replica bench.ReplicaID) (*bench.Artifact, error)
}

// Options configures the analysis of a single replica.
type Options struct {
	// FastConsensus is true when the benchmarked protocol ran with the fast
	// path enabled. Fast-path sequences are only segmented in that mode.
	FastConsensus bool
	TrailingGap   segmenter.TrailingGapPolicy
	PeerDerived   segmenter.PeerDerivedPolicy
}

func DefaultOptions() Options {
	return Options{
		FastConsensus: true,
		TrailingGap:   segmenter.DiscardTrailingGap,
		PeerDerived:   segmenter.PeerDerivedInert,
	}
}

// ReplicaResult is the analysis of one replica.
type ReplicaResult struct {
	Replica  bench.ReplicaID
	Timeline *bench.DenseTimeline
	// Segmentation is nil when the benchmark did not run in fast-consensus mode.
	Segmentation *segmenter.Result
	Report       *aggregator.ReplicaReport
	// Skipped holds the malformed records dropped from the artifact.
	Skipped   []error
	Proposals map[bench.BlockHash]bench.ProposalTiming
}

// Analyze runs the analysis of one replica's artifact: it reconstructs the
// dense timeline of classified rounds, segments it into fast-path sequences
// and summarizes the result.
//
// Expected errors:
//   - bench.MissingDataError if the artifact holds no usable record
func Analyze(artifact *bench.Artifact, opts Options) (*ReplicaResult, error) {
	latencies, labels := timeline.FromRecords(artifact.Records, classifier.Classify)
	tl, err := timeline.Reconstruct(artifact.Replica, latencies, labels)
	if err != nil {
		return nil, fmt.Errorf("could not reconstruct timeline: %w", err)
	}

	var seg *segmenter.Result
	if opts.FastConsensus {
		result := segmenter.Segment(tl.Labels(), tl.First(),
			segmenter.WithTrailingGapPolicy(opts.TrailingGap),
			segmenter.WithPeerDerivedPolicy(opts.PeerDerived),
		)
		seg = &result
	}

	return &ReplicaResult{
		Replica:      artifact.Replica,
		Timeline:     tl,
		Segmentation: seg,
		Report:       aggregator.Summarize(tl, seg),
		Skipped:      artifact.Skipped,
		Proposals:    artifact.Proposals,
	}, nil
}
