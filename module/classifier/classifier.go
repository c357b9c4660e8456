// Package classifier maps raw finalization records to finalization labels.
package classifier

import (
	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// Classify returns the finalization label of a raw record. Records relayed by
// peers are PeerDerived regardless of their fast-path flag, since the replica
// has no timing authority over them. Iterations without a record are labelled
// bench.Unresolved by the timeline reconstruction, never by Classify.
func Classify(r bench.RawRecord) bench.Label {
	if r.Source == bench.SourcePeer {
		return bench.PeerDerived
	}
	if r.FastPath {
		return bench.FastPath
	}
	return bench.Checkpoint
}

// ClassifyAll labels every record, keyed by iteration.
func ClassifyAll(records []bench.RawRecord) map[uint64]bench.Label {
	labels := make(map[uint64]bench.Label, len(records))
	for _, r := range records {
		labels[r.Iteration] = Classify(r)
	}
	return labels
}
