package unittest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// RecordFixture returns a record of the given iteration which is classified
// as label. The latency is one second per label value so that every label
// has a distinct latency.
func RecordFixture(iteration uint64, label bench.Label) bench.RawRecord {
	r := bench.RawRecord{
		Iteration: iteration,
		Latency:   bench.Latency{Secs: uint64(label)},
		FastPath:  label == bench.FastPath,
		Source:    bench.SourceLocal,
	}
	if label == bench.PeerDerived {
		r.Source = bench.SourcePeer
	}
	return r
}

// ArtifactFixture returns the artifact of a replica with one record per
// labelled iteration. Unresolved iterations get no record.
func ArtifactFixture(replica bench.ReplicaID, labels map[uint64]bench.Label) *bench.Artifact {
	a := &bench.Artifact{
		Replica:   replica,
		Proposals: make(map[bench.BlockHash]bench.ProposalTiming),
	}
	for iteration, label := range labels {
		if label == bench.Unresolved {
			continue
		}
		a.Records = append(a.Records, RecordFixture(iteration, label))
	}
	return a
}

type recordJSON struct {
	Latency          bench.Latency `json:"latency"`
	FastPath         bool          `json:"fp_finalization"`
	FinalizationType string        `json:"finalization_type,omitempty"`
}

type proposalJSON struct {
	Sent     *uint64 `json:"sent"`
	Received *uint64 `json:"received"`
}

// WriteArtifactFile writes the artifact in the format produced by the
// replicas, under the standard artifact file name in dir, and returns its path.
func WriteArtifactFile(t testing.TB, dir string, a *bench.Artifact) string {
	finalization := make(map[string]*recordJSON, len(a.Records))
	for _, r := range a.Records {
		rec := &recordJSON{Latency: r.Latency, FastPath: r.FastPath}
		if r.Source == bench.SourcePeer {
			rec.FinalizationType = bench.PeerDerived.String()
		}
		finalization[strconv.FormatUint(r.Iteration, 10)] = rec
	}

	proposals := make(map[string]proposalJSON, len(a.Proposals))
	for hash, timing := range a.Proposals {
		var p proposalJSON
		if timing.Sent != nil {
			sent := uint64(*timing.Sent)
			p.Sent = &sent
		}
		if timing.Received != nil {
			received := uint64(*timing.Received)
			p.Received = &received
		}
		proposals[string(hash)] = p
	}

	data, err := json.Marshal(map[string]interface{}{
		"finalization_times": finalization,
		"proposals_timings":  proposals,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "benchmark_result_"+strconv.FormatUint(uint64(a.Replica), 10)+".json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
