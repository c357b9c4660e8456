package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

func labelOf(r bench.RawRecord) bench.Label {
	if r.FastPath {
		return bench.FastPath
	}
	return bench.Checkpoint
}

func TestReconstruct(t *testing.T) {
	records := []bench.RawRecord{
		{Iteration: 6, Latency: bench.Latency{Secs: 1}, FastPath: true},
		{Iteration: 3, Latency: bench.Latency{Nanos: 500_000_000}},
		{Iteration: 4, Latency: bench.Latency{Secs: 2}, FastPath: true},
	}
	latencies, labels := FromRecords(records, labelOf)

	tl, err := Reconstruct(2, latencies, labels)
	require.NoError(t, err)
	assert.Equal(t, bench.ReplicaID(2), tl.Replica)
	assert.Equal(t, []bench.TimelineEntry{
		{Iteration: 3, Latency: 0.5, Label: bench.Checkpoint},
		{Iteration: 4, Latency: 2, Label: bench.FastPath},
		{Iteration: 5, Latency: 0, Label: bench.Unresolved},
		{Iteration: 6, Latency: 1, Label: bench.FastPath},
	}, tl.Entries)
}

func TestReconstruct_NoRecords(t *testing.T) {
	latencies, labels := FromRecords(nil, labelOf)
	_, err := Reconstruct(5, latencies, labels)
	require.Error(t, err)
	assert.True(t, bench.IsMissingDataError(err))
	assert.ErrorIs(t, err, bench.ErrNoObservations)
}

func TestReconstruct_MismatchedAxes(t *testing.T) {
	latencies := seriesOf(map[uint64]float64{1: 0.1, 2: 0.2})
	labels := seriesOf(map[uint64]bench.Label{2: bench.FastPath})

	_, err := Reconstruct(1, latencies, labels)
	require.Error(t, err)
	assert.False(t, bench.IsMissingDataError(err))
}
