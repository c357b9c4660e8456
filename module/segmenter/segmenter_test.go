package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

const (
	fp = bench.FastPath
	ic = bench.Checkpoint
	dk = bench.PeerDerived
	un = bench.Unresolved
)

func seq(anchor, length uint64) bench.Sequence {
	return bench.Sequence{Anchor: anchor, Length: length}
}

// TestSegment_Scenarios runs the segmentation over hand-written timelines
// with the default policies.
func TestSegment_Scenarios(t *testing.T) {
	cases := []struct {
		name     string
		labels   []bench.Label
		offset   uint64
		expected []bench.Sequence
	}{
		{
			name:     "gap folded into the run it resolves into",
			labels:   []bench.Label{fp, un, ic, fp, un, fp},
			offset:   1,
			expected: []bench.Sequence{seq(0, 1), seq(3, 3)},
		},
		{
			name:     "empty timeline",
			labels:   nil,
			offset:   0,
			expected: []bench.Sequence{seq(0, 0)},
		},
		{
			name:     "single fast-path iteration",
			labels:   []bench.Label{fp},
			offset:   5,
			expected: []bench.Sequence{seq(0, 5)},
		},
		{
			name:     "single checkpoint",
			labels:   []bench.Label{ic},
			offset:   5,
			expected: []bench.Sequence{seq(0, 0), seq(5, 0)},
		},
		{
			name:     "leading gap before a checkpoint",
			labels:   []bench.Label{un, un, ic},
			offset:   1,
			expected: []bench.Sequence{seq(0, 0), seq(3, 0)},
		},
		{
			name:     "leading gap before the first fast-path iteration",
			labels:   []bench.Label{un, fp},
			offset:   1,
			expected: []bench.Sequence{seq(0, 2)},
		},
		{
			name:     "gap before a checkpoint is discarded",
			labels:   []bench.Label{ic, fp, un, un, ic, fp},
			offset:   10,
			expected: []bench.Sequence{seq(0, 0), seq(10, 1), seq(14, 1)},
		},
		{
			name:     "consecutive checkpoints",
			labels:   []bench.Label{ic, ic, ic},
			offset:   1,
			expected: []bench.Sequence{seq(0, 0), seq(1, 0), seq(2, 0), seq(3, 0)},
		},
		{
			name:     "only unresolved iterations",
			labels:   []bench.Label{un, un, un},
			offset:   1,
			expected: []bench.Sequence{seq(0, 0)},
		},
		{
			name:     "peer-derived iterations are inert",
			labels:   []bench.Label{ic, fp, un, dk, fp},
			offset:   0,
			expected: []bench.Sequence{seq(0, 0), seq(0, 3)},
		},
		{
			name:     "peer-derived iteration before a checkpoint",
			labels:   []bench.Label{ic, fp, dk, ic},
			offset:   0,
			expected: []bench.Sequence{seq(0, 0), seq(0, 1), seq(3, 0)},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := Segment(c.labels, c.offset)
			assert.Equal(t, c.expected, result.Sequences)
			require.Len(t, result.Lengths, len(result.Sequences))
			for i, s := range result.Sequences {
				assert.Equal(t, s.Length, result.Lengths[i])
			}
		})
	}
}

func TestSegment_TrailingGapPolicy(t *testing.T) {
	labels := []bench.Label{ic, fp, un, un}

	t.Run("discard", func(t *testing.T) {
		result := Segment(labels, 0)
		assert.Equal(t, []bench.Sequence{seq(0, 0), seq(0, 1)}, result.Sequences)
	})

	t.Run("fold", func(t *testing.T) {
		result := Segment(labels, 0, WithTrailingGapPolicy(FoldTrailingGap))
		assert.Equal(t, []bench.Sequence{seq(0, 0), seq(0, 3)}, result.Sequences)
	})

	t.Run("fold without any run", func(t *testing.T) {
		result := Segment([]bench.Label{un, un}, 1, WithTrailingGapPolicy(FoldTrailingGap))
		assert.Equal(t, []bench.Sequence{seq(0, 0)}, result.Sequences)
	})
}

func TestSegment_PeerDerivedAsUnresolved(t *testing.T) {
	labels := []bench.Label{ic, fp, un, dk, fp}

	result := Segment(labels, 0, WithPeerDerivedPolicy(PeerDerivedAsUnresolved))
	assert.Equal(t, []bench.Sequence{seq(0, 0), seq(0, 4)}, result.Sequences)

	// a peer-derived iteration right before a checkpoint is discarded like a gap
	result = Segment([]bench.Label{ic, fp, dk, ic}, 0, WithPeerDerivedPolicy(PeerDerivedAsUnresolved))
	assert.Equal(t, []bench.Sequence{seq(0, 0), seq(0, 1), seq(3, 0)}, result.Sequences)
}

func TestParsePolicies(t *testing.T) {
	p, err := ParseTrailingGapPolicy("Fold")
	require.NoError(t, err)
	assert.Equal(t, FoldTrailingGap, p)
	assert.Equal(t, "fold", p.String())

	_, err = ParseTrailingGapPolicy("keep")
	assert.Error(t, err)

	q, err := ParsePeerDerivedPolicy("unresolved")
	require.NoError(t, err)
	assert.Equal(t, PeerDerivedAsUnresolved, q)
	assert.Equal(t, "unresolved", q.String())

	_, err = ParsePeerDerivedPolicy("")
	assert.Error(t, err)
}

func labelsGen() *rapid.Generator[[]bench.Label] {
	return rapid.SliceOfN(rapid.SampledFrom(bench.Labels), 0, 200)
}

// TestSegment_SequenceCount checks that a timeline with k checkpoints is
// split into exactly k+1 sequences, whatever the policies.
func TestSegment_SequenceCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		labels := labelsGen().Draw(t, "labels")
		offset := rapid.Uint64Range(0, 1000).Draw(t, "offset")
		trailing := rapid.SampledFrom([]TrailingGapPolicy{DiscardTrailingGap, FoldTrailingGap}).Draw(t, "trailing")
		peer := rapid.SampledFrom([]PeerDerivedPolicy{PeerDerivedInert, PeerDerivedAsUnresolved}).Draw(t, "peer")

		checkpoints := 0
		for _, l := range labels {
			if l == bench.Checkpoint {
				checkpoints++
			}
		}

		result := Segment(labels, offset, WithTrailingGapPolicy(trailing), WithPeerDerivedPolicy(peer))
		if len(result.Sequences) != checkpoints+1 {
			t.Fatalf("expected %d sequences, got %d", checkpoints+1, len(result.Sequences))
		}
		if len(result.Lengths) != len(result.Sequences) {
			t.Fatalf("expected %d lengths, got %d", len(result.Sequences), len(result.Lengths))
		}
		if result.Sequences[0].Anchor != 0 {
			t.Fatalf("first sequence must be anchored at genesis, got %d", result.Sequences[0].Anchor)
		}
	})
}

// TestSegment_LengthsBounded checks that the sequences never account for more
// iterations than the timeline, including the iterations before its start.
func TestSegment_LengthsBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		labels := labelsGen().Draw(t, "labels")
		offset := rapid.Uint64Range(0, 1000).Draw(t, "offset")

		result := Segment(labels, offset, WithTrailingGapPolicy(FoldTrailingGap), WithPeerDerivedPolicy(PeerDerivedAsUnresolved))
		var total uint64
		for _, l := range result.Lengths {
			total += l
		}
		if total > offset+uint64(len(labels)) {
			t.Fatalf("sequences cover %d iterations, timeline only %d", total, offset+uint64(len(labels)))
		}
	})
}

// TestSegment_AnchorsAtCheckpoints checks that every sequence but the first
// is anchored at the iteration of a checkpoint, in order.
func TestSegment_AnchorsAtCheckpoints(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		labels := labelsGen().Draw(t, "labels")
		offset := rapid.Uint64Range(0, 1000).Draw(t, "offset")

		var anchors []uint64
		for i, l := range labels {
			if l == bench.Checkpoint {
				anchors = append(anchors, uint64(i)+offset)
			}
		}

		result := Segment(labels, offset)
		for i, a := range anchors {
			if result.Sequences[i+1].Anchor != a {
				t.Fatalf("sequence %d anchored at %d, expected %d", i+1, result.Sequences[i+1].Anchor, a)
			}
		}
	})
}
