package segmenter

import (
	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

type state uint8

const (
	// AtStart: no fast-path finalization and no checkpoint seen yet.
	AtStart state = iota
	// InRun: a sequence is open and accumulating fast-path finalizations.
	InRun
	// InGap: inside an unresolved stretch, waiting for the next fast-path
	// finalization or checkpoint to decide its fate.
	InGap
)

func (s state) String() string {
	switch s {
	case AtStart:
		return "AtStart"
	case InRun:
		return "InRun"
	case InGap:
		return "InGap"
	default:
		return "unknown"
	}
}

// Result is the segmentation of one timeline.
type Result struct {
	Sequences []bench.Sequence `json:"sequences"`
	// Lengths holds the length of every sequence, in order.
	Lengths []uint64 `json:"lengths"`
}

// machine holds the segmentation state while walking a timeline.
type machine struct {
	cfg     config
	offset  uint64
	state   state
	resume  state // state to return to once the current gap is resolved
	anchor  uint64
	length  uint64
	pending uint64
	result  Result
}

// Segment partitions labels into fast-path sequences. offset is the iteration
// of labels[0]. A timeline with k checkpoints yields exactly k+1 sequences.
func Segment(labels []bench.Label, offset uint64, opts ...Option) Result {
	m := &machine{
		offset: offset,
		state:  AtStart,
		result: Result{
			Sequences: make([]bench.Sequence, 0, 1),
			Lengths:   make([]uint64, 0, 1),
		},
	}
	for _, apply := range opts {
		apply(&m.cfg)
	}

	for i, label := range labels {
		m.step(uint64(i), label)
	}
	m.finish()

	return m.result
}

func (m *machine) step(i uint64, label bench.Label) {
	if label == bench.PeerDerived {
		if m.cfg.peerDerived != PeerDerivedAsUnresolved {
			return
		}
		label = bench.Unresolved
	}

	switch label {
	case bench.Checkpoint:
		// a gap right before a checkpoint contributes nothing
		m.emit()
		m.anchor = i + m.offset
		m.length = 0
		m.pending = 0
		m.state = InRun
	case bench.FastPath:
		if m.state == InGap {
			m.resolveGap()
		}
		if m.state == AtStart {
			m.length = i + m.offset
			m.state = InRun
		} else {
			m.length++
		}
	case bench.Unresolved:
		if m.state != InGap {
			m.resume = m.state
			m.state = InGap
		}
		m.pending++
	}
}

// resolveGap folds the pending unresolved stretch into the open run. A gap
// before the first fast-path finalization is dropped, since that
// finalization's run already spans every iteration since genesis.
func (m *machine) resolveGap() {
	if m.resume == InRun {
		m.length += m.pending
	}
	m.pending = 0
	m.state = m.resume
}

func (m *machine) finish() {
	if m.state == InGap {
		if m.cfg.trailingGap == FoldTrailingGap {
			m.resolveGap()
		} else {
			m.pending = 0
			m.state = m.resume
		}
	}
	m.emit()
}

func (m *machine) emit() {
	length := m.length
	if m.state == AtStart || (m.state == InGap && m.resume == AtStart) {
		length = 0
	}
	m.result.Sequences = append(m.result.Sequences, bench.Sequence{Anchor: m.anchor, Length: length})
	m.result.Lengths = append(m.result.Lengths, length)
}
