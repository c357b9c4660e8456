package bench

import (
	"fmt"
	"time"
)

// ReplicaID identifies a replica of the benchmarked subnet. Replicas are
// numbered from 1, matching the numbering of the artifact files.
type ReplicaID uint

func (r ReplicaID) String() string {
	return fmt.Sprintf("replica-%d", uint(r))
}

// BlockHash is the content hash identifying a block proposal.
type BlockHash string

// Latency is the finalization latency of a single iteration, encoded as the
// (seconds, nanoseconds) pair written by the upstream engine.
type Latency struct {
	Secs  uint64 `json:"secs"`
	Nanos uint32 `json:"nanos"`
}

// Seconds returns the latency as fractional seconds: secs + nanos * 1e-9.
func (l Latency) Seconds() float64 {
	return float64(l.Secs) + float64(l.Nanos)*1e-9
}

// Duration returns the latency as a time.Duration.
func (l Latency) Duration() time.Duration {
	return time.Duration(l.Secs)*time.Second + time.Duration(l.Nanos)
}

// Source tells where the finalization of an iteration was computed.
type Source uint8

const (
	// SourceLocal means the replica finalized the block itself.
	SourceLocal Source = iota
	// SourcePeer means the finalization was learned from another replica's message.
	SourcePeer
)

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourcePeer:
		return "peer"
	default:
		return fmt.Sprintf("source(%d)", uint8(s))
	}
}

// RawRecord is a single per-iteration observation of a replica, as produced
// by the protocol engine. Iterations without a record were not observed.
type RawRecord struct {
	Iteration uint64
	Latency   Latency
	// FastPath is true when the block was finalized through the fast path.
	FastPath bool
	Source   Source
}

// Artifact is the decoded content of one replica's benchmark artifact.
type Artifact struct {
	Replica   ReplicaID
	Records   []RawRecord
	Proposals map[BlockHash]ProposalTiming
	// Skipped holds a MalformedRecordError for every record that was dropped
	// while decoding the artifact.
	Skipped []error
}
