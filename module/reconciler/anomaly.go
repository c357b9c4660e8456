package reconciler

import (
	"fmt"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// AnomalyKind classifies an inconsistency found while reconciling proposal timings.
type AnomalyKind uint8

const (
	// MissingTiming: a replica reported a block hash with neither a sent nor a received timestamp.
	MissingTiming AnomalyKind = iota + 1
	// DuplicateSent: more than one replica claims to have sent the same proposal.
	DuplicateSent
)

func (k AnomalyKind) String() string {
	switch k {
	case MissingTiming:
		return "missing_timing"
	case DuplicateSent:
		return "duplicate_sent"
	default:
		return fmt.Sprintf("anomaly(%d)", uint8(k))
	}
}

func (k AnomalyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Anomaly is a data inconsistency of one replica's proposal timings.
type Anomaly struct {
	Kind    AnomalyKind     `json:"kind"`
	Replica bench.ReplicaID `json:"replica"`
	Block   bench.BlockHash `json:"block"`
	Err     error           `json:"-"`
}

func (a Anomaly) Error() string {
	return a.Err.Error()
}

func (a Anomaly) Unwrap() error {
	return a.Err
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s", a.Kind, a.Err)
}
