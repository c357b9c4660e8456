package bench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a point in time in nanoseconds since the UNIX epoch, as kept
// by the time source of the protocol engine.
type Timestamp uint64

// Sub returns the duration t-u, which is negative when u is after t.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(int64(t) - int64(u))
}

// UnmarshalJSON accepts a plain number of nanoseconds, or an object holding
// either {"secs", "nanos"} or {"secs_since_epoch", "nanos_since_epoch"}.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var parts struct {
			Secs            *uint64 `json:"secs"`
			Nanos           uint32  `json:"nanos"`
			SecsSinceEpoch  *uint64 `json:"secs_since_epoch"`
			NanosSinceEpoch uint32  `json:"nanos_since_epoch"`
		}
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		switch {
		case parts.Secs != nil:
			*t = Timestamp(*parts.Secs*uint64(time.Second) + uint64(parts.Nanos))
		case parts.SecsSinceEpoch != nil:
			*t = Timestamp(*parts.SecsSinceEpoch*uint64(time.Second) + uint64(parts.NanosSinceEpoch))
		default:
			return fmt.Errorf("timestamp object without seconds: %s", data)
		}
		return nil
	}

	var nanos uint64
	if err := json.Unmarshal(data, &nanos); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	*t = Timestamp(nanos)
	return nil
}

// ProposalTiming is the observation of one replica for one block proposal.
// A replica is either the proposer (Sent) or a receiver (Received).
type ProposalTiming struct {
	Sent     *Timestamp `json:"sent"`
	Received *Timestamp `json:"received"`
}

// ProposalTimingEntry is the view of a block proposal merged across all
// replicas: at most one sender and one receipt per receiving replica.
type ProposalTimingEntry struct {
	Sent     *Timestamp  `json:"sent"`
	Received []Timestamp `json:"received"`
}

// Delays returns, for every receipt, how long after the proposal was sent it
// was received. Returns nil when the sending time is unknown.
func (e ProposalTimingEntry) Delays() []time.Duration {
	if e.Sent == nil {
		return nil
	}
	delays := make([]time.Duration, 0, len(e.Received))
	for _, r := range e.Received {
		delays = append(delays, r.Sub(*e.Sent))
	}
	return delays
}
