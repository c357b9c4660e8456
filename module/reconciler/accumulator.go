package reconciler

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// Accumulator merges the proposal timings reported by every replica into one
// view per block proposal. An Accumulator belongs to a single analysis run.
//
// Not concurrency safe.
type Accumulator struct {
	log       zerolog.Logger
	entries   map[bench.BlockHash]*entry
	merged    map[bench.ReplicaID]struct{}
	anomalies []Anomaly
}

type entry struct {
	sent     *bench.Timestamp
	sender   bench.ReplicaID
	received []bench.Timestamp
}

func NewAccumulator(log zerolog.Logger) *Accumulator {
	return &Accumulator{
		log:     log.With().Str("component", "proposal_reconciler").Logger(),
		entries: make(map[bench.BlockHash]*entry),
		merged:  make(map[bench.ReplicaID]struct{}),
	}
}

// Merge adds the proposal timings of one replica.
//
// For every block hash, a sent timestamp replaces the sent timestamp of the
// entry and a received timestamp is appended to its receipts. A hash with
// neither is reported as a MissingTiming anomaly, and a second distinct
// sender as a DuplicateSent anomaly (the later sent timestamp still wins).
// Merge returns the anomalies found for this replica.
//
// Expected errors:
//   - an error if the timings of the replica were already merged; nothing is merged
func (a *Accumulator) Merge(replica bench.ReplicaID, timings map[bench.BlockHash]bench.ProposalTiming) ([]Anomaly, error) {
	if _, ok := a.merged[replica]; ok {
		return nil, fmt.Errorf("proposal timings of replica %d were already merged", replica)
	}
	a.merged[replica] = struct{}{}

	hashes := maps.Keys(timings)
	slices.Sort(hashes)

	var anomalies []Anomaly
	for _, hash := range hashes {
		timing := timings[hash]
		e, ok := a.entries[hash]
		if !ok {
			e = &entry{received: []bench.Timestamp{}}
			a.entries[hash] = e
		}

		switch {
		case timing.Sent != nil:
			if e.sent != nil && e.sender != replica {
				anomalies = append(anomalies, Anomaly{
					Kind:    DuplicateSent,
					Replica: replica,
					Block:   hash,
					Err: bench.NewMalformedRecordErrorf(replica, string(hash),
						"proposal already sent by replica %d", e.sender),
				})
			}
			sent := *timing.Sent
			e.sent = &sent
			e.sender = replica
		case timing.Received != nil:
			e.received = append(e.received, *timing.Received)
		default:
			anomalies = append(anomalies, Anomaly{
				Kind:    MissingTiming,
				Replica: replica,
				Block:   hash,
				Err:     bench.NewMalformedRecordErrorf(replica, string(hash), "neither sent nor received timestamp"),
			})
		}
	}

	for _, anomaly := range anomalies {
		a.log.Warn().
			Uint("replica", uint(anomaly.Replica)).
			Str("block", string(anomaly.Block)).
			Str("kind", anomaly.Kind.String()).
			Err(anomaly.Err).
			Msg("inconsistent proposal timing")
	}
	a.anomalies = append(a.anomalies, anomalies...)

	return anomalies, nil
}

// Len returns the number of distinct block proposals seen so far.
func (a *Accumulator) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the merged proposal timings. Receipts are sorted
// in ascending order, so the result does not depend on the order in which
// replicas were merged.
func (a *Accumulator) Entries() map[bench.BlockHash]bench.ProposalTimingEntry {
	out := make(map[bench.BlockHash]bench.ProposalTimingEntry, len(a.entries))
	for hash, e := range a.entries {
		received := slices.Clone(e.received)
		if received == nil {
			received = []bench.Timestamp{}
		}
		slices.Sort(received)

		var sent *bench.Timestamp
		if e.sent != nil {
			s := *e.sent
			sent = &s
		}
		out[hash] = bench.ProposalTimingEntry{Sent: sent, Received: received}
	}
	return out
}

// Anomalies returns every anomaly found so far, in merge order.
func (a *Accumulator) Anomalies() []Anomaly {
	return slices.Clone(a.anomalies)
}

// Delays derives, for every block proposal with a known sending time, the
// delay of each receipt. Blocks without a sending time are left out.
func Delays(entries map[bench.BlockHash]bench.ProposalTimingEntry) map[bench.BlockHash][]float64 {
	delays := make(map[bench.BlockHash][]float64)
	for hash, e := range entries {
		d := e.Delays()
		if d == nil {
			continue
		}
		seconds := make([]float64, len(d))
		for i, delay := range d {
			seconds[i] = delay.Seconds()
		}
		delays[hash] = seconds
	}
	return delays
}
