package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

const (
	DefaultFinalizationKey = "finalization_times"
	DefaultProposalsKey    = "proposals_timings"
)

// Keys names the top-level entries of an artifact.
type Keys struct {
	Finalization string
	Proposals    string
}

func DefaultKeys() Keys {
	return Keys{
		Finalization: DefaultFinalizationKey,
		Proposals:    DefaultProposalsKey,
	}
}

// record is the JSON encoding of the finalization of one iteration.
type record struct {
	Latency      *bench.Latency `json:"latency"`
	FastPath     *bool          `json:"fp_finalization"`
	Finalization *string        `json:"finalization_type"`
}

// Decode reads the artifact of a replica.
//
// A null iteration means the replica has no observation for it. Records
// with an invalid iteration, no latency or no finalization kind are skipped
// and reported in Artifact.Skipped. A proposal without any timestamp is kept
// as is, the reconciliation reports it.
//
// Expected errors:
//   - bench.MissingDataError if the artifact has no finalization entry
//   - an error if the artifact is not a JSON object
func Decode(replica bench.ReplicaID, r io.Reader, keys Keys) (*bench.Artifact, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, fmt.Errorf("could not decode artifact of replica %d: %w", replica, err)
	}

	rawFinalization, ok := top[keys.Finalization]
	if !ok || isNull(rawFinalization) {
		return nil, bench.NewMissingDataErrorf(replica, "artifact has no %q entry", keys.Finalization)
	}

	artifact := &bench.Artifact{
		Replica:   replica,
		Proposals: make(map[bench.BlockHash]bench.ProposalTiming),
	}

	var finalization map[string]json.RawMessage
	if err := json.Unmarshal(rawFinalization, &finalization); err != nil {
		return nil, fmt.Errorf("could not decode %q of replica %d: %w", keys.Finalization, replica, err)
	}
	for key, raw := range finalization {
		rec, ok, err := decodeRecord(replica, key, raw)
		if err != nil {
			artifact.Skipped = append(artifact.Skipped, err)
			continue
		}
		if ok {
			artifact.Records = append(artifact.Records, rec)
		}
	}
	slices.SortFunc(artifact.Records, func(a, b bench.RawRecord) int {
		switch {
		case a.Iteration < b.Iteration:
			return -1
		case a.Iteration > b.Iteration:
			return 1
		default:
			return 0
		}
	})

	rawProposals, ok := top[keys.Proposals]
	if ok && !isNull(rawProposals) {
		var proposals map[string]json.RawMessage
		if err := json.Unmarshal(rawProposals, &proposals); err != nil {
			return nil, fmt.Errorf("could not decode %q of replica %d: %w", keys.Proposals, replica, err)
		}
		for hash, raw := range proposals {
			var timing bench.ProposalTiming
			if !isNull(raw) {
				if err := json.Unmarshal(raw, &timing); err != nil {
					artifact.Skipped = append(artifact.Skipped,
						bench.NewMalformedRecordErrorf(replica, hash, "invalid proposal timing: %v", err))
					continue
				}
			}
			artifact.Proposals[bench.BlockHash(hash)] = timing
		}
	}

	sortSkipped(artifact.Skipped)

	return artifact, nil
}

// decodeRecord decodes the record of one iteration. ok is false when the
// replica has no observation for the iteration.
func decodeRecord(replica bench.ReplicaID, key string, raw json.RawMessage) (bench.RawRecord, bool, error) {
	iteration, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return bench.RawRecord{}, false, bench.NewMalformedRecordErrorf(replica, key, "invalid iteration: %v", err)
	}
	if isNull(raw) {
		return bench.RawRecord{}, false, nil
	}

	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return bench.RawRecord{}, false, bench.NewMalformedRecordErrorf(replica, key, "invalid record: %v", err)
	}
	if r.Latency == nil {
		return bench.RawRecord{}, false, bench.NewMalformedRecordErrorf(replica, key, "missing latency")
	}

	rec := bench.RawRecord{
		Iteration: iteration,
		Latency:   *r.Latency,
		Source:    bench.SourceLocal,
	}
	switch {
	case r.Finalization != nil:
		label, err := bench.ParseLabel(*r.Finalization)
		if err != nil || label == bench.Unresolved {
			return bench.RawRecord{}, false, bench.NewMalformedRecordErrorf(replica, key, "invalid finalization type %q", *r.Finalization)
		}
		rec.FastPath = label == bench.FastPath
		if label == bench.PeerDerived {
			rec.Source = bench.SourcePeer
		}
	case r.FastPath != nil:
		rec.FastPath = *r.FastPath
	default:
		return bench.RawRecord{}, false, bench.NewMalformedRecordErrorf(replica, key, "missing finalization kind")
	}

	return rec, true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// sortSkipped orders the diagnostics by record key, so that they do not
// depend on map iteration order.
func sortSkipped(skipped []error) {
	keyOf := func(err error) string {
		if e, ok := err.(bench.MalformedRecordError); ok {
			return e.Key
		}
		return ""
	}
	slices.SortStableFunc(skipped, func(a, b error) int {
		ka, kb := keyOf(a), keyOf(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
}
