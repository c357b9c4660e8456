package analysis

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/aggregator"
	"github.com/massimoalbarello/consensus-on-demand/module/reconciler"
)

// ReplicaFailure is a replica whose analysis was aborted.
type ReplicaFailure struct {
	Replica bench.ReplicaID
	Err     error
}

func (f ReplicaFailure) Error() string {
	return fmt.Sprintf("replica %d: %s", f.Replica, f.Err.Error())
}

func (f ReplicaFailure) Unwrap() error {
	return f.Err
}

// Report is the outcome of analysing a set of replicas. Replicas that failed
// are listed in Failed and take no part in the other fields.
type Report struct {
	// Replicas holds the successfully analysed replicas, by ascending replica.
	Replicas []*ReplicaResult
	Pooled   *aggregator.PooledReport
	// Proposals is the proposal timing of every block, merged across replicas.
	Proposals map[bench.BlockHash]bench.ProposalTimingEntry
	// Delays holds the receipt delays, in seconds, of every block with a known sending time.
	Delays    map[bench.BlockHash][]float64
	Anomalies []reconciler.Anomaly
	Failed    []ReplicaFailure
}

// Replica returns the result of the given replica, or nil if it was not
// analysed successfully.
func (r *Report) Replica(replica bench.ReplicaID) *ReplicaResult {
	for _, result := range r.Replicas {
		if result.Replica == replica {
			return result
		}
	}
	return nil
}

// Err combines the failures of all failed replicas. Returns nil if every
// replica was analysed.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Failed {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}
