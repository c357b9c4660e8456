package bench

// TimelineEntry is one iteration of a DenseTimeline.
type TimelineEntry struct {
	Iteration uint64  `json:"iteration"`
	Latency   float64 `json:"latency"`
	Label     Label   `json:"label"`
}

// DenseTimeline covers every iteration between the first and the last
// observed iteration of a replica. Iterations without an observation carry a
// zero latency and the Unresolved label.
//
// Invariant: entries are strictly increasing by one iteration. A timeline is
// read-only once built.
type DenseTimeline struct {
	Replica ReplicaID       `json:"replica"`
	Entries []TimelineEntry `json:"entries"`
}

// Len returns the number of iterations covered by the timeline.
func (t *DenseTimeline) Len() int {
	return len(t.Entries)
}

// First returns the first iteration of the timeline.
// No-op (returns 0) for an empty timeline.
func (t *DenseTimeline) First() uint64 {
	if len(t.Entries) == 0 {
		return 0
	}
	return t.Entries[0].Iteration
}

// Last returns the last iteration of the timeline.
func (t *DenseTimeline) Last() uint64 {
	if len(t.Entries) == 0 {
		return 0
	}
	return t.Entries[len(t.Entries)-1].Iteration
}

// Labels returns the label of every iteration, in order.
func (t *DenseTimeline) Labels() []Label {
	labels := make([]Label, len(t.Entries))
	for i, e := range t.Entries {
		labels[i] = e.Label
	}
	return labels
}

// Iterations returns every iteration number, in order.
func (t *DenseTimeline) Iterations() []uint64 {
	iterations := make([]uint64, len(t.Entries))
	for i, e := range t.Entries {
		iterations[i] = e.Iteration
	}
	return iterations
}

// Latencies returns the latency of every iteration in seconds, in order.
func (t *DenseTimeline) Latencies() []float64 {
	latencies := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		latencies[i] = e.Latency
	}
	return latencies
}
