package bench

// Sequence is a run of fast-path finalizations following a checkpoint.
// Anchor is the iteration of the checkpoint opening the run; the first
// sequence of a timeline is anchored at the genesis block (iteration 0),
// which is always checkpoint-finalized.
type Sequence struct {
	Anchor uint64 `json:"anchor"`
	Length uint64 `json:"length"`
}
