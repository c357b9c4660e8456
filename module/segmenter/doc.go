// Package segmenter partitions a classified timeline into fast-path sequences.
//
// A sequence is the run of fast-path finalizations following a checkpoint.
// Walking the timeline left to right, every checkpoint closes the open
// sequence and opens a new one anchored at the checkpoint's iteration. The
// first sequence is anchored at the genesis block (iteration 0).
//
// Unresolved iterations do not break a run: a gap that is resolved by a
// fast-path finalization is counted as part of the run, a gap resolved by a
// checkpoint is dropped. The segmentation is a small state machine:
//
//	          FP                 -
//	AtStart ------> InRun <-------------> InGap
//	   |              ^      FP (fold)      |
//	   | IC           | IC                  | IC (discard)
//	   +--------------+---------------------+
//
// Before the first fast-path finalization of the timeline (AtStart) there is
// no run to fold a gap into. The first fast-path finalization at iteration i
// opens a run of length i, covering every iteration since genesis.
package segmenter
