// Package bench contains the data model of finalization benchmark artifacts
// and of the analysis results derived from them.
//
// A replica records, per iteration, how the block of that iteration was
// finalized (RawRecord) and, per block, when it sent or received the block
// proposal (ProposalTiming). The analysis turns these sparse records into a
// DenseTimeline of Labels, a list of fast-path Sequences and a reconciled
// ProposalTimingEntry per block.
package bench
