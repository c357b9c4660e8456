package sequences

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/segmenter"
)

var (
	flagLabels      string
	flagOffset      uint64
	flagTrailingGap string
	flagPeerDerived string
)

// Cmd segments a label timeline given on the command line, which is handy to
// check how a particular finalization pattern is split into sequences.
var Cmd = &cobra.Command{
	Use:   "sequences",
	Short: "Segment a timeline of finalization labels into fast-path sequences",
	Example: `  bench-analyzer sequences --labels "FP,-,IC,FP,-,FP" --offset 1
  bench-analyzer sequences --labels "FP IC FP -" --trailing-gap fold`,
	Run: run,
}

func init() {
	Cmd.Flags().StringVar(&flagLabels, "labels", "",
		"comma or space separated labels (FP, IC, DK or -), one per iteration")
	_ = Cmd.MarkFlagRequired("labels")
	Cmd.Flags().Uint64Var(&flagOffset, "offset", 1,
		"iteration of the first label")
	Cmd.Flags().StringVar(&flagTrailingGap, "trailing-gap", segmenter.DiscardTrailingGap.String(),
		"unresolved iterations ending the timeline: discard or fold into the last sequence")
	Cmd.Flags().StringVar(&flagPeerDerived, "peer-derived", segmenter.PeerDerivedInert.String(),
		"iterations finalized by peers: inert or unresolved")
}

func run(cmd *cobra.Command, _ []string) {
	if err := segment(cmd.OutOrStdout()); err != nil {
		log.Fatal().Err(err).Msg("could not segment timeline")
	}
}

func segment(w io.Writer) error {
	labels, err := bench.ParseLabels(flagLabels)
	if err != nil {
		return err
	}
	trailingGap, err := segmenter.ParseTrailingGapPolicy(flagTrailingGap)
	if err != nil {
		return err
	}
	peerDerived, err := segmenter.ParsePeerDerivedPolicy(flagPeerDerived)
	if err != nil {
		return err
	}

	result := segmenter.Segment(labels, flagOffset,
		segmenter.WithTrailingGapPolicy(trailingGap),
		segmenter.WithPeerDerivedPolicy(peerDerived),
	)

	fmt.Fprintf(w, "Found %d sequences:\n", len(result.Sequences))
	for _, s := range result.Sequences {
		fmt.Fprintf(w, "- starting at %d with length %d\n", s.Anchor, s.Length)
	}
	return nil
}
