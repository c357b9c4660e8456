package validate

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/massimoalbarello/consensus-on-demand/storage/artifact"
)

var (
	flagArtifactsDir string
	flagArtifacts    []string
	flagWorkers      int
)

var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check benchmark artifacts against the artifact schema",
	Run:   run,
}

func init() {
	Cmd.Flags().StringVar(&flagArtifactsDir, "artifacts-dir", "./benchmark",
		"directory holding the benchmark_result_<i>.json artifacts of replicas 1 to N")
	Cmd.Flags().StringSliceVar(&flagArtifacts, "artifact", nil,
		"explicit artifact files to check instead of the ones found in --artifacts-dir")
	Cmd.Flags().IntVar(&flagWorkers, "workers", 4,
		"number of artifacts checked concurrently")
}

func run(cmd *cobra.Command, _ []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	paths := flagArtifacts
	if len(paths) == 0 {
		found, err := artifact.Discover(flagArtifactsDir, viper.GetUint("replicas"))
		if err != nil {
			log.Fatal().Err(err).Str("dir", flagArtifactsDir).Msg("could not locate artifacts")
		}
		paths = maps.Values(found)
		slices.Sort(paths)
	}

	log.Info().Int("artifacts", len(paths)).Msg("checking artifacts")

	if err := artifact.ValidateAll(ctx, paths, flagWorkers); err != nil {
		log.Fatal().Err(err).Msg("artifact check failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d artifacts match the artifact schema\n", len(paths))
}
