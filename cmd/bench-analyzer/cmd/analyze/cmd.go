package analyze

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"

	"github.com/massimoalbarello/consensus-on-demand/config"
	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/analysis"
	"github.com/massimoalbarello/consensus-on-demand/module/metrics"
	"github.com/massimoalbarello/consensus-on-demand/module/segmenter"
	"github.com/massimoalbarello/consensus-on-demand/storage/artifact"
	"github.com/massimoalbarello/consensus-on-demand/storage/report"
)

var (
	flagArtifactsDir    string
	flagArtifacts       []string
	flagOutput          string
	flagFormat          string
	flagTimeline        bool
	flagWorkers         int
	flagValidate        bool
	flagProgress        bool
	flagTrailingGap     string
	flagPeerDerived     string
	flagFinalizationKey string
	flagProposalsKey    string
	flagPushgateway     string
	flagPushJob         string
	flagRunID           string
)

var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse the benchmark artifacts of every replica and report finalization metrics",
	Run:   run,
}

func init() {
	Cmd.Flags().StringVar(&flagArtifactsDir, "artifacts-dir", "./benchmark",
		"directory holding the benchmark_result_<i>.json artifacts of replicas 1 to N")
	Cmd.Flags().StringSliceVar(&flagArtifacts, "artifact", nil,
		"explicit artifact files to analyse instead of the ones found in --artifacts-dir")
	Cmd.Flags().StringVarP(&flagOutput, "output", "o", "",
		"file the report is written to, standard output if empty")
	Cmd.Flags().StringVar(&flagFormat, "format", string(report.FormatText),
		"report format: text, json or yaml")
	Cmd.Flags().BoolVar(&flagTimeline, "timeline", false,
		"include the latency series of every replica in json and yaml reports")
	Cmd.Flags().IntVar(&flagWorkers, "workers", analysis.DefaultWorkers,
		"number of replicas analysed concurrently")
	Cmd.Flags().BoolVar(&flagValidate, "validate", false,
		"check the artifacts against the artifact schema before analysing them")
	Cmd.Flags().BoolVar(&flagProgress, "progress", false,
		"show a progress bar")
	Cmd.Flags().StringVar(&flagTrailingGap, "trailing-gap", segmenter.DiscardTrailingGap.String(),
		"unresolved iterations ending a timeline: discard or fold into the last sequence")
	Cmd.Flags().StringVar(&flagPeerDerived, "peer-derived", segmenter.PeerDerivedInert.String(),
		"iterations finalized by peers: inert or unresolved")
	Cmd.Flags().StringVar(&flagFinalizationKey, "finalization-key", artifact.DefaultFinalizationKey,
		"artifact key of the per-iteration finalization records")
	Cmd.Flags().StringVar(&flagProposalsKey, "proposals-key", artifact.DefaultProposalsKey,
		"artifact key of the proposal timings")
	Cmd.Flags().StringVar(&flagPushgateway, "pushgateway", "",
		"Prometheus Pushgateway the analysis metrics are pushed to, disabled if empty")
	Cmd.Flags().StringVar(&flagPushJob, "push-job", "bench-analyzer",
		"job name of the pushed metrics")
	Cmd.Flags().StringVar(&flagRunID, "run-id", "",
		"value of the run grouping label of the pushed metrics, ungrouped if empty")
}

func run(*cobra.Command, []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	params, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid benchmark parameters")
	}
	log.Info().Msgf("Analysing %s", params.Describe())

	out := io.Writer(os.Stdout)
	if flagOutput != "" {
		out = nil
	}

	result, err := analyze(ctx, log.Logger, params, out)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
	if err := result.Err(); err != nil {
		log.Warn().Err(err).Msgf("%d out of %d replicas could not be analysed", len(result.Failed), len(result.Failed)+len(result.Replicas))
	}
}

// analyze runs the analysis with the parameters of the command flags. The
// report is written to out, or to the --output file when out is nil.
func analyze(ctx context.Context, log zerolog.Logger, params config.Benchmark, out io.Writer) (*analysis.Report, error) {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return nil, err
	}
	trailingGap, err := segmenter.ParseTrailingGapPolicy(flagTrailingGap)
	if err != nil {
		return nil, err
	}
	peerDerived, err := segmenter.ParsePeerDerivedPolicy(flagPeerDerived)
	if err != nil {
		return nil, err
	}

	paths, replicas, err := artifactPaths(params.Replicas)
	if err != nil {
		return nil, err
	}
	log.Info().Int("artifacts", len(paths)).Int("replicas", len(replicas)).Msg("artifacts located")

	if flagValidate {
		if err := artifact.ValidateAll(ctx, maps.Values(paths), flagWorkers); err != nil {
			return nil, err
		}
		log.Info().Msg("artifacts match the artifact schema")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewAnalysisCollector(registry)
	loader := artifact.NewFileLoader(log, paths, artifact.Keys{
		Finalization: flagFinalizationKey,
		Proposals:    flagProposalsKey,
	})

	options := []analysis.RunnerOption{analysis.WithWorkers(flagWorkers)}
	if flagProgress {
		bar := progressbar.Default(int64(len(replicas)), "analysing replicas")
		defer func() {
			_ = bar.Finish()
		}()
		options = append(options, analysis.WithOnReplicaDone(func(bench.ReplicaID) {
			_ = bar.Add(1)
		}))
	}

	runner := analysis.NewRunner(log, collector, loader, analysis.Options{
		FastConsensus: params.FastConsensus,
		TrailingGap:   trailingGap,
		PeerDerived:   peerDerived,
	}, options...)

	result, err := runner.Run(ctx, replicas)
	return result, publish(ctx, log, result, err, format, out, registry)
}

// publish writes the report of a run and pushes its metrics. The partial
// report of an interrupted run is published as well, and runErr is returned
// afterwards.
func publish(
	ctx context.Context,
	log zerolog.Logger,
	result *analysis.Report,
	runErr error,
	format report.Format,
	out io.Writer,
	gatherer prometheus.Gatherer,
) error {
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.Warn().Err(runErr).
			Int("analysed", len(result.Replicas)).
			Int("failed", len(result.Failed)).
			Msg("analysis interrupted, publishing partial report")
	}
	if len(result.Replicas) == 0 {
		if runErr != nil {
			return runErr
		}
		return fmt.Errorf("none of the %d replicas could be analysed: %w", len(result.Failed), result.Err())
	}

	viewOpts := report.ViewOptions{Timeline: flagTimeline}
	if out != nil {
		if err := report.Render(out, result, format, viewOpts); err != nil {
			return fmt.Errorf("could not render report: %w", err)
		}
	} else {
		if err := report.WriteFile(flagOutput, result, format, viewOpts); err != nil {
			return err
		}
		log.Info().Str("file", flagOutput).Msg("report written")
	}

	if flagPushgateway != "" {
		pusher := metrics.NewPusher(log, flagPushgateway, flagPushJob, gatherer)
		if flagRunID != "" {
			pusher = pusher.Grouping("run", flagRunID)
		}
		// an interrupted run still pushes what it measured
		if err := pusher.Push(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Msg("could not push metrics")
		}
	}

	return runErr
}

// artifactPaths returns the artifact of every replica to analyse. Explicit
// artifacts are identified by their file name, or by their position when the
// name is not a standard artifact name. Otherwise replicas 1 to n are
// analysed, a replica without artifact in the artifacts directory fails.
func artifactPaths(n uint) (map[bench.ReplicaID]string, []bench.ReplicaID, error) {
	if len(flagArtifacts) > 0 {
		paths := make(map[bench.ReplicaID]string, len(flagArtifacts))
		for i, path := range flagArtifacts {
			replica, ok := artifact.ParseFileName(path)
			if !ok {
				replica = bench.ReplicaID(i + 1)
			}
			if existing, ok := paths[replica]; ok {
				return nil, nil, fmt.Errorf("artifacts %s and %s both belong to replica %d", existing, path, replica)
			}
			paths[replica] = path
		}
		return paths, maps.Keys(paths), nil
	}

	paths, err := artifact.Discover(flagArtifactsDir, n)
	if err != nil {
		return nil, nil, err
	}
	replicas := make([]bench.ReplicaID, 0, n)
	for i := uint(1); i <= n; i++ {
		replicas = append(replicas, bench.ReplicaID(i))
	}
	return paths, replicas, nil
}
