package analysis

import (
	"context"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module"
	"github.com/massimoalbarello/consensus-on-demand/module/aggregator"
	"github.com/massimoalbarello/consensus-on-demand/module/reconciler"
	"github.com/massimoalbarello/consensus-on-demand/module/util"
)

const DefaultWorkers = 4

// Runner analyses the artifacts of several replicas in parallel, then
// reconciles their proposal timings.
type Runner struct {
	log     zerolog.Logger
	metrics module.AnalysisMetrics
	loader  Loader
	opts    Options
	workers int
	// onDone, if set, is called concurrently whenever a replica is done.
	onDone func(bench.ReplicaID)
}

type RunnerOption func(*Runner)

// WithWorkers sets the number of replicas analysed concurrently.
func WithWorkers(workers int) RunnerOption {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithOnReplicaDone registers a callback invoked, possibly concurrently,
// after each replica was analysed or failed.
func WithOnReplicaDone(f func(bench.ReplicaID)) RunnerOption {
	return func(r *Runner) {
		r.onDone = f
	}
}

func NewRunner(log zerolog.Logger, metrics module.AnalysisMetrics, loader Loader, opts Options, options ...RunnerOption) *Runner {
	r := &Runner{
		log:     log.With().Str("component", "analysis_runner").Logger(),
		metrics: metrics,
		loader:  loader,
		opts:    opts,
		workers: DefaultWorkers,
	}
	for _, apply := range options {
		apply(r)
	}
	return r
}

type outcome struct {
	result *ReplicaResult
	err    error
}

// Run analyses the given replicas. A replica whose artifact is missing or
// cannot be analysed is reported in Report.Failed, the others are analysed
// regardless. Proposal timings of the successful replicas are reconciled
// once every replica is done, by ascending replica.
//
// If ctx is canceled, replicas not yet analysed fail with the context error,
// and the partial report is returned along with that error.
func (r *Runner) Run(ctx context.Context, replicas []bench.ReplicaID) (*Report, error) {
	replicas = slices.Clone(replicas)
	slices.Sort(replicas)
	replicas = slices.Compact(replicas)

	outcomes := make([]outcome, len(replicas))
	analysed := atomic.NewUint64(0)
	failed := atomic.NewUint64(0)
	progress := util.LogProgress(r.log, util.DefaultLogProgressConfig("analysing replicas", len(replicas)))

	pool := workerpool.New(r.workers)
	for i, replica := range replicas {
		pool.Submit(func() {
			start := time.Now()
			result, err := r.analyze(ctx, replica)
			outcomes[i] = outcome{result: result, err: err}

			if err != nil {
				failed.Inc()
				r.metrics.ReplicaFailed(replica)
				r.log.Error().Err(err).Uint("replica", uint(replica)).Msg("could not analyse replica")
			} else {
				analysed.Inc()
				r.metrics.ReplicaAnalyzed(replica, time.Since(start))
				r.collect(result)
			}

			progress(1)
			if r.onDone != nil {
				r.onDone(replica)
			}
		})
	}
	pool.StopWait()

	report := &Report{
		Replicas: make([]*ReplicaResult, 0, len(replicas)),
	}
	for i, o := range outcomes {
		if o.err != nil {
			report.Failed = append(report.Failed, ReplicaFailure{Replica: replicas[i], Err: o.err})
			continue
		}
		report.Replicas = append(report.Replicas, o.result)
	}

	summaries := make([]*aggregator.ReplicaReport, 0, len(report.Replicas))
	for _, result := range report.Replicas {
		summaries = append(summaries, result.Report)
	}
	report.Pooled = aggregator.Pool(summaries)

	acc := reconciler.NewAccumulator(r.log)
	for _, result := range report.Replicas {
		anomalies, err := acc.Merge(result.Replica, result.Proposals)
		if err != nil {
			// replicas are deduplicated above
			return nil, err
		}
		for _, anomaly := range anomalies {
			r.metrics.ProposalAnomaly(anomaly.Kind.String())
		}
	}
	report.Proposals = acc.Entries()
	report.Delays = reconciler.Delays(report.Proposals)
	report.Anomalies = acc.Anomalies()

	r.log.Info().
		Uint64("analysed", analysed.Load()).
		Uint64("failed", failed.Load()).
		Int("proposals", len(report.Proposals)).
		Int("anomalies", len(report.Anomalies)).
		Msg("analysis finished")

	return report, ctx.Err()
}

func (r *Runner) analyze(ctx context.Context, replica bench.ReplicaID) (*ReplicaResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	artifact, err := r.loader.Load(ctx, replica)
	if err != nil {
		return nil, err
	}
	artifact.Replica = replica
	return Analyze(artifact, r.opts)
}

func (r *Runner) collect(result *ReplicaResult) {
	replica := result.Replica
	r.metrics.RecordsSkipped(replica, len(result.Skipped))
	for label, count := range result.Report.LabelCounts {
		r.metrics.IterationsClassified(replica, label, count)
	}
	if result.Report.AverageLatency != nil {
		r.metrics.FinalizationLatency(replica, *result.Report.AverageLatency)
	}
	if result.Segmentation != nil {
		r.metrics.SequencesSegmented(replica, result.Segmentation.Lengths)
	}
}
