package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massimoalbarello/consensus-on-demand/config"
	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/aggregator"
	"github.com/massimoalbarello/consensus-on-demand/module/analysis"
	"github.com/massimoalbarello/consensus-on-demand/module/metrics"
	"github.com/massimoalbarello/consensus-on-demand/storage/report"
	"github.com/massimoalbarello/consensus-on-demand/utils/unittest"
)

// resetFlags restores the flag defaults once the test is done.
func resetFlags(t *testing.T) {
	dir, artifacts, output, format := flagArtifactsDir, flagArtifacts, flagOutput, flagFormat
	timeline, workers, validate, progress := flagTimeline, flagWorkers, flagValidate, flagProgress
	gap, peer, pushgateway, job, runID := flagTrailingGap, flagPeerDerived, flagPushgateway, flagPushJob, flagRunID
	t.Cleanup(func() {
		flagArtifactsDir, flagArtifacts, flagOutput, flagFormat = dir, artifacts, output, format
		flagTimeline, flagWorkers, flagValidate, flagProgress = timeline, workers, validate, progress
		flagTrailingGap, flagPeerDerived, flagPushgateway, flagPushJob, flagRunID = gap, peer, pushgateway, job, runID
	})
}

func writeArtifacts(t *testing.T, dir string) {
	unittest.WriteArtifactFile(t, dir, unittest.ArtifactFixture(1, map[uint64]bench.Label{
		1: bench.FastPath,
		3: bench.Checkpoint,
		4: bench.FastPath,
	}))
	unittest.WriteArtifactFile(t, dir, unittest.ArtifactFixture(2, map[uint64]bench.Label{
		1: bench.FastPath,
		2: bench.FastPath,
	}))
}

func params(replicas uint) config.Benchmark {
	p := config.Default()
	p.Replicas = replicas
	return p
}

func TestAnalyze_Directory(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		resetFlags(t)
		writeArtifacts(t, dir)
		flagArtifactsDir = dir
		flagValidate = true

		var out bytes.Buffer
		result, err := analyze(context.Background(), unittest.Logger(), params(2), &out)
		require.NoError(t, err)
		require.NoError(t, result.Err())

		require.Len(t, result.Replicas, 2)
		assert.Contains(t, out.String(), "### Replica 1 ###")
		assert.Contains(t, out.String(), "### Replica 2 ###")
		assert.Contains(t, out.String(), "### All replicas ###")

		assert.Equal(t, []bench.Sequence{{Anchor: 0, Length: 1}, {Anchor: 3, Length: 1}}, result.Replica(1).Report.Sequences)
		assert.Equal(t, []bench.Sequence{{Anchor: 0, Length: 2}}, result.Replica(2).Report.Sequences)
	})
}

func TestAnalyze_MissingReplica(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		resetFlags(t)
		writeArtifacts(t, dir)
		flagArtifactsDir = dir

		var out bytes.Buffer
		result, err := analyze(context.Background(), unittest.Logger(), params(3), &out)
		require.NoError(t, err)

		require.Len(t, result.Failed, 1)
		assert.Equal(t, bench.ReplicaID(3), result.Failed[0].Replica)
		assert.True(t, bench.IsMissingDataError(result.Failed[0].Err))
		assert.Contains(t, out.String(), "Could not analyse 1 replicas:")
	})
}

func TestAnalyze_NoReplicas(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		resetFlags(t)
		flagArtifactsDir = dir

		_, err := analyze(context.Background(), unittest.Logger(), params(2), &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestAnalyze_ExplicitArtifactsToFile(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		resetFlags(t)
		writeArtifacts(t, dir)
		flagArtifacts = []string{filepath.Join(dir, "benchmark_result_2.json")}
		flagOutput = filepath.Join(dir, "report.json")
		flagFormat = string(report.FormatJSON)

		result, err := analyze(context.Background(), unittest.Logger(), params(3), nil)
		require.NoError(t, err)
		require.Len(t, result.Replicas, 1)
		assert.Equal(t, bench.ReplicaID(2), result.Replicas[0].Replica)

		data, err := os.ReadFile(flagOutput)
		require.NoError(t, err)

		var view report.View
		require.NoError(t, json.Unmarshal(data, &view))
		require.Len(t, view.Replicas, 1)

		expected := []report.SequenceView{{Anchor: 0, Length: 2}}
		if diff := cmp.Diff(expected, view.Replicas[0].Sequences); diff != "" {
			t.Errorf("unexpected sequences (-want +got):\n%s", diff)
		}
	})
}

func TestAnalyze_InvalidFlags(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		resetFlags(t)
		flagArtifactsDir = dir

		flagFormat = "xml"
		_, err := analyze(context.Background(), unittest.Logger(), params(1), &bytes.Buffer{})
		assert.Error(t, err)

		flagFormat = string(report.FormatText)
		flagTrailingGap = "keep"
		_, err = analyze(context.Background(), unittest.Logger(), params(1), &bytes.Buffer{})
		assert.Error(t, err)
	})
}

// partialReport returns the report of a run interrupted after replica 1.
func partialReport(t *testing.T) *analysis.Report {
	result, err := analysis.Analyze(unittest.ArtifactFixture(1, map[uint64]bench.Label{
		1: bench.FastPath,
		2: bench.FastPath,
	}), analysis.DefaultOptions())
	require.NoError(t, err)

	return &analysis.Report{
		Replicas: []*analysis.ReplicaResult{result},
		Pooled:   aggregator.Pool([]*aggregator.ReplicaReport{result.Report}),
		Failed:   []analysis.ReplicaFailure{{Replica: 2, Err: context.Canceled}},
	}
}

func TestPublish_Interrupted(t *testing.T) {
	resetFlags(t)

	var pushedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	flagPushgateway = server.URL
	flagPushJob = "bench-analyzer"
	flagRunID = "run-7"

	registry := prometheus.NewRegistry()
	metrics.NewAnalysisCollector(registry).ReplicaFailed(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := publish(ctx, unittest.Logger(), partialReport(t), ctx.Err(), report.FormatText, &out, registry)
	require.ErrorIs(t, err, context.Canceled)

	assert.Contains(t, out.String(), "### Replica 1 ###")
	assert.Contains(t, out.String(), "Could not analyse 1 replicas:")
	assert.Equal(t, "/metrics/job/bench-analyzer/run/run-7", pushedPath)
}

func TestPublish_InterruptedBeforeAnyReplica(t *testing.T) {
	resetFlags(t)

	partial := &analysis.Report{
		Failed: []analysis.ReplicaFailure{{Replica: 1, Err: context.Canceled}},
	}

	var out bytes.Buffer
	err := publish(context.Background(), unittest.Logger(), partial, context.Canceled, report.FormatText, &out, prometheus.NewRegistry())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
