package artifact

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/utils/unittest"
)

func TestFileLoader(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		paths := map[bench.ReplicaID]string{
			1: writeArtifact(t, dir, "benchmark_result_1.json.zst", validArtifact),
			2: writeArtifact(t, dir, "benchmark_result_2.json", malformedArtifact),
			3: filepath.Join(dir, "benchmark_result_3.json"),
			4: writeArtifact(t, dir, "benchmark_result_4.json", `{"proposals_timings": {}}`),
		}
		loader := NewFileLoader(unittest.Logger(), paths, DefaultKeys())
		ctx := context.Background()

		a, err := loader.Load(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, a.Records, 3)
		assert.Len(t, a.Proposals, 3)

		a, err = loader.Load(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, a.Records, 1)
		assert.Len(t, a.Skipped, 3)

		// the file does not exist
		_, err = loader.Load(ctx, 3)
		assert.True(t, bench.IsMissingDataError(err))

		// no finalization entry
		_, err = loader.Load(ctx, 4)
		assert.True(t, bench.IsMissingDataError(err))

		// unknown replica
		_, err = loader.Load(ctx, 5)
		assert.True(t, bench.IsMissingDataError(err))
	})
}

func TestFileLoader_Canceled(t *testing.T) {
	loader := NewFileLoader(unittest.Logger(), nil, DefaultKeys())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
