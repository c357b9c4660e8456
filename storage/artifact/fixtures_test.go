package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// validArtifact matches the artifact schema.
const validArtifact = `{
  "finalization_times": {
    "1": {"latency": {"secs": 1, "nanos": 500000000}, "fp_finalization": true},
    "2": null,
    "3": {"latency": {"secs": 2, "nanos": 0}, "fp_finalization": false},
    "4": {"latency": {"secs": 0, "nanos": 250000000}, "finalization_type": "DK"}
  },
  "proposals_timings": {
    "0xaa": {"sent": 1700000000000000000, "received": null},
    "0xbb": {"sent": null, "received": {"secs_since_epoch": 1700000000, "nanos_since_epoch": 5}},
    "0xcc": null
  }
}`

// malformedArtifact has one record with an invalid iteration, one without
// latency and one without finalization kind.
const malformedArtifact = `{
  "finalization_times": {
    "1": {"latency": {"secs": 1, "nanos": 0}, "fp_finalization": true},
    "x": {"latency": {"secs": 1, "nanos": 0}, "fp_finalization": true},
    "6": {"fp_finalization": true},
    "7": {"latency": {"secs": 1, "nanos": 0}}
  }
}`

func writeArtifact(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)

	var data []byte
	switch filepath.Ext(name) {
	case ".zst":
		encoder, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		data = encoder.EncodeAll([]byte(content), nil)
		require.NoError(t, encoder.Close())
	case ".gz":
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, err := w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		data = buf.Bytes()
	default:
		data = []byte(content)
	}

	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
