package bench

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel_String(t *testing.T) {
	assert.Equal(t, "FP", FastPath.String())
	assert.Equal(t, "IC", Checkpoint.String())
	assert.Equal(t, "DK", PeerDerived.String())
	assert.Equal(t, "-", Unresolved.String())
	assert.Equal(t, "label(9)", Label(9).String())
}

// TestLabel_TextRoundTrip checks that every label survives being used as a
// JSON map key, which is how label counts are reported.
func TestLabel_TextRoundTrip(t *testing.T) {
	counts := map[Label]int{FastPath: 3, Checkpoint: 1, PeerDerived: 2, Unresolved: 4}

	data, err := json.Marshal(counts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"FP":3,"IC":1,"DK":2,"-":4}`, string(data))

	var decoded map[Label]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, counts, decoded)
}

func TestLabel_MarshalInvalid(t *testing.T) {
	_, err := Label(42).MarshalText()
	require.Error(t, err)
}

func TestParseLabels(t *testing.T) {
	t.Run("mixed separators", func(t *testing.T) {
		labels, err := ParseLabels("FP - ic,DK  checkpoint")
		require.NoError(t, err)
		assert.Equal(t, []Label{FastPath, Unresolved, Checkpoint, PeerDerived, Checkpoint}, labels)
	})

	t.Run("empty", func(t *testing.T) {
		labels, err := ParseLabels("")
		require.NoError(t, err)
		assert.Empty(t, labels)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := ParseLabels("FP XX")
		require.Error(t, err)
	})
}
