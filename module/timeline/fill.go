package timeline

import (
	"errors"
	"fmt"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
)

// MaxSpan bounds the number of iterations a reconstructed timeline may cover.
// A benchmark run produces a few thousand iterations at most; a larger span
// is caused by a corrupted iteration key.
const MaxSpan = 1 << 24

// ErrSpanTooLarge is returned when the observed iterations cover more than MaxSpan iterations.
var ErrSpanTooLarge = errors.New("iteration span too large")

// Fill turns a sparse series into two dense, equally long sequences covering
// every iteration between the lowest and the highest observed iteration.
// Observed iterations keep their value, unobserved ones get def.
//
// Expected errors:
//   - bench.ErrNoObservations if the series is empty and no range can be determined
//   - ErrSpanTooLarge if the range covers more than MaxSpan iterations
func Fill[V any](series *Series[V], def V) ([]uint64, []V, error) {
	if series == nil || series.Len() == 0 {
		return nil, nil, bench.ErrNoObservations
	}
	lowest, _ := series.Min()
	highest, _ := series.Max()
	if highest-lowest >= MaxSpan {
		return nil, nil, fmt.Errorf("iterations [%d, %d]: %w", lowest, highest, ErrSpanTooLarge)
	}

	span := int(highest-lowest) + 1
	iterations := make([]uint64, 0, span)
	values := make([]V, 0, span)

	next := lowest
	series.Ascend(func(iteration uint64, value V) bool {
		for ; next < iteration; next++ {
			iterations = append(iterations, next)
			values = append(values, def)
		}
		iterations = append(iterations, iteration)
		values = append(values, value)
		next = iteration + 1
		return true
	})

	return iterations, values, nil
}
