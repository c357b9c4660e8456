package timeline

import (
	"github.com/google/btree"
)

// defaultDegree is the btree degree used for series. Series are small
// (one entry per benchmark iteration), so a low degree is sufficient.
const defaultDegree = 8

type point[V any] struct {
	iteration uint64
	value     V
}

func lessPoint[V any](a, b point[V]) bool {
	return a.iteration < b.iteration
}

// Series is a sparse, ordered mapping from iteration to a value of one metric
// of one replica. Observations can be added in any order.
//
// Series is not concurrency safe.
type Series[V any] struct {
	tree *btree.BTreeG[point[V]]
}

// NewSeries returns an empty series.
func NewSeries[V any]() *Series[V] {
	return &Series[V]{
		tree: btree.NewG(defaultDegree, lessPoint[V]),
	}
}

// Put sets the value observed at the given iteration.
// Returns true if a previous value for the iteration was replaced.
func (s *Series[V]) Put(iteration uint64, value V) bool {
	_, replaced := s.tree.ReplaceOrInsert(point[V]{iteration: iteration, value: value})
	return replaced
}

// Get returns the value observed at the given iteration, if any.
func (s *Series[V]) Get(iteration uint64) (V, bool) {
	p, ok := s.tree.Get(point[V]{iteration: iteration})
	return p.value, ok
}

// Len returns the number of observed iterations.
func (s *Series[V]) Len() int {
	return s.tree.Len()
}

// Min returns the lowest observed iteration.
func (s *Series[V]) Min() (uint64, bool) {
	p, ok := s.tree.Min()
	return p.iteration, ok
}

// Max returns the highest observed iteration.
func (s *Series[V]) Max() (uint64, bool) {
	p, ok := s.tree.Max()
	return p.iteration, ok
}

// Ascend calls fn for every observation in increasing iteration order,
// until fn returns false.
func (s *Series[V]) Ascend(fn func(iteration uint64, value V) bool) {
	s.tree.Ascend(func(p point[V]) bool {
		return fn(p.iteration, p.value)
	})
}
