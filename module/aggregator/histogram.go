package aggregator

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Histogram counts sequences by length.
type Histogram map[uint64]int

// Bucket is one length of a Histogram with the number of sequences of that length.
type Bucket struct {
	Length uint64 `json:"length" yaml:"length"`
	Count  int    `json:"count" yaml:"count"`
}

// NewHistogram counts the given sequence lengths.
func NewHistogram(lengths []uint64) Histogram {
	h := make(Histogram, len(lengths))
	for _, l := range lengths {
		h[l]++
	}
	return h
}

// Buckets returns the buckets of the histogram by ascending length.
func (h Histogram) Buckets() []Bucket {
	lengths := maps.Keys(h)
	slices.Sort(lengths)

	buckets := make([]Bucket, 0, len(lengths))
	for _, l := range lengths {
		buckets = append(buckets, Bucket{Length: l, Count: h[l]})
	}
	return buckets
}

// Total returns the number of sequences counted.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Merge adds the counts of other to h.
func (h Histogram) Merge(other Histogram) {
	for l, c := range other {
		h[l] += c
	}
}
