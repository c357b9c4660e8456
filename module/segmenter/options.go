package segmenter

import (
	"fmt"
	"strings"
)

// TrailingGapPolicy decides what happens to an unresolved stretch at the end
// of the timeline, which is followed by neither a fast-path finalization nor
// a checkpoint.
type TrailingGapPolicy uint8

const (
	// DiscardTrailingGap drops the stretch, as if it was followed by a checkpoint.
	DiscardTrailingGap TrailingGapPolicy = iota
	// FoldTrailingGap counts the stretch as part of the open run.
	FoldTrailingGap
)

func (p TrailingGapPolicy) String() string {
	switch p {
	case DiscardTrailingGap:
		return "discard"
	case FoldTrailingGap:
		return "fold"
	default:
		return fmt.Sprintf("trailing-gap-policy(%d)", uint8(p))
	}
}

// ParseTrailingGapPolicy parses the name of a TrailingGapPolicy.
func ParseTrailingGapPolicy(s string) (TrailingGapPolicy, error) {
	switch strings.ToLower(s) {
	case "discard":
		return DiscardTrailingGap, nil
	case "fold":
		return FoldTrailingGap, nil
	default:
		return DiscardTrailingGap, fmt.Errorf("unknown trailing gap policy %q (expected discard or fold)", s)
	}
}

// PeerDerivedPolicy decides how PeerDerived iterations take part in the segmentation.
type PeerDerivedPolicy uint8

const (
	// PeerDerivedInert ignores PeerDerived iterations: they neither extend a
	// run nor resolve a gap.
	PeerDerivedInert PeerDerivedPolicy = iota
	// PeerDerivedAsUnresolved treats PeerDerived iterations like unresolved ones.
	PeerDerivedAsUnresolved
)

func (p PeerDerivedPolicy) String() string {
	switch p {
	case PeerDerivedInert:
		return "inert"
	case PeerDerivedAsUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("peer-derived-policy(%d)", uint8(p))
	}
}

// ParsePeerDerivedPolicy parses the name of a PeerDerivedPolicy.
func ParsePeerDerivedPolicy(s string) (PeerDerivedPolicy, error) {
	switch strings.ToLower(s) {
	case "inert":
		return PeerDerivedInert, nil
	case "unresolved":
		return PeerDerivedAsUnresolved, nil
	default:
		return PeerDerivedInert, fmt.Errorf("unknown peer-derived policy %q (expected inert or unresolved)", s)
	}
}

type config struct {
	trailingGap TrailingGapPolicy
	peerDerived PeerDerivedPolicy
}

// Option configures Segment.
type Option func(*config)

// WithTrailingGapPolicy sets the policy applied to an unresolved stretch ending the timeline.
func WithTrailingGapPolicy(p TrailingGapPolicy) Option {
	return func(c *config) {
		c.trailingGap = p
	}
}

// WithPeerDerivedPolicy sets how PeerDerived iterations are segmented.
func WithPeerDerivedPolicy(p PeerDerivedPolicy) Option {
	return func(c *config) {
		c.peerDerived = p
	}
}
