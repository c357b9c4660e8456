package bench

import (
	"fmt"
	"strings"
)

// Label is the finalization outcome of one iteration of one replica.
type Label uint8

const (
	// Unresolved means no finalization record was observed for the iteration.
	Unresolved Label = iota
	// FastPath means the block was finalized locally through the fast path.
	FastPath
	// Checkpoint means the block was finalized through the always-safe
	// instant-confirmation path. It anchors the next fast-path sequence.
	Checkpoint
	// PeerDerived means the finalization was learned from another replica.
	PeerDerived
)

// Labels lists every label in display order.
var Labels = []Label{FastPath, Checkpoint, PeerDerived, Unresolved}

// String returns the short tag used in benchmark reports.
func (l Label) String() string {
	switch l {
	case FastPath:
		return "FP"
	case Checkpoint:
		return "IC"
	case PeerDerived:
		return "DK"
	case Unresolved:
		return "-"
	default:
		return fmt.Sprintf("label(%d)", uint8(l))
	}
}

// Describe returns a human readable description of the label.
func (l Label) Describe() string {
	switch l {
	case FastPath:
		return "FP finalized"
	case Checkpoint:
		return "IC finalized"
	case PeerDerived:
		return "finalized by peers"
	case Unresolved:
		return "not explicitly finalized"
	default:
		return l.String()
	}
}

// ParseLabel parses the short tag of a label. It is case-insensitive and
// accepts the long names of the labels as well.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fp", "fastpath", "fast-path":
		return FastPath, nil
	case "ic", "checkpoint":
		return Checkpoint, nil
	case "dk", "peerderived", "peer-derived":
		return PeerDerived, nil
	case "-", "unresolved":
		return Unresolved, nil
	default:
		return Unresolved, fmt.Errorf("unknown finalization label %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if l > PeerDerived {
		return nil, fmt.Errorf("invalid finalization label %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabels parses a whitespace or comma separated list of label tags.
func ParseLabels(s string) ([]Label, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	labels := make([]Label, 0, len(fields))
	for _, f := range fields {
		l, err := ParseLabel(f)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}
