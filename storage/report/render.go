package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/module/analysis"
	"github.com/massimoalbarello/consensus-on-demand/storage"
)

// Format is an encoding of a report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses the name of a report format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("report format %q: %w", s, storage.ErrUnsupportedFormat)
	}
}

// Render encodes the report in the given format.
func Render(w io.Writer, r *analysis.Report, format Format, opts ViewOptions) error {
	switch format {
	case FormatText:
		return renderText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewView(r, opts))
	case FormatYAML:
		data, err := yaml.Marshal(NewView(r, opts))
		if err != nil {
			return fmt.Errorf("could not encode report: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("report format %q: %w", format, storage.ErrUnsupportedFormat)
	}
}

// renderText prints the human readable summary of every replica, followed by
// the pooled figures and the problems found.
func renderText(w io.Writer, r *analysis.Report) error {
	var buf bytes.Buffer

	for _, result := range r.Replicas {
		rep := result.Report
		fmt.Fprintf(&buf, "\n### Replica %d ###\n", rep.Replica)
		fmt.Fprintf(&buf, "The average time for block finalization is: %s\n", formatLatency(rep.AverageLatency))
		fmt.Fprintln(&buf, "The number of iterations in which the block is:")
		for _, label := range bench.Labels {
			if label == bench.PeerDerived && rep.Count(label) == 0 {
				continue
			}
			fmt.Fprintf(&buf, "- %s: %d\n", label.Describe(), rep.Count(label))
		}
		fmt.Fprintf(&buf, "Found %d sequences:\n", len(rep.Sequences))
		for _, s := range rep.Sequences {
			fmt.Fprintf(&buf, "- starting at %d with length %d\n", s.Anchor, s.Length)
		}
		if len(result.Skipped) > 0 {
			fmt.Fprintf(&buf, "Skipped %d malformed records\n", len(result.Skipped))
		}
	}

	if r.Pooled != nil && len(r.Replicas) > 1 {
		fmt.Fprintf(&buf, "\n### All replicas ###\n")
		fmt.Fprintf(&buf, "The average time for block finalization is: %s\n", formatLatency(r.Pooled.AverageLatency))
		for _, b := range r.Pooled.SequenceHistogram.Buckets() {
			fmt.Fprintf(&buf, "- %d sequences of length %d\n", b.Count, b.Length)
		}
	}

	if len(r.Proposals) > 0 {
		fmt.Fprintf(&buf, "\nReconciled the timings of %d proposals (%d with delays)\n", len(r.Proposals), len(r.Delays))
	}
	if len(r.Anomalies) > 0 {
		fmt.Fprintf(&buf, "\nFound %d proposal timing anomalies:\n", len(r.Anomalies))
		for _, a := range r.Anomalies {
			fmt.Fprintf(&buf, "- %s\n", a.String())
		}
	}
	if len(r.Failed) > 0 {
		fmt.Fprintf(&buf, "\nCould not analyse %d replicas:\n", len(r.Failed))
		for _, f := range r.Failed {
			fmt.Fprintf(&buf, "- %s\n", f.Error())
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func formatLatency(latency *float64) string {
	if latency == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", *latency)
}
