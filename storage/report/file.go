package report

import (
	"bytes"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/massimoalbarello/consensus-on-demand/module/analysis"
)

// WriteFile renders the report and atomically replaces the file at path
// with it. Readers never observe a partially written report.
func WriteFile(path string, r *analysis.Report, format Format, opts ViewOptions) error {
	var buf bytes.Buffer
	if err := Render(&buf, r, format, opts); err != nil {
		return err
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write report to %s: %w", path, err)
	}
	return nil
}
