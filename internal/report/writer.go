// Package report writes run reports to disk as JSON and plain text.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/model"
)

// Paths are the files produced for one run.
type Paths struct {
	JSON string `json:"json"`
	Text string `json:"text"`
}

// Writer lays reports out as <Dir>/YYYY/MM/DD/report_HHMMSS.{json,txt},
// dated by the run's finish time in Location.
type Writer struct {
	Dir      string
	Location *time.Location
}

// NewWriter creates a writer rooted at dir using local time.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Location: time.Local}
}

// Write stores both renderings of the report.
func (w *Writer) Write(r *model.RunReport) (Paths, error) {
	at := r.FinishedAt
	if at.IsZero() {
		at = time.Now()
	}
	if w.Location != nil {
		at = at.In(w.Location)
	}

	dir := filepath.Join(w.Dir, at.Format("2006"), at.Format("01"), at.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create report dir: %w", err)
	}
	base := "report_" + at.Format("150405")
	paths := Paths{
		JSON: filepath.Join(dir, base+".json"),
		Text: filepath.Join(dir, base+".txt"),
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(paths.JSON, data, 0o644); err != nil {
		return Paths{}, fmt.Errorf("write json report: %w", err)
	}

	f, err := os.Create(paths.Text)
	if err != nil {
		return Paths{}, fmt.Errorf("create text report: %w", err)
	}
	defer f.Close()
	if err := FormatText(f, r); err != nil {
		return Paths{}, fmt.Errorf("write text report: %w", err)
	}

	log.Info().Str("json", paths.JSON).Str("text", paths.Text).Msg("report saved")
	return paths, nil
}
