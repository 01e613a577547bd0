// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.ResultWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteBatchReport prints the outcome of a snapshot build.
func (ow *OutWriter) WriteBatchReport(report schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	return PrintBatchReport(report, cfg, duration)
}

// WriteSnapshots prints stored snapshots.
func (ow *OutWriter) WriteSnapshots(snapshots []schema.SnapshotMetrics, cfg *contract.Config) error {
	return PrintSnapshots(snapshots, cfg)
}

// WriteComparison prints a comparison of geographies.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config) error {
	return PrintComparison(result, cfg)
}

// WriteForecast prints a metric forecast.
func (ow *OutWriter) WriteForecast(result schema.ForecastResult, cfg *contract.Config) error {
	return PrintForecast(result, cfg)
}

// WriteMigration prints a migration signal.
func (ow *OutWriter) WriteMigration(result schema.MigrationResult, cfg *contract.Config) error {
	return PrintMigration(result, cfg)
}

// WriteCAGR prints a growth rate summary.
func (ow *OutWriter) WriteCAGR(result schema.CAGRSummary, cfg *contract.Config) error {
	return PrintCAGR(result, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for industry names in table output
// based on terminal width and the fixed snapshot columns.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Geo + income + age + migration + projection columns with borders/padding
	baseWidth := 100

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
