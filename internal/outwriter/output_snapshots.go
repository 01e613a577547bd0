package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/parquet"
	"github.com/huangsam/geotrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var snapshotCSVHeader = []string{
	"geo_id", "asof", "income_per_capita", "hh_income_median", "age_median",
	"net_migration", "migration_rolling_avg", "migration_trend", "migration_confidence",
	"employment_growth_5y", "top_growing", "top_declining",
	"population_idx", "hh_income_idx", "projected_age_median", "hh_income_idx_p25", "hh_income_idx_p75",
}

// PrintSnapshots outputs snapshots, dispatching based on the output format configured.
func PrintSnapshots(snapshots []schema.SnapshotMetrics, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteSnapshotsParquet(parquet.ConvertSnapshots(snapshots), path)
		}, "Wrote Parquet")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSnapshotResults(w, snapshots, cfg)
	}, "Wrote "+outputLabel(cfg.Output))
}

// WriteSnapshotResults writes snapshots to w as JSON, CSV or a table.
func WriteSnapshotResults(w io.Writer, snapshots []schema.SnapshotMetrics, cfg *contract.Config) error {
	fmtFloat, fmtPtr := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		if snapshots == nil {
			snapshots = []schema.SnapshotMetrics{}
		}
		return writeJSON(w, snapshots)
	case schema.CSVOut:
		return writeCSVWithHeader(w, snapshotCSVHeader, func(cw *csv.Writer) error {
			for _, s := range snapshots {
				if err := cw.Write(snapshotCSVRow(s, fmtFloat)); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	default:
		return writeSnapshotTable(w, snapshots, cfg, fmtFloat, fmtPtr)
	}
}

func snapshotCSVRow(s schema.SnapshotMetrics, fmtFloat func(float64) string) []string {
	p := s.Projection10y
	return []string{
		s.GeoID,
		s.AsOfKey(),
		csvPtr(s.IncomePerCapita, fmtFloat),
		csvPtr(s.HHIncomeMedian, fmtFloat),
		csvPtr(s.AgeMedian, fmtFloat),
		fmtFloat(s.NetMigration),
		fmtFloat(s.MigrationRollingAvg),
		string(s.MigrationTrend),
		string(s.MigrationConfidence),
		csvPtr(s.EmploymentGrowth5y, fmtFloat),
		schema.FormatIndustries(s.TopGrowingIndustries),
		schema.FormatIndustries(s.TopDecliningIndustries),
		fmtFloat(p.PopulationIdx),
		fmtFloat(p.HHIncomeIdx),
		csvPtr(p.AgeMedian, fmtFloat),
		fmtFloat(p.P25.HHIncomeIdx),
		fmtFloat(p.P75.HHIncomeIdx),
	}
}

// writeSnapshotTable generates and writes the human-readable snapshot table.
func writeSnapshotTable(w io.Writer, snapshots []schema.SnapshotMetrics, cfg *contract.Config, fmtFloat func(float64) string, fmtPtr func(*float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Geo", "As Of", "Income/Cap", "HH Income", "Age", "Net Mig", "Mig Avg", "Trend", "Conf", "Emp 5y", "Growing", "Declining", "Pop Idx", "Inc Idx"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	data := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		data = append(data, []string{
			s.GeoID,
			s.AsOfKey(),
			fmtPtr(s.IncomePerCapita),
			fmtPtr(s.HHIncomeMedian),
			fmtPtr(s.AgeMedian),
			fmtFloat(s.NetMigration),
			fmtFloat(s.MigrationRollingAvg),
			migrationLabel(s.MigrationTrend, cfg.UseColors),
			confidenceLabel(s.MigrationConfidence, cfg.UseColors),
			percentPtr(s.EmploymentGrowth5y, cfg.Precision),
			contract.TruncateText(schema.FormatIndustries(s.TopGrowingIndustries), nameWidth),
			contract.TruncateText(schema.FormatIndustries(s.TopDecliningIndustries), nameWidth),
			fmtFloat(s.Projection10y.PopulationIdx),
			fmtFloat(s.Projection10y.HHIncomeIdx),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d snapshots\n", len(snapshots))
	return err
}

// PrintBatchReport outputs the result of a snapshot build.
func PrintBatchReport(report schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.ParquetOut:
		if err := PrintSnapshots(report.Snapshots, cfg); err != nil {
			return err
		}
		return writeFailures(os.Stderr, report.Failures)
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, batchReportJSON(report))
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteBatchReport(w, report, cfg, duration)
		}, "Wrote "+outputLabel(cfg.Output))
	}
}

// WriteBatchReport writes the built snapshots followed by a summary of the run.
func WriteBatchReport(w io.Writer, report schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	if err := WriteSnapshotResults(w, report.Snapshots, cfg); err != nil {
		return err
	}
	if cfg.Output == schema.CSVOut {
		return nil
	}
	if err := writeFailures(w, report.Failures); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Built %d snapshots as of %s (%d failed) in %v. Store backend: %s\n",
		len(report.Snapshots), report.AsOf.Format(schema.AsOfLayout), len(report.Failures), duration, cfg.StoreBackend)
	return err
}

func writeFailures(w io.Writer, failures []schema.GeoFailure) error {
	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "❌ %s: %s\n", f.GeoID, f.Error); err != nil {
			return err
		}
	}
	return nil
}

// batchReportJSON keeps empty lists as [] rather than null.
func batchReportJSON(report schema.BatchReport) schema.BatchReport {
	if report.Snapshots == nil {
		report.Snapshots = []schema.SnapshotMetrics{}
	}
	if report.Failures == nil {
		report.Failures = []schema.GeoFailure{}
	}
	return report
}

func outputLabel(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "JSON"
	case schema.CSVOut:
		return "CSV"
	default:
		return "table"
	}
}

func migrationLabel(trend schema.MigrationTrend, useColors bool) string {
	if useColors {
		return contract.GetColorMigrationLabel(trend)
	}
	return string(trend)
}

func confidenceLabel(c schema.Confidence, useColors bool) string {
	if useColors {
		return contract.GetColorConfidenceLabel(c)
	}
	return string(c)
}

func growthLabel(trend schema.GrowthTrend, useColors bool) string {
	if useColors {
		return contract.GetColorGrowthLabel(trend)
	}
	return contract.GetGrowthLabel(trend)
}

// percentPtr renders an optional rate as a percentage.
func percentPtr(v *float64, precision int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f%%", precision, *v*100)
}
