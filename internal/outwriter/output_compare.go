package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/parquet"
	"github.com/huangsam/geotrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintComparison outputs a comparison of geographies against a baseline.
func PrintComparison(result schema.ComparisonResult, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		snapshots := make([]schema.SnapshotMetrics, 0, len(result.Details)+1)
		snapshots = append(snapshots, result.Baseline)
		for _, d := range result.Details {
			snapshots = append(snapshots, d.Snapshot)
		}
		return writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteSnapshotsParquet(parquet.ConvertSnapshots(snapshots), path)
		}, "Wrote Parquet")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, result, cfg)
	}, "Wrote "+outputLabel(cfg.Output))
}

// WriteComparisonResults writes the comparison to w as JSON, CSV or a table.
func WriteComparisonResults(w io.Writer, result schema.ComparisonResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		if result.Details == nil {
			result.Details = []schema.ComparisonDetail{}
		}
		return writeJSON(w, result)
	case schema.CSVOut:
		header := []string{"baseline_geo_id", "geo_id", "asof", "delta_hh_income", "delta_income_per_capita", "delta_age_median", "delta_net_migration", "delta_hh_income_idx", "delta_population_idx", "same_top_growing"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, d := range result.Details {
				row := []string{
					result.Baseline.GeoID,
					d.GeoID,
					result.AsOf.Format(schema.AsOfLayout),
					csvPtr(d.DeltaHHIncome, fmtFloat),
					csvPtr(d.DeltaIncomePerCapita, fmtFloat),
					csvPtr(d.DeltaAgeMedian, fmtFloat),
					fmtFloat(d.DeltaNetMigration),
					fmtFloat(d.DeltaHHIncomeIdx),
					fmtFloat(d.DeltaPopulationIdx),
					strconv.FormatBool(d.SameTopGrowing),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	default:
		return writeComparisonTable(w, result, cfg)
	}
}

func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Baseline %s as of %s\n", result.Baseline.GeoID, result.AsOf.Format(schema.AsOfLayout)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Geo", "Δ HH Income", "Δ Income/Cap", "Δ Age", "Δ Net Mig", "Δ Inc Idx", "Δ Pop Idx", "Trend"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	p, colors := cfg.Precision, cfg.UseColors
	data := make([][]string, 0, len(result.Details))
	for _, d := range result.Details {
		data = append(data, []string{
			d.GeoID,
			formatDeltaPtr(d.DeltaHHIncome, p, colors),
			formatDeltaPtr(d.DeltaIncomePerCapita, p, colors),
			formatDeltaPtr(d.DeltaAgeMedian, p, colors),
			formatDelta(d.DeltaNetMigration, p, colors),
			formatDelta(d.DeltaHHIncomeIdx, p+2, colors),
			formatDelta(d.DeltaPopulationIdx, p+2, colors),
			migrationLabel(d.Snapshot.MigrationTrend, colors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
