package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/parquet"
	"github.com/huangsam/geotrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintMigration outputs a migration signal with its yearly history.
func PrintMigration(result schema.MigrationResult, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteMigrationParquet(parquet.ConvertMigration(result), path)
		}, "Wrote Parquet")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMigrationResults(w, result, cfg)
	}, "Wrote "+outputLabel(cfg.Output))
}

// WriteMigrationResults writes the migration signal to w as JSON, CSV or a table.
func WriteMigrationResults(w io.Writer, result schema.MigrationResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		if result.History == nil {
			result.History = []schema.MigrationPoint{}
		}
		return writeJSON(w, result)
	case schema.CSVOut:
		header := []string{"geo_id", "year", "net_migration", "rolling_average", "trend", "confidence", "description"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			s := result.Signal
			return cw.Write([]string{
				result.GeoID,
				strconv.Itoa(result.Year),
				fmtFloat(s.NetMigration),
				fmtFloat(s.RollingAverage),
				string(s.Trend),
				string(s.Confidence),
				result.Description,
			})
		})
	default:
		return writeMigrationTable(w, result, cfg, fmtFloat)
	}
}

func writeMigrationTable(w io.Writer, result schema.MigrationResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	history := make([]schema.MigrationPoint, len(result.History))
	copy(history, result.History)
	sort.Slice(history, func(i, j int) bool { return history[i].Year < history[j].Year })

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Net Migration 18-34"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, len(history))
	for _, p := range history {
		data = append(data, []string{strconv.Itoa(p.Year), fmtFloat(p.NetMigration)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Signal
	lines := []string{
		fmt.Sprintf("Geography:       %s (reference year %d)", result.GeoID, result.Year),
		fmt.Sprintf("Net migration:   %s", fmtFloat(s.NetMigration)),
		fmt.Sprintf("Rolling average: %s", fmtFloat(s.RollingAverage)),
		fmt.Sprintf("Trend:           %s", migrationLabel(s.Trend, cfg.UseColors)),
		fmt.Sprintf("Confidence:      %s", confidenceLabel(s.Confidence, cfg.UseColors)),
		fmt.Sprintf("Summary:         %s", result.Description),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
