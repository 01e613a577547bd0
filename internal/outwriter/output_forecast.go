package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/geotrend/core/algo"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/parquet"
	"github.com/huangsam/geotrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintForecast outputs a metric forecast with the history it was fitted on.
func PrintForecast(result schema.ForecastResult, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteForecastParquet(parquet.ConvertForecast(result), path)
		}, "Wrote Parquet")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteForecastResults(w, result, cfg)
	}, "Wrote "+outputLabel(cfg.Output))
}

// WriteForecastResults writes the forecast to w as JSON, CSV or a table.
// Rows run over the history first, then the forecast horizon.
func WriteForecastResults(w io.Writer, result schema.ForecastResult, cfg *contract.Config) error {
	fmtFloat, fmtPtr := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		header := []string{"geo_id", "metric", "period", "kind", "value", "fitted", "lower", "upper"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, row := range forecastRows(result) {
				record := []string{
					result.GeoID,
					string(result.Metric),
					strconv.Itoa(row.period),
					row.kind,
					fmtFloat(row.value),
					csvPtr(row.fitted, fmtFloat),
					csvPtr(row.lower, fmtFloat),
					csvPtr(row.upper, fmtFloat),
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	default:
		return writeForecastTable(w, result, cfg, fmtFloat, fmtPtr)
	}
}

type forecastRow struct {
	period               int
	kind                 string
	value                float64
	fitted, lower, upper *float64
}

func forecastRows(result schema.ForecastResult) []forecastRow {
	proj := result.Projection
	rows := make([]forecastRow, 0, len(result.History)+len(proj.Forecast))
	for i, p := range result.History {
		row := forecastRow{period: p.Period, kind: parquet.ActualKind, value: p.Value}
		if i < len(proj.Fitted) {
			row.fitted = schema.Float64Ptr(proj.Fitted[i])
		}
		rows = append(rows, row)
	}
	for i, v := range proj.Forecast {
		row := forecastRow{kind: parquet.ForecastKind, value: v}
		if i < len(result.ForecastYears) {
			row.period = result.ForecastYears[i]
		}
		if i < len(proj.ConfidenceBands.Lower) {
			row.lower = schema.Float64Ptr(proj.ConfidenceBands.Lower[i])
		}
		if i < len(proj.ConfidenceBands.Upper) {
			row.upper = schema.Float64Ptr(proj.ConfidenceBands.Upper[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func writeForecastTable(w io.Writer, result schema.ForecastResult, cfg *contract.Config, fmtFloat func(float64) string, fmtPtr func(*float64) string) error {
	title := string(result.Metric)
	if result.MetricName != "" {
		title = fmt.Sprintf("%s (%s)", result.MetricName, result.Metric)
	}
	if _, err := fmt.Fprintf(w, "📈 %s for %s\n", title, result.GeoID); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Kind", "Value", "Fitted", "Lower", "Upper"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	rows := forecastRows(result)
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			strconv.Itoa(row.period),
			row.kind,
			fmtFloat(row.value),
			fmtPtr(row.fitted),
			fmtPtr(row.lower),
			fmtPtr(row.upper),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	trend := algo.ClassifyGrowthTrend(result.CAGR.CAGR)
	_, err := fmt.Fprintf(w, "History CAGR %.*f%% over %d years (%s). MAPE %.*f%%\n",
		cfg.Precision, result.CAGR.CAGR*100, result.CAGR.Years, growthLabel(trend, cfg.UseColors), cfg.Precision, result.Projection.MAPE)
	return err
}
