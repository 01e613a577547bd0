package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
)

// ErrParquetUnsupported is returned for results that have no parquet form.
var ErrParquetUnsupported = errors.New("parquet output is not supported for this command")

// PrintCAGR outputs a single growth rate.
func PrintCAGR(result schema.CAGRSummary, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCAGRResults(w, result, cfg)
	}, "Wrote "+outputLabel(cfg.Output))
}

// WriteCAGRResults writes the growth rate to w as JSON, CSV or text.
func WriteCAGRResults(w io.Writer, result schema.CAGRSummary, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		header := []string{"start_value", "end_value", "years", "cagr", "trend", "formatted"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			return cw.Write([]string{
				fmtFloat(result.StartValue),
				fmtFloat(result.EndValue),
				strconv.Itoa(result.Years),
				strconv.FormatFloat(result.CAGR, 'f', 6, 64),
				string(result.Trend),
				result.Formatted,
			})
		})
	default:
		_, err := fmt.Fprintf(w, "%s → %s over %d years: %s (%s)\n",
			fmtFloat(result.StartValue), fmtFloat(result.EndValue), result.Years,
			result.Formatted, growthLabel(result.Trend, cfg.UseColors))
		return err
	}
}
