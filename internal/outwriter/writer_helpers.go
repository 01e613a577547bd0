package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/geotrend/internal/contract"
)

// errParquetNeedsFile is returned when parquet output would go to stdout.
var errParquetNeedsFile = errors.New("parquet output requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquetFile runs a parquet writer against the configured output file.
func writeParquetFile(outputFile string, write func(string) error, successMsg string) error {
	if outputFile == "" {
		return errParquetNeedsFile
	}
	if err := write(outputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the formatter closures shared by every output type.
// fmtPtr renders missing values as "-".
func createFormatters(precision int) (fmtFloat func(float64) string, fmtPtr func(*float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtPtr = func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmtFloat(*v)
	}
	return fmtFloat, fmtPtr
}

// csvPtr renders an optional value for CSV, leaving missing values empty.
func csvPtr(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

// formatDelta renders a signed delta with an arrow, colored when enabled.
func formatDelta(v float64, precision int, useColors bool) string {
	var text string
	switch {
	case v > 0:
		text = fmt.Sprintf("+%.*f ▲", precision, v)
	case v < 0:
		text = fmt.Sprintf("%.*f ▼", precision, v)
	default:
		text = fmt.Sprintf("%.*f", precision, 0.0)
	}
	if !useColors {
		return text
	}
	switch {
	case v > 0:
		return contract.GrowingColor.Sprint(text)
	case v < 0:
		return contract.DecliningColor.Sprint(text)
	default:
		return contract.StableColor.Sprint(text)
	}
}

// formatDeltaPtr is formatDelta for optional deltas.
func formatDeltaPtr(v *float64, precision int, useColors bool) string {
	if v == nil {
		return "-"
	}
	return formatDelta(*v, precision, useColors)
}
