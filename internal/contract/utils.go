package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/geotrend/schema"
)

// Color variables for console output.
var (
	GrowingColor   = color.New(color.FgGreen, color.Bold) // growth or influx
	DecliningColor = color.New(color.FgRed, color.Bold)   // decline or outflow
	StableColor    = color.New(color.FgCyan)              // neither
	LowDataColor   = color.New(color.FgYellow)            // low confidence
)

// GetGrowthLabel returns a plain label for a growth rate.
// This is the core logic used for CSV, JSON, and table printing.
func GetGrowthLabel(trend schema.GrowthTrend) string {
	switch trend {
	case schema.GrowingTrend:
		return "Growing"
	case schema.DecliningTrend:
		return "Declining"
	default:
		return "Stable"
	}
}

// GetColorGrowthLabel returns a colored growth label for console output (table).
func GetColorGrowthLabel(trend schema.GrowthTrend) string {
	text := GetGrowthLabel(trend)
	switch trend {
	case schema.GrowingTrend:
		return GrowingColor.Sprint(text)
	case schema.DecliningTrend:
		return DecliningColor.Sprint(text)
	default:
		return StableColor.Sprint(text)
	}
}

// GetColorMigrationLabel returns a colored migration trend for console output (table).
func GetColorMigrationLabel(trend schema.MigrationTrend) string {
	text := string(trend)
	switch trend {
	case schema.IncreasingTrend:
		return GrowingColor.Sprint(text)
	case schema.DecreasingTrend:
		return DecliningColor.Sprint(text)
	default:
		return StableColor.Sprint(text)
	}
}

// GetColorConfidenceLabel returns a colored confidence label for console output (table).
func GetColorConfidenceLabel(c schema.Confidence) string {
	if c == schema.LowConfidence {
		return LowDataColor.Sprint(string(c))
	}
	return string(c)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the SQLite DB file for the observation and snapshot store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".geotrend.db"
	}
	return filepath.Join(homeDir, ".geotrend.db")
}

// TruncateToDate drops the time of day and returns the date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseAsOf parses a YYYY-MM-DD date.
func ParseAsOf(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s'. Expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
