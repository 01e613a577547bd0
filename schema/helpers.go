package schema

import (
	"strconv"
	"strings"
)

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// FormatFloatPtr formats an optional value with the given precision, or "-" when absent.
func FormatFloatPtr(v *float64, precision int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

// DeltaPtr returns target minus base, or nil when either side is absent.
func DeltaPtr(base, target *float64) *float64 {
	if base == nil || target == nil {
		return nil
	}
	return Float64Ptr(*target - *base)
}

// IndustryLabel returns the display name of an industry, falling back to its code.
func IndustryLabel(it IndustryTrend) string {
	if name := strings.TrimSpace(it.Name); name != "" {
		return name
	}
	return it.Code
}

// FormatIndustries joins industry labels into a display string, e.g. "Retail, Construction".
func FormatIndustries(industries []IndustryTrend) string {
	labels := make([]string, 0, len(industries))
	for _, it := range industries {
		labels = append(labels, IndustryLabel(it))
	}
	return strings.Join(labels, ", ")
}

// IndustriesEqual compares two industry lists by code in order.
// A nil list and an empty list are considered equal.
func IndustriesEqual(a, b []IndustryTrend) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Code != b[i].Code {
			return false
		}
	}
	return true
}

// ValuesOf extracts the values of a series in order.
func ValuesOf(points []TimeSeriesPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

// LatestValue returns the value of the point with the greatest period.
func LatestValue(points []TimeSeriesPoint) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Period > latest.Period {
			latest = p
		}
	}
	return latest.Value, true
}

// MigrationPointsOf converts a net migration series into migration points.
func MigrationPointsOf(points []TimeSeriesPoint) []MigrationPoint {
	out := make([]MigrationPoint, len(points))
	for i, p := range points {
		out[i] = MigrationPoint{Year: p.Period, NetMigration: p.Value}
	}
	return out
}
