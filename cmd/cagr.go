package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/huangsam/geotrend/core"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/outwriter"
	"github.com/spf13/cobra"
)

// cagrCmd computes a growth rate from explicit values.
var cagrCmd = &cobra.Command{
	Use:   "cagr <start-value> <end-value> <years>",
	Short: "Calculate a compound annual growth rate.",
	Long: `Calculate the compound annual growth rate between two values.

Non-positive values or years give a rate of exactly 0. NaN and infinite values
are rejected. Put negative values after "--" so they are not read as flags.

Examples:
  geotrend cagr 100 200 5
  geotrend cagr --output json -- -100 200 5`,
	Args:    cobra.ExactArgs(3),
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start, end, years, err := parseCAGRArgs(args)
		if err != nil {
			contract.LogFatal("Invalid cagr arguments", err)
		}
		if err := core.ExecuteCAGR(cfg, outwriter.NewOutWriter(), start, end, years); err != nil {
			contract.LogFatal("Cannot run cagr", err)
		}
	},
}

func parseCAGRArgs(args []string) (start, end float64, years int, err error) {
	if start, err = strconv.ParseFloat(args[0], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid start value %q: %w", args[0], err)
	}
	if end, err = strconv.ParseFloat(args[1], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid end value %q: %w", args[1], err)
	}
	if !isFinite(start) {
		return 0, 0, 0, fmt.Errorf("start value must be finite, got %q", args[0])
	}
	if !isFinite(end) {
		return 0, 0, 0, fmt.Errorf("end value must be finite, got %q", args[1])
	}
	if years, err = strconv.Atoi(args[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid years %q: %w", args[2], err)
	}
	return start, end, years, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
