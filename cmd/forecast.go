package cmd

import (
	"github.com/huangsam/geotrend/core"
	"github.com/spf13/cobra"
)

// forecastCmd forecasts one metric of one geography.
var forecastCmd = &cobra.Command{
	Use:   "forecast <geo-id>",
	Short: "Forecast a metric of a geography.",
	Long: `Forecast an annual metric with double exponential smoothing.

The history is the last --lookback-years of observations ending at the as-of
year. The output lists the fitted history, the forecast and its confidence
bands, which are widened by the mean absolute percentage error of the fit.

Examples:
  # Forecast median household income for 10 years
  geotrend forecast 06075 --metric HH_INCOME_MEDIAN

  # A faster reacting forecast of population
  geotrend forecast 06075 --metric POP_TOTAL --alpha 0.6 --beta 0.3 --periods 5`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("forecast", core.ExecuteForecast)
	},
}
