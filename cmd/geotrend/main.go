// main is the entry point of the geotrend CLI.
package main

import (
	"os"

	"github.com/huangsam/geotrend/cmd"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/iostore"
)

func main() {
	cmd.SetStoreManager(iostore.Manager)

	err := cmd.Execute()
	iostore.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.Logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
