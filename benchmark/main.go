// Package main provides a performance benchmarking tool for the geotrend CLI.
// It generates synthetic observation datasets of increasing size, imports each into
// a fresh SQLite store, then times snapshot builds. The first successful build is
// treated as cold and the following rebuilds, which replace existing rows, as warm.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - geotrend binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated datasets and stores (defaults to a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (import time, cold build and average of warm builds).
type BenchmarkResult struct {
	Dataset    string
	Geos       int
	ImportTime string
	ColdTime   string
	WarmTime   string
	ShowTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	BuildRuns int
	ShowRuns  int
	Years     int
	Datasets  map[string]int // dataset name -> number of geographies
	Order     []string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "geotrend-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:   workDir,
		Timeout:   5 * time.Minute,
		BuildRuns: 4,
		ShowRuns:  3,
		Years:     10,
		Datasets: map[string]int{
			"small":  10,
			"medium": 100,
			"large":  1000,
		},
		Order: []string{"small", "medium", "large"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the geotrend binary and the work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("geotrend"); err != nil {
		return fmt.Errorf("geotrend binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("work dir %s is not usable: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks executes the benchmark suite for every configured dataset
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, build: %d runs, show: %d runs\n",
		len(config.Order), config.Timeout, config.BuildRuns, config.ShowRuns)

	for _, name := range config.Order {
		geos := config.Datasets[name]
		fmt.Printf("Benchmarking %s (%d geographies)\n", name, geos)
		results = append(results, runBenchmarkSuite(config, name, geos))
	}

	return results
}

// runBenchmarkSuite imports one dataset into a fresh store and times build and show runs
func runBenchmarkSuite(config BenchmarkConfig, name string, geos int) BenchmarkResult {
	result := BenchmarkResult{Dataset: name, Geos: geos, ImportTime: "FAILED", ColdTime: "FAILED", WarmTime: "FAILED", ShowTime: "FAILED"}

	csvPath := filepath.Join(config.WorkDir, name+".csv")
	if err := writeDataset(csvPath, geos, config.Years); err != nil {
		fmt.Printf("  Failed to generate dataset: %v\n", err)
		return result
	}

	dbPath := filepath.Join(config.WorkDir, name+".db")
	_ = os.Remove(dbPath)
	env := []string{"GEOTREND_STORE_BACKEND=sqlite", "GEOTREND_STORE_DB_CONNECT=" + dbPath, "GEOTREND_COLOR=no"}

	importTimes := runBenchmark(config, env, 1, "Imported", "store", "import", csvPath)
	if len(importTimes) == 0 {
		return result
	}
	result.ImportTime = formatSeconds(importTimes[0])

	const asOf = "2024-12-31"
	buildTimes := runBenchmark(config, env, config.BuildRuns, "Wrote table", "snapshot", "build", "--asof", asOf, "--output-file", os.DevNull)
	if len(buildTimes) > 0 {
		result.ColdTime = formatSeconds(buildTimes[0])
		result.WarmTime = average(buildTimes[1:])
	}

	showTimes := runBenchmark(config, env, config.ShowRuns, "", "snapshot", "show", "--asof", asOf, "--output", "csv")
	result.ShowTime = average(showTimes)

	fmt.Printf("  Import: %s, Cold build: %s, Warm build average: %s, Show average: %s\n",
		result.ImportTime, result.ColdTime, result.WarmTime, result.ShowTime)
	return result
}

// runBenchmark executes a geotrend command multiple times and returns the durations of successful runs
func runBenchmark(config BenchmarkConfig, env []string, numRuns int, successPhrase string, args ...string) []float64 {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("geotrend", args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, successPhrase) {
				times = append(times, time.Since(start).Seconds())
			} else if cmdErr != nil {
				fmt.Printf("  %s failed: %v\n", strings.Join(args, " "), cmdErr)
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			fmt.Printf("  %s timed out\n", strings.Join(args, " "))
		}
	}
	return times
}

// isSuccess checks if command output contains the completion phrase
func isSuccess(output []byte, phrase string) bool {
	return phrase == "" || strings.Contains(string(output), phrase)
}

// writeDataset writes a synthetic observation CSV with steady trends per geography
func writeDataset(path string, geos, years int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"geo_id", "metric_code", "period", "value", "metric_name"}); err != nil {
		return err
	}
	metrics := []struct {
		code, name  string
		base, slope float64
	}{
		{"HH_INCOME_MEDIAN", "Median household income", 70000, 2500},
		{"INCOME_PER_CAPITA", "Income per capita", 40000, 1200},
		{"AGE_MEDIAN", "Median age", 35, 0.2},
		{"POP_TOTAL", "Total population", 100000, 900},
		{"NET_MIGRATION_18_34", "Net migration 18-34", -20, 8},
		{"EMP_TOTAL", "Total employment", 50000, 400},
		{"EMP_23", "Construction", 4000, 150},
		{"EMP_44", "Retail trade", 6000, -80},
		{"EMP_54", "Professional services", 5000, 300},
		{"EMP_62", "Health care", 7000, 200},
	}
	for g := range geos {
		geoID := fmt.Sprintf("%05d", g+1)
		shift := float64(g%7) / 10
		for _, m := range metrics {
			for y := range years {
				period := 2024 - years + 1 + y
				value := m.base*(1+shift) + m.slope*float64(y)
				record := []string{geoID, m.code, fmt.Sprint(period), fmt.Sprintf("%.2f", value), m.name}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3fs", v)
}

func average(times []float64) string {
	if len(times) == 0 {
		return "N/A"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return formatSeconds(sum / float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("geotrend_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "geos", "import_time", "cold_build", "warm_build_avg", "show_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		if err := writer.Write([]string{r.Dataset, fmt.Sprint(r.Geos), r.ImportTime, r.ColdTime, r.WarmTime, r.ShowTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-8s (%5d geos): Import: %s, Cold: %s, Warm: %s, Show: %s\n",
			r.Dataset, r.Geos, r.ImportTime, r.ColdTime, r.WarmTime, r.ShowTime)
	}
}
