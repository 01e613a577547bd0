//go:build integration || database

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	// sharedGeotrendPath holds the path to a shared geotrend binary built once for all tests.
	sharedGeotrendPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGeotrendBinary returns the path to the geotrend binary, building it once if needed.
func getGeotrendBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "geotrend-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "geotrend")
		buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/geotrend")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build geotrend: %v\n%s", err, out))
		}

		sharedGeotrendPath = binPath
	})

	return sharedGeotrendPath
}

// runGeotrend runs the binary with extra environment variables and returns its stdout.
func runGeotrend(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getGeotrendBinary(), args...)
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("geotrend %s: %w\n%s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

// writeSampleCSV writes observations for two counties covering 2017 to 2024.
func writeSampleCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("geo_id,metric_code,period,value,metric_name\n")
	for i, geoID := range []string{"06075", "48453"} {
		scale := float64(i + 1)
		for year := 2017; year <= 2024; year++ {
			step := float64(year - 2017)
			fmt.Fprintf(&b, "%s,HH_INCOME_MEDIAN,%d,%.0f,Median household income\n", geoID, year, 90000*scale+3000*step)
			fmt.Fprintf(&b, "%s,INCOME_PER_CAPITA,%d,%.0f,Income per capita\n", geoID, year, 50000*scale+1500*step)
			fmt.Fprintf(&b, "%s,AGE_MEDIAN,%d,%.1f,Median age\n", geoID, year, 36+0.2*step)
			fmt.Fprintf(&b, "%s,POP_TOTAL,%d,%.0f,Total population\n", geoID, year, 800000*scale+5000*step)
			fmt.Fprintf(&b, "%s,NET_MIGRATION_18_34,%d,%.0f,Net migration 18-34\n", geoID, year, 15*step*scale)
			fmt.Fprintf(&b, "%s,EMP_TOTAL,%d,%.0f,Total employment\n", geoID, year, 400000*scale+4000*step)
			fmt.Fprintf(&b, "%s,EMP_54,%d,%.0f,Professional services\n", geoID, year, 60000+3000*step)
			fmt.Fprintf(&b, "%s,EMP_44,%d,%.0f,Retail trade\n", geoID, year, 40000-1000*step)
		}
	}

	path := filepath.Join(t.TempDir(), "observations.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write sample csv: %v", err)
	}
	return path
}
