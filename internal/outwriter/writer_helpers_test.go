package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 0", 0, 3.14159, "3"},
		{"precision 4", 4, 3.14159, "3.1416"},
		{"negative value", 2, -42.567, "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtPtr := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			v := tt.value
			assert.Equal(t, tt.expected, fmtPtr(&v))
			assert.Equal(t, "-", fmtPtr(nil))
		})
	}
}

func TestCSVPtr(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	v := 2.26
	assert.Equal(t, "", csvPtr(nil, fmtFloat))
	assert.Equal(t, "2.3", csvPtr(&v, fmtFloat))
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"positive", 12.346, "+12.35 ▲"},
		{"negative", -0.5, "-0.50 ▼"},
		{"zero", 0, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDelta(tt.value, 2, false))
		})
	}
	assert.Equal(t, "-", formatDeltaPtr(nil, 2, false))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"years": 5}))
	assert.Equal(t, "{\n  \"years\": 5\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"geo_id", "value"}, func(w *csv.Writer) error {
			return w.Write([]string{"06075", "1.5"})
		})
		require.NoError(t, err)
		assert.Equal(t, "geo_id,value\n06075,1.5\n", buf.String())
	})

	t.Run("row error is returned", func(t *testing.T) {
		var buf bytes.Buffer
		boom := errors.New("boom")
		err := writeCSVWithHeader(&buf, []string{"geo_id"}, func(*csv.Writer) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	boom := errors.New("writer failed")
	err = writeWithFile(filepath.Join(t.TempDir(), "fail.txt"), func(io.Writer) error {
		return boom
	}, "Wrote test")
	assert.ErrorIs(t, err, boom)
}

func TestWriteParquetFile(t *testing.T) {
	err := writeParquetFile("", func(string) error { return nil }, "Wrote Parquet")
	assert.ErrorIs(t, err, errParquetNeedsFile)

	boom := errors.New("disk full")
	err = writeParquetFile("x.parquet", func(string) error { return boom }, "Wrote Parquet")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error writing Parquet output")
}
