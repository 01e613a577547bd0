package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It writes to stderr until InitLogger is called.
var Logger = newLogger(os.Stderr)

// LogFormatter renders entries as "[TIME] [LEVL] msg key=value ...".
type LogFormatter struct{}

// Format implements logrus.Formatter.
func (f *LogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", entry.Time.Format("2006-01-02 15:04:05"), level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&LogFormatter{})
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// InitLogger sets the level of the global logger and tees its output to filePath when given.
func InitLogger(level logrus.Level, filePath string) error {
	Logger.SetLevel(level)

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, file)
	}
	Logger.SetOutput(io.MultiWriter(writers...))
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}

// GeoLogger returns an entry tagged with a geography id.
func GeoLogger(geoID string) *logrus.Entry {
	return Logger.WithField("geo_id", geoID)
}
