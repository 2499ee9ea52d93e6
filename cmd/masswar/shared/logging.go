package shared

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger returns the root logger: colored text on stderr, or JSON
// lines when structured output is requested.
func SetupLogger(debug, jsonLogs bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if jsonLogs {
		logger.SetFormatter(log.JSONFormatter)
		logger.SetTimeFormat(time.RFC3339Nano)
	}
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// ParseLevel maps a config level name onto logger, keeping the current level
// when name is empty or unknown.
func ParseLevel(logger *log.Logger, name string) {
	if name == "" {
		return
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		logger.Warn("Unknown log level, ignoring", "level", name)
		return
	}
	logger.SetLevel(level)
}
