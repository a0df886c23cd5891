package logs

import (
	"sync"

	"github.com/phuslu/log"
)

var (
	logger   *log.Logger
	loggerMu sync.RWMutex
)

// Logger returns the shared process logger, creating a console-writer
// instance at info level on first use.
func Logger() *log.Logger {
	loggerMu.RLock()
	if logger != nil {
		defer loggerMu.RUnlock()
		return logger
	}
	loggerMu.RUnlock()

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newLogger(false)
	}
	return logger
}

// Init configures the shared logger. Debug enables debug-level output.
func Init(debug bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = newLogger(debug)
}

func newLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return &log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
		},
	}
}
