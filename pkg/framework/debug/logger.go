// Package debug provides logging and assertion utilities for plugin development.
//
// Logging goes through zap and defaults to a no-op logger, so a release plugin
// stays silent unless the author installs a real logger at load time. Nothing
// in this package may be called from the render path in release builds.
package debug

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu sync.Mutex
	logger   *zap.Logger
)

// Logger returns the framework's logger instance.
// It uses a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger installs a logger for the whole framework. Call once, at plugin
// load time, before any host interaction.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}
