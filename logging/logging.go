// Package logging builds the run logger: console always, plus an optional
// rotating log file.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to stderr and, when filePath is non-empty, to a
// rotating file as well (7 retained backups). If the file cannot be opened the
// problem is logged and file logging is disabled; it never aborts the run.
func New(filePath string) *log.Logger {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if filePath == "" {
		return logger
	}

	// Probe the path up front: lumberjack only opens the file on first write,
	// which would hide a permission problem until mid-run.
	probe, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Printf("[logging] cannot write to %q, file logging disabled: %v", filePath, err)
		return logger
	}
	probe.Close()

	rotator := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
	logger.Printf("[logging] file logging enabled to: %s", filePath)
	return logger
}
