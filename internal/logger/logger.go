// Package logger provides the process-wide structured log, written to a
// rotating file and mirrored to stderr in debug mode.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance. It stays nil until Init.
	Logger *log.Logger

	rotator *lumberjack.Logger
)

// Config holds logger configuration.
type Config struct {
	Debug   bool
	DataDir string
	Prefix  string
}

// LogPath returns the log file location under dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "pickplan.log")
}

// Init initializes the global logger with the given configuration.
func Init(cfg Config) error {
	logFile := LogPath(cfg.DataDir)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return err
	}

	rotator = &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	var writer io.Writer = rotator
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, rotator)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "pickplan"
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          prefix,
	})
	return nil
}

// Close flushes and closes the log file. Logging after Close is a no-op.
func Close() error {
	Logger = nil
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
