package util

import (
	"sync"
)

// The process-wide logger starts as a no-op so packages can log before
// InitLogger runs (library use, tests) without guarding every call site.
var (
	globalLogger LoggerInterface = nopLogger{}
	loggerOnce   sync.Once
)

// InitLogger installs the real logger. The first call wins; later calls
// are no-ops so every subcommand can initialize unconditionally.
func InitLogger(logLevel, logFile string, debugToConsole bool) {
	loggerOnce.Do(func() {
		globalLogger = NewLogger(logLevel, logFile, debugToConsole)
	})
}

// Package-level logging helpers, one per level.

func LogDebug(msg string) {
	globalLogger.Debug(msg)
}

func LogDebugf(format string, args ...interface{}) {
	globalLogger.Debugf(format, args...)
}

func LogInfo(msg string) {
	globalLogger.Info(msg)
}

func LogInfof(format string, args ...interface{}) {
	globalLogger.Infof(format, args...)
}

func LogWarn(msg string) {
	globalLogger.Warn(msg)
}

func LogWarnf(format string, args ...interface{}) {
	globalLogger.Warnf(format, args...)
}

func LogError(msg string) {
	globalLogger.Error(msg)
}

func LogErrorf(format string, args ...interface{}) {
	globalLogger.Errorf(format, args...)
}

// nopLogger discards all output.
type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)        {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Info(string, ...Field)         {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warn(string, ...Field)         {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Error(string, ...Field)        {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...Field)        {}
func (nopLogger) SetLevel(LogLevel)             {}
func (nopLogger) AddOutput(Output)              {}

func (n nopLogger) With(...Field) LoggerInterface { return n }
