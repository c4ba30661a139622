package merrymem

import (
	"fmt"
	"io"
	"os"
)

// logLevel mirrors the LOG_LEVEL_* macro family from the original C++
// (parallel.hpp/sequential.hpp): TRACE is the most verbose, OFF silences
// everything. The core never logs on a hot path (spec §7); the only caller
// of this logger is assertInvariant, which logs an assertion failure before
// panicking.
type logLevel int

const (
	logOff logLevel = iota
	logFatal
	logError
	logWarn
	logInfo
	logDebug
	logTrace
)

type leveledLogger struct {
	level logLevel
	out   io.Writer
}

// logger is the package-level sink. It defaults to logError so that an
// assertion failure is visible without any setup, matching the original's
// LOG_LEVEL_DEBUG default having been quieted for a library (rather than a
// standalone research binary) context.
var logger = &leveledLogger{level: logError, out: os.Stderr}

// SetLogLevel adjusts how verbose the package's internal diagnostics are.
// It is safe to call before constructing any Table; it is not safe to call
// concurrently with table operations.
func SetLogLevel(level string) {
	switch level {
	case "trace":
		logger.level = logTrace
	case "debug":
		logger.level = logDebug
	case "info":
		logger.level = logInfo
	case "warn":
		logger.level = logWarn
	case "error":
		logger.level = logError
	case "fatal":
		logger.level = logFatal
	default:
		logger.level = logOff
	}
}

func (l *leveledLogger) logf(level logLevel, tag, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	fmt.Fprintf(l.out, "[%s]\t"+format+"\n", append([]interface{}{tag}, args...)...)
}

func (l *leveledLogger) Tracef(format string, args ...interface{})  { l.logf(logTrace, "TRACE", format, args...) }
func (l *leveledLogger) Debugf(format string, args ...interface{})  { l.logf(logDebug, "DEBUG", format, args...) }
func (l *leveledLogger) Infof(format string, args ...interface{})   { l.logf(logInfo, "INFO", format, args...) }
func (l *leveledLogger) Warnf(format string, args ...interface{})   { l.logf(logWarn, "WARN", format, args...) }
func (l *leveledLogger) Errorf(format string, args ...interface{})  { l.logf(logError, "ERROR", format, args...) }
func (l *leveledLogger) Fatalf(format string, args ...interface{})  { l.logf(logFatal, "FATAL", format, args...) }
