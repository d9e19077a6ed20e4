package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger. It discards output until InitLogger runs.
var Logger = zap.NewNop()

var sugar = Logger.Sugar()

// InitLogger builds a JSON logger writing to logDir/app.log and to stdout
func InitLogger(level, logDir string) error {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout", filepath.Join(logDir, "app.log")}
	cfg.ErrorOutputPaths = []string{"stderr", filepath.Join(logDir, "error.log")}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %v", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the process-wide logger
func SetLogger(l *zap.Logger) {
	Logger = l
	sugar = l.Sugar()
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	_ = Logger.Sync()
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(requestID, method, path, ip string, status int, duration time.Duration) {
	Logger.Info("request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("ip", ip),
		zap.Int("status", status),
		zap.Duration("latency", duration),
	)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	Logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
}
