// Package logging builds the process zap logger from config values, in the
// same style as the teacher's cli/options.HandleLoggingParams: console
// encoding, ISO8601 timestamps, an optional file sink, and debug-flag
// override. Windows-specific sink registration is dropped since this
// system does not target that platform.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger from a level name (empty defaults to "info"),
// an optional log file path (empty logs to stderr only), and a debug
// override that forces debug level regardless of levelName.
func New(levelName, logPath string, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if levelName != "" {
		var err error
		level, err = zapcore.ParseLevel(levelName)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	cc.OutputPaths = []string{"stderr"}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("logging: could not create log dir: %w", err)
			}
		}
		cc.OutputPaths = append(cc.OutputPaths, logPath)
	}

	return cc.Build()
}
