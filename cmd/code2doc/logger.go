package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger writes console logs to w. Verbose runs log everything from
// debug up; otherwise only errors are logged, and quiet runs log nothing.
func newLogger(w io.Writer, verbose, quiet bool) *zap.Logger {
	if quiet && !verbose {
		return zap.NewNop()
	}

	level := zapcore.ErrorLevel
	encCfg := zap.NewProductionEncoderConfig()
	if verbose {
		level = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}
