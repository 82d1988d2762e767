// Package logger owns the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the root logger. InitLogger must run before anything logs.
var Log *zap.Logger

// InitLogger builds the root logger for the server mode: release gets
// JSON at info level, anything else a colored development console.
// Every entry carries the service tag.
func InitLogger(mode string) {
	var cfg zap.Config
	if mode == "release" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	log, err := cfg.Build(zap.Fields(zap.String("service", "cardhall")))
	if err != nil {
		panic("logger: " + err.Error())
	}
	Log = log
	zap.ReplaceGlobals(Log)
}

// Named returns a child of the root logger tagged with a subsystem
// name, e.g. "table" or "ws".
func Named(name string) *zap.Logger {
	return Log.Named(name)
}
