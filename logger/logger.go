package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init sets up the global logger. Production environments get JSON
// output, everything else gets the human-readable development encoder.
func Init(env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}

	var err error
	log, err = cfg.Build()
	if err != nil {
		return err
	}
	return nil
}

// Get returns the global logger, initializing a default one if Init
// was never called.
func Get() *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log
}

// Named returns a child logger scoped to a component.
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// Sync flushes buffered log entries.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
