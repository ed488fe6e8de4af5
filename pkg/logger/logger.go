package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New. production zap logger (json, ISO8601 timestamps)
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"
	return cfg.Build()
}

// NewWithLevel. like New but with a configurable minimum level ("debug", "info", ...)
func NewWithLevel(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
