// Package logger wraps zap with the JSON configuration used across the
// service. Call sites should prefer it over the standard library's log
// package so every log line carries the same level/time/caller encoding.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func init() {
	logConfiguration := zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "time",
			EncodeLevel:  zapcore.LowercaseLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	var err error
	log, err = logConfiguration.Build()
	if err != nil {
		panic(err)
	}
}

// Info logs an informational event, e.g. a lifecycle transition.
func Info(message string, tags ...zap.Field) {
	log.Info(message, tags...)
	log.Sync()
}

// Warn logs a recoverable condition, e.g. a dropped slow subscriber.
func Warn(message string, tags ...zap.Field) {
	log.Warn(message, tags...)
	log.Sync()
}

// Error logs a failure with its cause attached as a structured field.
func Error(message string, err error, tags ...zap.Field) {
	tags = append(tags, zap.NamedError("error", err))
	log.Error(message, tags...)
	log.Sync()
}

// L returns the package's underlying *zap.Logger, for components (like the
// engine core) that take a logger dependency directly instead of calling
// through the package-level functions.
func L() *zap.Logger {
	return log
}
