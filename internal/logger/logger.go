// Package logger holds the process-wide zap logger.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process logger. It discards everything until Init is called.
var Logger = zap.NewNop()

// Init replaces Logger with one writing to w.
// In debug mode everything from debug level up is written in a console
// layout; otherwise only warnings and errors are written as JSON.
func Init(debug bool, w io.Writer) {
	Logger = New(debug, w)
}

// New builds a logger without installing it.
func New(debug bool, w io.Writer) *zap.Logger {
	var (
		enc   zapcore.Encoder
		level zapcore.Level
	)
	if debug {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
		level = zapcore.DebugLevel
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
		enc = zapcore.NewJSONEncoder(cfg)
		level = zapcore.WarnLevel
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func Sync() {
	_ = Logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger.Error(msg, fields...)
}
