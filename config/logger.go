package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelNone disables logging.
const LevelNone = "none"

// ParseLevel accepts the zap level names plus "none".
func ParseLevel(level string) (zapcore.Level, error) {
	if level == LevelNone {
		return zapcore.InvalidLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// NewLogger returns the program logger writing to stderr, which keeps
// stdout free for command output.
func NewLogger(level string) (*zap.Logger, error) {
	return NewLoggerTo(level, zapcore.Lock(os.Stderr))
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(level string, out zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if level == LevelNone {
		return zap.NewNop(), nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), out, lvl)), nil
}
