// Package logging builds the zap logger used by the compositor binary.
package logging

import(
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps the command line's quiet/verbosity settings onto a zap level.
// Quiet wins over verbose.
func Level(quiet bool, verbosity int) zapcore.Level {
	switch {
	case quiet:         return zapcore.ErrorLevel
	case verbosity > 0: return zapcore.DebugLevel
	default:            return zapcore.InfoLevel
	}
}

// New returns a console logger writing to stderr.
func New(quiet bool, verbosity int) (*zap.Logger, error) {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(Level(quiet, verbosity)),
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}
