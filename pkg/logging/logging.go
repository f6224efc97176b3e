// Package logging builds the troubleshooter's diagnostic logger.
//
// Diagnostics go to stderr and never replace the text printed for the user.
// When stderr is a terminal the console encoder is used; when it is piped or
// redirected, JSON lines are written instead.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "TSG_LOG_LEVEL"

// DefaultLevel keeps the console quiet unless something goes wrong.
const DefaultLevel = zapcore.WarnLevel

// New builds a logger writing to stderr at the given level.
// An empty level means DefaultLevel.
func New(level string) (*zap.Logger, error) {
	lvl := DefaultLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvLevel, level, err)
		}
		lvl = parsed
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// FromEnv builds a logger using TSG_LOG_LEVEL.
func FromEnv() (*zap.Logger, error) {
	return New(os.Getenv(EnvLevel))
}
