// Package logging builds the structured logger used by the tether CLI.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger writing to stderr. Only warnings and errors are
// emitted unless debug is set. Every entry carries a run_id unique to this
// process and the command name.
func New(command string, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return WithRun(logger, command), nil
}

// WithRun tags logger with a fresh run_id and the command name.
func WithRun(logger *zap.Logger, command string) *zap.Logger {
	return logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("command", command),
	)
}
