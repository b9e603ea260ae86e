package cli

// This file defines error handling utilities for the CLI, including:
//   - Sentinel errors for argument and configuration problems
//   - Error wrapping helpers backed by an errx.Catalog
//   - Structured error logging with context
//   - Debug mode management for error output

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"wheelpub/pkg/errx"
)

var (
	debugMode   bool
	debugModeMu sync.RWMutex
)

// SetDebugMode sets the global debug mode flag.
// When enabled, logStructuredError will output structured error logs to terminal.
func SetDebugMode(enabled bool) {
	debugModeMu.Lock()
	defer debugModeMu.Unlock()
	debugMode = enabled
}

// IsDebugMode returns whether debug mode is enabled.
func IsDebugMode() bool {
	debugModeMu.RLock()
	defer debugModeMu.RUnlock()
	return debugMode
}

// errorCatalog maps the sentinels below to their codes.
// Must be declared before the sentinels so it is initialised first.
var errorCatalog = errx.NewCatalog()

func newSentinelError(msg string, code, description string) error {
	return errorCatalog.Sentinel(msg, code, description)
}

func newWithSentinel(base error, msg string) error {
	return errorCatalog.New(base, msg)
}

func wrapWithSentinel(base, cause error, msg string) error {
	return errorCatalog.Wrap(base, cause, msg)
}

// wrapWithSentinelAndContext wraps an error with additional structured context
// such as the pattern or config path involved.
func wrapWithSentinelAndContext(base, cause error, msg string, context map[string]any) error {
	return errorCatalog.WrapWithContext(base, cause, msg, context)
}

// Sentinel errors for CLI operations.
var (
	// CLI errors.
	ErrArtifactsRequired      = newSentinelError("at least one artifact is required", errx.CodeCLI, errx.DescCLI)
	ErrInvalidGlob            = newSentinelError("invalid artifact pattern", errx.CodeCLI, errx.DescCLI)
	ErrNoArtifactsMatched     = newSentinelError("no artifacts matched", errx.CodeCLI, errx.DescCLI)
	ErrGetHomeDirectoryFailed = newSentinelError("failed to get home directory", errx.CodeCLI, errx.DescCLI)

	// Config errors.
	ErrReadToolConfigFailed      = newSentinelError("failed to read wheelpub config", errx.CodeConfig, errx.DescConfig)
	ErrUnmarshalToolConfigFailed = newSentinelError("failed to unmarshal wheelpub config", errx.CodeConfig, errx.DescConfig)
)

// logStructuredError logs an error with structured fields to terminal.
// Only logs when debug mode is enabled (via --debug flag).
//
// This extracts all context from errx.Error and logs it with structured fields:
// - error.code: "77000"
// - error.category: "File already exists"
// - error.context.artifact: "demo-1.0-py3-none-any.whl"
// - error.context.size: "12 kB"
func logStructuredError(logger *zap.Logger, err error, msg string) {
	if logger == nil || err == nil || !IsDebugMode() {
		return
	}

	var errxErr *errx.Error
	if errors.As(err, &errxErr) {
		fields := []zap.Field{
			zap.String("error.code", errxErr.Code()),
			zap.String("error.category", errxErr.Description()),
			zap.String("error.message", errxErr.Message()),
			zap.Error(err),
		}

		if ctx := errxErr.Context(); ctx != nil {
			for key, value := range ctx {
				fields = append(fields, zap.Any("error.context."+key, value))
			}
		}

		// distinct field name to avoid a duplicate "error" field
		if cause := errxErr.Cause(); cause != nil {
			fields = append(fields, zap.NamedError("error.cause", cause))
		}

		logger.Error(msg, fields...)
	} else {
		logger.Error(msg, zap.Error(err))
	}
}
