// Package logger provides structured logging for the follow checker.
//
// It wraps the zerolog library behind a small interface with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - Optional file output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "igfollow/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("run started")
//	logger.WithField("target", "jane.doe").Info("fetching followers")
//	logger.WithError(err).Error("snapshot write failed")
package logger
