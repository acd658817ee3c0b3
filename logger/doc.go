// Package logger provides structured logging for flatkit tools using
// zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("runner")
//	log.Info("pulls finished", logger.Fields(logger.FieldYielded, 4))
package logger
