// Package logger provides structured logging for the filevault core
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("filevault").WithComponent("gateway")
//	log.Info("upload complete", logger.Fields(logger.FieldKey, key))
package logger
