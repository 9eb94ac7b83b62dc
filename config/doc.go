// Package config loads and validates the application configuration.
//
// Configuration is read from config.yml (or config/config.yml), overlaid
// with a .env file and the process environment, then defaulted and
// validated once. Components receive their own already-validated sections.
//
//	cfg, err := config.Load()
//
// Environment variables bind to nested keys by underscore splitting, so
// GATEWAY_MAX_FILE_SIZE overrides gateway.max_file_size.
package config
