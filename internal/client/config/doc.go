// Package config loads runtime configuration for the petcare terminal
// front-end.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the petcare backend
//	-f string   local database file
//	-t int      request timeout (seconds)
//	-l string   log level (debug|info|warn|error)
//
// # JSON schema
//
// The request timeout uses timex.Duration, so it can be either a string like
// "10s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "database_file": "petcare.db",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
package config
