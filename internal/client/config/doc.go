// Package config loads runtime configuration for the Plume CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with --config, or named by $PLUME_CONFIG.
//  3. PLUME_* environment variables.
//  4. Command-line flags bound by the CLI, which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "retry_attempts": 3,
//	  "retry_base_delay": "200ms",
//	  "data_dir": ".plume"
//	}
package config
