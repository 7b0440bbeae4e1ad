// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Besides the HTTP settings it carries the
// packing engine tuning and the default container size.
package config
