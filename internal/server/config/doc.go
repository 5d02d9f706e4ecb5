// Package config defines the server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation run before the server starts
//   - sanitize.go: masking of secrets for logging
//   - env.go: legacy environment variable names
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// LTRGATE_* environment variables, legacy aliases and flags.
package config
