package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	sanitized.Token.Secret = maskSecret(cfg.Token.Secret)
	sanitized.Admin.Code = maskSecret(cfg.Admin.Code)
	sanitized.Issuer.APIKey = maskSecret(cfg.Issuer.APIKey)
	sanitized.Metrics.Token = maskSecret(cfg.Metrics.Token)

	return &sanitized
}

// maskSecret masks a secret value for safe logging. Empty stays empty so
// logs show whether a value is set.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
