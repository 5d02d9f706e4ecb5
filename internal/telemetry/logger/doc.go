// Package logger provides structured logging for the access gate.
//
// It wraps log/slog:
//
//   - logger.go: handler construction and the runtime-adjustable level
//   - context.go: request-scoped loggers and request IDs
//   - redact.go: masking of secrets, admin codes and access tokens
//
// Access tokens are never logged in full: any value shaped like
// "<expiresAt>.<signature>" is rewritten to "<expiresAt>.***", including
// tokens embedded in links and quota keys.
package logger
