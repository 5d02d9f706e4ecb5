package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes have the form LG-<AREA>-<NNNN>; the last four digits mirror the HTTP
// status family they map to.
type DomainError struct {
	Code    string // Error code (e.g., "LG-TOKN-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrTokenMalformed indicates the token does not have the <expiresAt>.<signature> shape.
	ErrTokenMalformed = NewDomainError("LG-TOKN-4000", "malformed token")

	// ErrTokenMissing indicates no token was presented.
	ErrTokenMissing = NewDomainError("LG-TOKN-4001", "token not provided")

	// ErrTokenInvalid indicates the signature does not match.
	ErrTokenInvalid = NewDomainError("LG-TOKN-4010", "invalid token")

	// ErrTokenExpired indicates the token is past its expiry instant.
	ErrTokenExpired = NewDomainError("LG-TOKN-4011", "token expired")
)

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrMissingSecret indicates the shared signing secret is not configured.
	ErrMissingSecret = NewDomainError("LG-CONF-5000", "TOKEN_SECRET missing")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = NewDomainError("LG-CONF-5001", "invalid configuration")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrAdminCodeMissing indicates no admin credential was presented.
	ErrAdminCodeMissing = NewDomainError("LG-AUTH-4010", "admin code not provided")

	// ErrAdminCodeInvalid indicates the admin credential does not match.
	ErrAdminCodeInvalid = NewDomainError("LG-AUTH-4011", "Code invalide")

	// ErrIssuerKeyInvalid indicates the issuing API key is absent or wrong.
	ErrIssuerKeyInvalid = NewDomainError("LG-AUTH-4012", "issuer api key required")

	// ErrMetricsTokenInvalid indicates the metrics bearer token is absent or wrong.
	ErrMetricsTokenInvalid = NewDomainError("LG-AUTH-4013", "metrics token required")

	// ErrLoginRateLimited indicates too many admin login attempts from one client.
	ErrLoginRateLimited = NewDomainError("LG-AUTH-4290", "too many login attempts")
)

// ============================================================================
// Quota Errors (QUOT)
// ============================================================================

var (
	// ErrQuotaStorage indicates the quota store could not be read or written.
	ErrQuotaStorage = NewDomainError("LG-QUOT-5001", "quota storage error")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("LG-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("LG-SYS-4000", "bad request")

	// ErrMethodNotAllowed indicates the route does not accept the method.
	ErrMethodNotAllowed = NewDomainError("LG-SYS-4050", "method not allowed")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("LG-ARG-1001", "invalid argument")
)
