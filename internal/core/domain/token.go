package domain

import (
	"strconv"
	"strings"
	"time"
)

// TokenSeparator joins the expiry and signature fields of an access token.
const TokenSeparator = "."

// AccessToken is the decoded form of a signed, time-limited access token.
//
// The token carries no identity, scope or revocation marker: it is valid iff
// its signature matches under the shared secret and the current instant is
// strictly before ExpiresAt.
type AccessToken struct {
	// ExpiresAt is the absolute expiry instant in Unix milliseconds.
	ExpiresAt int64

	// Signature is the Base64 RawURL MAC over the decimal form of ExpiresAt.
	Signature string
}

// EncodeToken joins an expiry and its signature into the wire form
// "<expiresAt>.<signature>".
func EncodeToken(expiresAt int64, signature string) string {
	return FormatExpiry(expiresAt) + TokenSeparator + signature
}

// FormatExpiry returns the exact text that is signed for an expiry instant.
func FormatExpiry(expiresAt int64) string {
	return strconv.FormatInt(expiresAt, 10)
}

// DecodeToken splits a wire token into its fields.
//
// Returns ErrTokenMalformed when the separator count is not exactly one or the
// first field is not the canonical base-10 form of an integer. Signs, leading
// zeros and "-0" are rejected, so the signed text always equals the text
// received.
func DecodeToken(s string) (*AccessToken, error) {
	if strings.Count(s, TokenSeparator) != 1 {
		return nil, ErrTokenMalformed.WithDetails("expected exactly one separator")
	}

	expStr, sig, _ := strings.Cut(s, TokenSeparator)
	expiresAt, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed.WithDetails("expiry is not an integer").WithCause(err)
	}
	if FormatExpiry(expiresAt) != expStr {
		return nil, ErrTokenMalformed.WithDetails("expiry is not in canonical form")
	}

	return &AccessToken{
		ExpiresAt: expiresAt,
		Signature: sig,
	}, nil
}

// String returns the wire form of the token.
func (t *AccessToken) String() string {
	return EncodeToken(t.ExpiresAt, t.Signature)
}

// Message returns the bytes covered by the signature.
func (t *AccessToken) Message() string {
	return FormatExpiry(t.ExpiresAt)
}

// ExpiresAtTime returns the expiry as a time.Time.
func (t *AccessToken) ExpiresAtTime() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// Expired reports whether now is at or after the expiry instant.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.UnixMilli() >= t.ExpiresAt
}

// Remaining returns the time left before expiry, or zero once expired.
func (t *AccessToken) Remaining(now time.Time) time.Duration {
	left := time.Duration(t.ExpiresAt-now.UnixMilli()) * time.Millisecond
	if left < 0 {
		return 0
	}
	return left
}

// MaskToken masks the signature of a token for safe logging.
// Example: 1700000000000.***
func MaskToken(token string) string {
	expStr, _, found := strings.Cut(token, TokenSeparator)
	if !found || expStr == "" {
		return "***REDACTED***"
	}
	if _, err := strconv.ParseInt(expStr, 10, 64); err != nil {
		return "***REDACTED***"
	}
	return expStr + TokenSeparator + "***"
}
