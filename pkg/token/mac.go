package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// SignatureLength is the encoded length of a SHA-256 MAC (32 bytes -> 43 chars).
const SignatureLength = 43

// Sign computes HMAC-SHA256(secret, message) and returns it Base64 RawURL encoded.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Equal reports whether two signatures are identical.
//
// Uses constant-time comparison; signatures of different length never match.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// VerifySignature recomputes the signature of message and compares it to sig.
func VerifySignature(secret, message, sig string) bool {
	return Equal(Sign(secret, message), sig)
}
