// Package token provides the keyed signing primitives behind ltrgate access
// links, plus random secret generation.
//
// Signature Format:
//
//   - HMAC-SHA256 over the message bytes, keyed by the shared secret
//   - Base64 RawURL encoded (no padding), always 43 characters
//
// Security:
//
//   - Uses crypto/rand for secret generation
//   - Signature comparison is constant-time and rejects length mismatch
package token
