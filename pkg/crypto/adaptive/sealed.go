package adaptive

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SealedPrefix marks strings produced by SealString.
const SealedPrefix = "sealed:"

// ErrNotSealed is returned by OpenString for input without SealedPrefix.
var ErrNotSealed = errors.New("adaptive: value is not sealed")

// IsSealed reports whether s was produced by SealString.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, SealedPrefix)
}

// SealString encrypts plaintext with the preferred cipher and returns
// "sealed:<cipher>:<base64url>".
func SealString(key []byte, plaintext string, additionalData []byte) (string, error) {
	c, err := New(key)
	if err != nil {
		return "", err
	}
	ct, err := c.Encrypt([]byte(plaintext), additionalData)
	if err != nil {
		return "", err
	}
	return SealedPrefix + string(c.Type()) + ":" + base64.RawURLEncoding.EncodeToString(ct), nil
}

// OpenString reverses SealString using the cipher named in s.
func OpenString(key []byte, s string, additionalData []byte) (string, error) {
	if !IsSealed(s) {
		return "", ErrNotSealed
	}
	typ, payload, ok := strings.Cut(strings.TrimPrefix(s, SealedPrefix), ":")
	if !ok {
		return "", errors.New("adaptive: malformed sealed value")
	}

	ct, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("adaptive: decode sealed value: %w", err)
	}
	c, err := NewWithType(key, CipherType(typ))
	if err != nil {
		return "", err
	}
	pt, err := c.Decrypt(ct, additionalData)
	if err != nil {
		return "", fmt.Errorf("adaptive: open sealed value: %w", err)
	}
	return string(pt), nil
}
