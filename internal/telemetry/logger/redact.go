package logger

import (
	"log/slog"
	"regexp"
	"strings"
)

// tokenPattern matches an access token anywhere in a string: a decimal
// expiry, a dot and a 43-character RawURL signature.
var tokenPattern = regexp.MustCompile(`(\d{1,16})\.[A-Za-z0-9_-]{43}`)

// Key fragments that mark an attribute as sensitive.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"cookie",
	"credential",
	"auth",
	"bearer",
	"api_key",
	"apikey",
}

// Keys that are sensitive only on an exact match. "code" alone would catch
// error_code and status_code.
var sensitiveExactKeys = map[string]bool{
	"code":       true,
	"admin_code": true,
	"key":        true,
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Token-shaped values keep their expiry so logs stay useful.
		if masked, ok := maskTokens(strVal); ok {
			return slog.String(a.Key, masked)
		}

		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

func maskTokens(s string) (string, bool) {
	if !tokenPattern.MatchString(s) {
		return s, false
	}
	return tokenPattern.ReplaceAllString(s, "$1.***"), true
}

// RedactString masks every access token embedded in value.
func RedactString(value string) string {
	masked, _ := maskTokens(value)
	return masked
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	if sensitiveExactKeys[keyLower] {
		return true
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value contains an access token.
func IsSensitiveValue(value string) bool {
	return tokenPattern.MatchString(value)
}
