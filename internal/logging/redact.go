package logging

import (
	"log/slog"
	"strings"
)

// RedactedValue is the canonical placeholder used for sensitive fields in logs.
const RedactedValue = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"secret":            {},
	"access_key_secret": {},
	"authorization":     {},
	"signature":         {},
	"string_to_sign":    {},
}

// IsSensitive reports whether values logged under key must be masked.
func IsSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// MaskValue returns the redacted placeholder for non-empty values.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return RedactedValue
}

// MaskField returns a slog.Attr that redacts the supplied value when the key is sensitive.
func MaskField(key, value string) slog.Attr {
	if IsSensitive(key) {
		return slog.String(key, MaskValue(value))
	}
	return slog.String(key, value)
}

// MaskAccessKeyID keeps the first four characters of an access key id, enough to tell keys apart.
func MaskAccessKeyID(id string) string {
	if len(id) <= 4 {
		return MaskValue(id)
	}
	return id[:4] + strings.Repeat("*", len(id)-4)
}
