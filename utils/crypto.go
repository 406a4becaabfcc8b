package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// EmptyStringSHA256 is the hex SHA-256 digest of an empty payload.
const EmptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Hash a byte slice using SHA-256 and return the lowercase hex checksum.
func Hash(b []byte) string {
	hash := sha256.Sum256(b)
	return hex.EncodeToString(hash[:])
}

// Returns a HMAC-SHA256 digest of `data` keyed by `key`
func HmacSHA256(key []byte, data string) ([]byte, error) {
	mac := hmac.New(sha256.New, key)
	if _, err := mac.Write([]byte(data)); err != nil {
		return nil, err
	}
	return mac.Sum(nil), nil
}

// HexHmacSHA256 is HmacSHA256 encoded as lowercase hex.
func HexHmacSHA256(key []byte, data string) (string, error) {
	sum, err := HmacSHA256(key, data)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
