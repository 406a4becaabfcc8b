package acs3

import (
	"github.com/jayantasamaddar/go-acssigner/utils"
)

// # Create the stringToSign
//
//  1. `Algorithm`: `ACS3-HMAC-SHA256`.
//  2. `HashedCanonicalRequest`: lowercase hex SHA-256 of the canonical request.
//
// Joined by a single "\n".
func stringToSign(canonicalRequest string) string {
	return Algorithm + "\n" + utils.Hash([]byte(canonicalRequest))
}
