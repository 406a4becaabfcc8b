package acs3

import (
	"net/url"
	"sort"
	"strings"

	"github.com/jayantasamaddar/go-acssigner/utils"
)

// # (1) Create the Canonical Request
//
// The `CanonicalRequest` is built out of 6 parameters joined by a new line character ("\n"):
//
//	HTTPMethod + "\n" +
//	CanonicalURI + "\n" +
//	CanonicalQueryString + "\n" +
//	CanonicalHeaders + "\n" +
//	SignedHeaders + "\n" +
//	HashedPayload
//
// `CanonicalHeaders` already ends in "\n", so the joined string holds an empty line before `SignedHeaders`.
func canonicalRequest(method, path, query, canonicalHeaders, signedHeaders, hashedPayload string) string {
	return method + "\n" +
		path + "\n" +
		query + "\n" +
		canonicalHeaders + "\n" +
		signedHeaders + "\n" +
		hashedPayload
}

// # (c) Get the `CanonicalQueryString`.
//
// Keys and values are percent-encoded individually, then sorted by encoded key and value. A key
// with an empty value is emitted as `key=`. No query gives the empty string.
func canonicalQueryString(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	type pair struct{ key, value string }
	pairs := make([]pair, 0, len(query))
	for key, values := range query {
		encodedKey := utils.PercentEncode(key)
		if len(values) == 0 {
			pairs = append(pairs, pair{encodedKey, ""})
			continue
		}
		for _, value := range values {
			pairs = append(pairs, pair{encodedKey, utils.PercentEncode(value)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	params := make([]string, len(pairs))
	for i, p := range pairs {
		params[i] = p.key + "=" + p.value
	}
	return strings.Join(params, "&")
}
