package acs3

import (
	"fmt"
	"sort"
	"strings"
)

// Header names. All lower case, as they appear in the canonical request.
const (
	HeaderPrefix        = "x-acs-"
	HeaderHost          = "host"
	HeaderContentType   = "content-type"
	HeaderAction        = "x-acs-action"
	HeaderVersion       = "x-acs-version"
	HeaderDate          = "x-acs-date"
	HeaderNonce         = "x-acs-signature-nonce"
	HeaderContentSHA256 = "x-acs-content-sha256"
	HeaderAuthorization = "Authorization"
)

type canonicalHeader struct {
	name  string
	value string
}

// IsSignedHeader reports whether a header of this name is bound by the signature.
func IsSignedHeader(name string) bool {
	lowerCaseKey := strings.ToLower(name)
	return strings.HasPrefix(lowerCaseKey, HeaderPrefix) || lowerCaseKey == HeaderHost || lowerCaseKey == HeaderContentType
}

// # (d) Select the headers that take part in the signature, lower-cased and sorted by name.
//
// Two keys that differ only in case are rejected: either choice would make the canonical block
// depend on map iteration order.
func selectHeaders(headers map[string]string) ([]canonicalHeader, error) {
	selected := make([]canonicalHeader, 0, len(headers))
	seen := make(map[string]string, len(headers))
	for key, value := range headers {
		if !IsSignedHeader(key) {
			continue
		}
		name := strings.ToLower(key)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: header %q given as both %q and %q", ErrMalformedRequest, name, prev, key)
		}
		seen[name] = key
		selected = append(selected, canonicalHeader{name: name, value: strings.TrimSpace(value)})
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].name < selected[j].name
	})
	return selected, nil
}

// # (d) Canonical Headers and (e) Signed Headers as two return values
//
// Canonical headers end with a newline after the last entry; signed headers have no trailing delimiter.
func canonicalAndSignedHeaders(selected []canonicalHeader) (canonicalHeaders, signedHeaders string) {
	var ch strings.Builder
	sh := make([]string, len(selected))
	for i, h := range selected {
		ch.WriteString(h.name)
		ch.WriteByte(':')
		ch.WriteString(h.value)
		ch.WriteByte('\n')
		sh[i] = h.name
	}
	return ch.String(), strings.Join(sh, ";")
}
