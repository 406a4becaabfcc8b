package utils

import (
	"strings"
)

const upperhex = "0123456789ABCDEF"

var noEscape [256]bool

func init() {
	for i := 0; i < len(noEscape); i++ {
		noEscape[i] = (i >= 'A' && i <= 'Z') ||
			(i >= 'a' && i <= 'z') ||
			(i >= '0' && i <= '9') ||
			i == '-' ||
			i == '.' ||
			i == '_' ||
			i == '~'
	}
}

// # PercentEncode encodes every byte except the unreserved characters: 'A'-'Z', 'a'-'z', '0'-'9', '-', '.', '_', and '~'.
//   - The space character is encoded as "%20" (and not as "+").
//   - Letters in the hexadecimal value are uppercase, for example "%2A".
//
// Encoding works on bytes, so multi-byte UTF-8 sequences become one escape per byte.
func PercentEncode(s string) string {
	var encoded strings.Builder
	encoded.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if noEscape[c] {
			encoded.WriteByte(c)
			continue
		}
		encoded.WriteByte('%')
		encoded.WriteByte(upperhex[c>>4])
		encoded.WriteByte(upperhex[c&0x0f])
	}
	return encoded.String()
}
