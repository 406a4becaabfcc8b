package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentEncode(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"abcXYZ019-._~": "abcXYZ019-._~",
		"a b":           "a%20b",
		"c*":            "c%2A",
		"a+b=c&d":       "a%2Bb%3Dc%26d",
		"/ws1/farui":    "%2Fws1%2Ffarui",
		"\u4e2d":        "%E4%B8%AD",
	}
	for in, expect := range cases {
		assert.Equal(t, expect, PercentEncode(in), "input %q", in)
	}
}
