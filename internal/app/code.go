package app

import (
	"math/rand"
	"strconv"
	"strings"
	"unicode"
)

const (
	codeDigits = 8
	codeMin    = 10000000
	codeSpan   = 90000000
)

// randomCode draws a fixed-width numeric room code.
func randomCode(rnd *rand.Rand) string {
	return strconv.Itoa(codeMin + rnd.Intn(codeSpan))
}

// FormatCode groups a room code for display, e.g. "1234 5678".
func FormatCode(code string) string {
	if len(code) != codeDigits {
		return code
	}
	return code[:codeDigits/2] + " " + code[codeDigits/2:]
}

// NormalizeCode strips whitespace and dash separators from a client-supplied code.
func NormalizeCode(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, raw)
}
