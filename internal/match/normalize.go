package match

import (
	"strings"
	"unicode"
)

// Normalize lower-cases an identifier and removes word separators and
// package qualifiers, so "catalog.ShippingInfo" and "shipping_info" compare equal.
func Normalize(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Tokens splits an identifier into lower-case words.
// "getHTTPResponse" yields [get http response].
func Tokens(s string) []string {
	runes := []rune(s)

	var (
		out  []string
		word []rune
	)

	flush := func() {
		if len(word) > 0 {
			out = append(out, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && wordBoundary(runes, i) {
			flush()
		}

		word = append(word, r)
	}

	flush()

	return out
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// wordBoundary reports whether a new word starts at runes[i]:
// on a lower-to-upper transition, or before the last capital of an acronym.
func wordBoundary(runes []rune, i int) bool {
	cur, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(cur) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
