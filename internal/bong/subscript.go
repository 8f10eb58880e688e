// Package bong validates build orders written in BONG, the compact notation
// embedded in build-order notes to describe worker assignments and movements
// with running per-resource tallies.
package bong

import (
	"regexp"
	"strings"
)

// subscriptGlyphs lists the subscript digits ₀ through ₉ in digit order
const subscriptGlyphs = "₀₁₂₃₄₅₆₇₈₉"

// maxSubscriptDigits bounds decoding so the tally cannot overflow an int
const maxSubscriptDigits = 18

var (
	subscriptDigits = buildSubscriptDigits()

	trailingSubscriptPattern = regexp.MustCompile(`[₀-₉]+$`)
)

func buildSubscriptDigits() map[rune]int {
	digits := make(map[rune]int, 10)
	for i, r := range []rune(subscriptGlyphs) {
		digits[r] = i
	}
	return digits
}

// DecodeSubscript converts a run of subscript digits to its base-10 value.
// Any rune outside ₀–₉ invalidates the whole string; no partial value is returned.
func DecodeSubscript(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	result := 0
	n := 0
	for _, r := range s {
		digit, ok := subscriptDigits[r]
		if !ok {
			return 0, false
		}
		n++
		if n > maxSubscriptDigits {
			return 0, false
		}
		result = result*10 + digit
	}
	return result, true
}

// ExtractTrailingSubscript decodes the subscript digits anchored at the end of s.
// The second return is false when s does not end in a subscript.
func ExtractTrailingSubscript(s string) (int, bool) {
	match := trailingSubscriptPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	return DecodeSubscript(match)
}

// EncodeSubscript renders a non-negative integer as subscript digits
func EncodeSubscript(n int) string {
	if n < 0 {
		return ""
	}
	glyphs := []rune(subscriptGlyphs)
	if n == 0 {
		return string(glyphs[0])
	}
	var digits []rune
	for n > 0 {
		digits = append(digits, glyphs[n%10])
		n /= 10
	}
	var sb strings.Builder
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteRune(digits[i])
	}
	return sb.String()
}
