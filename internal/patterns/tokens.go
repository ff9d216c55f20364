package patterns

import (
	"unicode"
	"unicode/utf8"
)

// Scanners for token shapes that need look-around, which RE2 does not support.
// They walk every start position like a regex search would, so a match may begin
// inside a longer run.

func isAlnum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func isAlnumDash(b byte) bool {
	return isAlnum(b) || b == '-'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBoundary reports whether a word boundary sits at byte offset i of s.
func wordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func runEnd(s string, i int, in func(byte) bool) int {
	j := i
	for j < len(s) && in(s[j]) {
		j++
	}
	return j
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			return true
		}
	}
	return false
}

// DigitToken finds the first alphanumeric run of min..max characters that contains a
// digit and ends on a word boundary.
func DigitToken(s string, min, max int) (string, bool) {
	for i := 0; i < len(s); i++ {
		if tok, ok := digitTokenAt(s, i, min, max); ok {
			return tok, true
		}
	}
	return "", false
}

// DigitTokens returns every non-overlapping DigitToken match.
func DigitTokens(s string, min, max int) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		if tok, ok := digitTokenAt(s, i, min, max); ok {
			out = append(out, tok)
			i += len(tok) - 1
		}
	}
	return out
}

func digitTokenAt(s string, i, min, max int) (string, bool) {
	if !isAlnum(s[i]) {
		return "", false
	}
	j := runEnd(s, i, isAlnum)
	n := j - i
	if n < min || n > max || !wordBoundary(s, j) {
		return "", false
	}
	if !hasDigit(s[i:j]) {
		return "", false
	}
	return s[i:j], true
}

// DashDigitToken is DigitToken over [A-Z0-9-] with no upper bound. The run qualifies
// when some prefix of at least min characters ends on a word boundary.
func DashDigitToken(s string, min int) (string, bool) {
	for i := 0; i < len(s); i++ {
		if !isAlnumDash(s[i]) {
			continue
		}
		j := runEnd(s, i, isAlnumDash)
		if j-i < min || !hasDigit(s[i:j]) {
			continue
		}
		for k := i + min; k <= j; k++ {
			if wordBoundary(s, k) {
				return s[i:j], true
			}
		}
	}
	return "", false
}

// DigitsNotAfterLetter finds the first run of min..max digits not directly preceded by
// a letter. Longer runs are cut at max.
func DigitsNotAfterLetter(s string, min, max int) (string, bool) {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) || (i > 0 && isLetter(s[i-1])) {
			continue
		}
		j := runEnd(s, i, isDigit)
		if j-i < min {
			continue
		}
		if j-i > max {
			j = i + max
		}
		return s[i:j], true
	}
	return "", false
}

// CodeWithDigit finds the first position whose alphanumeric run contains a digit and is
// at least min characters long; the run is cut at max.
func CodeWithDigit(s string, min, max int) (string, bool) {
	for i := 0; i < len(s); i++ {
		if tok, ok := CodeWithDigitAt(s, i, min, max); ok {
			return tok, true
		}
	}
	return "", false
}

// CodeWithDigitAt applies CodeWithDigit at a fixed offset only.
func CodeWithDigitAt(s string, i, min, max int) (string, bool) {
	if i < 0 || i >= len(s) || !isAlnum(s[i]) {
		return "", false
	}
	j := runEnd(s, i, isAlnum)
	if j-i < min || !hasDigit(s[i:j]) {
		return "", false
	}
	if j-i > max {
		j = i + max
	}
	return s[i:j], true
}

// IsCodeWithDigit reports whether s is entirely an alphanumeric code of min..max
// characters containing a digit.
func IsCodeWithDigit(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return hasDigit(s)
}
