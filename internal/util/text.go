package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

// CollapseSpaces replaces every whitespace run with a single space and trims.
func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func NormalizeUpperNoSpace(input string) string {
	return reSpaces.ReplaceAllString(strings.ToUpper(input), "")
}

// FoldCase upper-cases input and strips combining marks, so "Süd" and "SUD" compare equal.
func FoldCase(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, input)
	if err != nil {
		folded = input
	}
	return strings.ToUpper(folded)
}

// FindFirstIndex returns the byte offset of the first needle occurrence.
func FindFirstIndex(text, needle string) (int, bool) {
	i := strings.Index(text, needle)
	return i, i >= 0
}

// SplitLines splits on \r\n, \r and \n. A trailing line break does not produce an
// empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// HasPrefixAny reports whether s starts with any of the prefixes.
func HasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func ContainsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Unique drops empty and repeated values, keeping first-seen order.
func Unique(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
