// Package patterns provides anchored and windowed regex search over delivery-order text.
package patterns

import (
	"regexp"
	"strings"
	"sync"
)

// Flag prefixes prepended to pattern sources.
const (
	// FlagsDefault is case-insensitive and multi-line.
	FlagsDefault = "(?im)"
	// FlagsDotAll additionally lets '.' and negated classes span line breaks.
	FlagsDotAll = "(?ims)"
	FlagsFold   = "(?i)"
	FlagsNone   = ""
)

// DefaultWindow is the number of characters After inspects past the anchor.
const DefaultWindow = 200

var (
	ContainerPattern     = regexp.MustCompile(`(?i)\b([A-Z]{4})\s*([0-9]{7})\b`)
	containerCodePattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`)
)

var cache sync.Map

// Compile returns a cached compiled regex for flags+pattern. It panics on an invalid
// pattern; every pattern passed here is a compile-time literal.
func Compile(flags, pattern string) *regexp.Regexp {
	src := flags + pattern
	if re, ok := cache.Load(src); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(src)
	actual, _ := cache.LoadOrStore(src, re)
	return actual.(*regexp.Regexp)
}

// CompileAll compiles every pattern with the same flags.
func CompileAll(flags string, patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, Compile(flags, p))
	}
	return out
}

// FindFirst returns the first whole match, trimmed.
func FindFirst(text string, re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(text[loc[0]:loc[1]]), true
}

// FindAll returns every whole match, trimmed. max <= 0 means no limit.
func FindAll(text string, re *regexp.Regexp, max int) []string {
	matches := re.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m))
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Between returns the shortest text between a literal prefix and suffix, compared
// case-insensitively and across line breaks.
func Between(text, prefix, suffix string) (string, bool) {
	re := Compile(FlagsDotAll, regexp.QuoteMeta(prefix)+`(.*?)`+regexp.QuoteMeta(suffix))
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// After finds anchor case-insensitively and returns the first case-insensitive match of
// pattern within DefaultWindow characters starting at the anchor.
func After(text, anchor, pattern string) (string, bool) {
	return AfterN(text, anchor, pattern, DefaultWindow)
}

func AfterN(text, anchor, pattern string, maxChars int) (string, bool) {
	window, ok := Window(text, anchor, maxChars)
	if !ok {
		return "", false
	}
	return FindFirst(window, Compile(FlagsFold, pattern))
}

// AfterFunc is After with a custom scanner applied to the window.
func AfterFunc(text, anchor string, maxChars int, scan func(string) (string, bool)) (string, bool) {
	window, ok := Window(text, anchor, maxChars)
	if !ok {
		return "", false
	}
	v, ok := scan(window)
	return strings.TrimSpace(v), ok
}

// Window returns maxChars characters of text starting at the first case-insensitive
// occurrence of anchor.
func Window(text, anchor string, maxChars int) (string, bool) {
	i, ok := IndexFold(text, anchor)
	if !ok {
		return "", false
	}
	rest := text[i:]
	n := 0
	for i := range rest {
		if n == maxChars {
			return rest[:i], true
		}
		n++
	}
	return rest, true
}

// IndexFold returns the byte offset of the first case-insensitive occurrence of anchor.
func IndexFold(text, anchor string) (int, bool) {
	loc := Compile(FlagsFold, regexp.QuoteMeta(anchor)).FindStringIndex(text)
	if loc == nil {
		return -1, false
	}
	return loc[0], true
}

// FirstValue tries each pattern in order and returns, for the first that matches, its
// "value" group, else group 1, else the whole match. The result is trimmed.
func FirstValue(text string, res ...*regexp.Regexp) string {
	for _, re := range res {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		return strings.TrimSpace(groupOf(re, text, m))
	}
	return ""
}

func groupOf(re *regexp.Regexp, text string, m []int) string {
	g := 0
	if idx := re.SubexpIndex("value"); idx > 0 {
		g = idx
	} else if re.NumSubexp() > 0 {
		g = 1
	}
	if m[2*g] < 0 {
		return ""
	}
	return text[m[2*g]:m[2*g+1]]
}

// ContainerCandidates returns upper-cased container codes (four letters, seven digits,
// optional whitespace between) in order of first appearance, deduplicated.
func ContainerCandidates(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range ContainerPattern.FindAllStringSubmatch(text, -1) {
		code := strings.ToUpper(m[1] + m[2])
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// IsContainerCode reports whether s is exactly an upper-case container code.
func IsContainerCode(s string) bool {
	return containerCodePattern.MatchString(s)
}
