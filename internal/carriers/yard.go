package carriers

import (
	"regexp"
	"strings"

	"edoparser/internal/patterns"
	"edoparser/internal/util"
)

// yardCollectMax caps the lines gathered after a yard anchor.
const yardCollectMax = 6

// yardRules trims a candidate yard block down to the address lines. A block ends at a
// line starting with one of stops, at a date-shaped line, at a container code, or at a
// blank line once something has been kept.
type yardRules struct {
	stops []string
	date  *regexp.Regexp
	// skip drops matching upper-cased lines without ending the block.
	skip func(upper string) bool
	// blankEnds ends the block at any blank line, leading ones included.
	blankEnds bool
}

func (r yardRules) stopsAt(line string) bool {
	upper := strings.ToUpper(line)
	if patterns.IsContainerCode(upper) || util.HasPrefixAny(upper, r.stops) {
		return true
	}
	return r.date != nil && r.date.MatchString(line)
}

// cutAtContainer returns the part of line before its first container code, with
// trailing separators dropped, and whether a code was found.
func cutAtContainer(line string) (string, bool) {
	loc := patterns.ContainerPattern.FindStringIndex(line)
	if loc == nil {
		return line, false
	}
	return strings.TrimRight(line[:loc[0]], " \t.,;:-/"), true
}

// keep reports the line to add to a yard block, if any, and whether the block ends
// after it.
func (r yardRules) keep(line string) (string, bool) {
	head, cut := cutAtContainer(line)
	if head == "" || r.stopsAt(head) {
		return "", true
	}
	return head, cut
}

func (r yardRules) sanitize(block string) string {
	var kept []string
	for _, raw := range util.SplitLines(block) {
		line := strings.TrimSpace(raw)
		if line == "" {
			if r.blankEnds || len(kept) > 0 {
				break
			}
			continue
		}
		if r.skip != nil && r.skip(strings.ToUpper(line)) {
			continue
		}
		head, last := r.keep(line)
		if head != "" {
			kept = append(kept, head)
		}
		if last {
			break
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// collectAfter gathers up to yardCollectMax lines following the line that holds the
// first case-insensitive occurrence of anchor. skip may be nil.
func (r yardRules) collectAfter(text, anchor string, skip func(upper string) bool) string {
	idx, ok := patterns.IndexFold(text, anchor)
	if !ok {
		return ""
	}
	tail := util.SplitLines(text[idx:])
	if len(tail) < 2 {
		return ""
	}

	var kept []string
	for _, raw := range tail[1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			break
		}
		if skip != nil && skip(strings.ToUpper(line)) {
			continue
		}
		head, last := r.keep(line)
		if head != "" {
			kept = append(kept, head)
		}
		if last || len(kept) >= yardCollectMax {
			break
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// yardSearch runs the anchored yard patterns through sanitize, then each between-anchor
// pair, then collectAfter on collectAnchor.
type yardSearch struct {
	rules         yardRules
	anchored      []*regexp.Regexp
	between       [][2]string
	collectAnchor string
	collectSkip   func(upper string) bool
}

func (s yardSearch) find(text string) string {
	if v := s.rules.sanitize(patterns.FirstValue(text, s.anchored...)); v != "" {
		return v
	}
	for _, pair := range s.between {
		block, _ := patterns.Between(text, pair[0], pair[1])
		if v := s.rules.sanitize(block); v != "" {
			return v
		}
	}
	if s.collectAnchor == "" {
		return ""
	}
	return s.rules.collectAfter(text, s.collectAnchor, s.collectSkip)
}

func prefixSkip(prefixes ...string) func(string) bool {
	return func(upper string) bool {
		return util.HasPrefixAny(upper, prefixes)
	}
}

var (
	dayMonthYear = patterns.Compile(patterns.FlagsNone, `\b\d{2}-[A-Z]{3}-\d{2,4}\b`)
	isoDate      = patterns.Compile(patterns.FlagsNone, `\b\d{4}[-/]\d{2}[-/]\d{2}\b`)
)
