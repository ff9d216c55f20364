// Package port locates the port of discharge in delivery-order text.
//
// Documents label the field inconsistently, so the locator combines inline heading
// matches, bounded scans around heading lines and an unanchored fallback, and only
// accepts candidates that survive cleaning and score positively.
package port

import (
	"regexp"
	"strings"
	"unicode"

	"edoparser/internal/util"
)

const (
	DefaultLookAhead = 8
	DefaultLookBack  = 2
)

var (
	inlinePattern = regexp.MustCompile(`(?i)(?:PORT\s+OF\s+DISCHARGE|DISCHARGE\s+PORT|PORT\s+OF\s+DEST(?:INATION)?|PORT\s+DESTINATION|FINAL\s+DESTINATION|P\.?O\.?D\.?)(?:\s*[:\-]\s*|\s+)([A-Z0-9 ,./()&'\\\-]{3,80})`)

	containerShape = regexp.MustCompile(`(?i)^[A-Z]{4}\d{7}$`)
	bareCodeShape  = regexp.MustCompile(`(?i)^[A-Z0-9]{6,}$`)
	dateShape      = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
	monthDayYear   = regexp.MustCompile(`(?i)^[A-Z]{3}\s+\d{1,2}\s+\d{4}$`)
	portWord       = regexp.MustCompile(`(?i)\bPORT\b`)
)

var headingSeparators = []string{":", "-", "–"}

// Locator finds a port of discharge. The zero value uses the default windows.
type Locator struct {
	LookAhead int
	LookBack  int
}

var defaultLocator = Locator{LookAhead: DefaultLookAhead, LookBack: DefaultLookBack}

// Extract runs the default locator. It returns "" when nothing qualifies.
func Extract(text string) string {
	return defaultLocator.Extract(text)
}

func (l Locator) Extract(text string) string {
	if text == "" {
		return ""
	}
	ahead, back := l.LookAhead, l.LookBack
	if ahead <= 0 {
		ahead = DefaultLookAhead
	}
	if back <= 0 {
		back = DefaultLookBack
	}

	raw := util.SplitLines(text)
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = sanitizeLine(line)
	}

	for idx, line := range lines {
		if line == "" {
			continue
		}
		if v := valueFromHeadingLine(line); v != "" {
			return v
		}
		if !containsKeyword(line) {
			continue
		}
		if v := scan(lines, rangeUp(idx+1, idx+ahead), true); v != "" {
			return v
		}
		if v := scan(lines, rangeDown(idx-1, idx-back), true); v != "" {
			return v
		}
	}

	return scan(lines, rangeUp(0, len(lines)-1), false)
}

func rangeUp(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func rangeDown(from, to int) []int {
	var out []int
	for i := from; i >= to; i-- {
		out = append(out, i)
	}
	return out
}

// scan returns the first positively scored candidate among lines[indices]. With
// respectBreaks a break heading ends the scan; without it break lines are only skipped.
func scan(lines []string, indices []int, respectBreaks bool) string {
	for _, idx := range indices {
		if idx < 0 || idx >= len(lines) {
			continue
		}
		raw := lines[idx]
		if raw == "" {
			continue
		}
		heading := normalizeHeading(raw)
		if isBreakHeading(heading) {
			if respectBreaks {
				break
			}
			continue
		}
		if skipHeadings.has(heading) {
			continue
		}
		candidate := candidateValue(raw)
		if candidate == "" {
			continue
		}
		if Score(candidate) > 0 {
			return candidate
		}
	}
	return ""
}

func isBreakHeading(heading string) bool {
	for _, b := range breakHeadings {
		if heading == b || strings.HasPrefix(heading, b+" ") {
			return true
		}
	}
	return false
}

func candidateValue(line string) string {
	if v := valueFromHeadingLine(line); v != "" {
		return v
	}
	return cleanCandidate(line)
}

func valueFromHeadingLine(line string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(line, "\u00a0", " "))
	if cleaned == "" {
		return ""
	}

	if m := inlinePattern.FindStringSubmatch(cleaned); m != nil {
		if v := cleanCandidate(m[1]); v != "" {
			return v
		}
	}

	for _, sep := range headingSeparators {
		head, tail, found := strings.Cut(cleaned, sep)
		if !found {
			continue
		}
		if acceptedHeadings.has(normalizeHeading(head)) {
			if v := cleanCandidate(tail); v != "" {
				return v
			}
		}
		break
	}
	return ""
}

func containsKeyword(line string) bool {
	heading := normalizeHeading(line)
	if heading == "" {
		return false
	}
	if acceptedHeadings.has(heading) {
		return true
	}
	return util.ContainsAny(heading, keywordHeadings)
}

// cleanCandidate trims a candidate value and rejects shapes that cannot be a port name.
func cleanCandidate(value string) string {
	stripped := util.CollapseSpaces(strings.Trim(value, " :\t"))
	if stripped == "" {
		return ""
	}
	upper := strings.ToUpper(stripped)

	switch {
	case acceptedHeadings.has(upper), skipHeadings.has(upper):
		return ""
	case strings.ContainsAny(stripped, "@|"):
		return ""
	case strings.Contains(stripped, "/") && !strings.Contains(upper, "PORT"):
		return ""
	case containerShape.MatchString(stripped):
		return ""
	case bareCodeShape.MatchString(stripped) && countDigits(stripped) > 0:
		return ""
	case dateShape.MatchString(stripped), monthDayYear.MatchString(stripped):
		return ""
	}

	if countDigits(stripped) >= 4 && !hasLocationHint(upper) {
		return ""
	}
	if util.ContainsAny(upper, negativeHints) {
		return ""
	}
	if countLetters(stripped) < 2 {
		return ""
	}
	return stripped
}

func hasLocationHint(upper string) bool {
	if util.ContainsAny(upper, digitHints) {
		return true
	}
	for _, s := range stateHints {
		if strings.Contains(upper, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// Score rates how port-like a cleaned candidate looks. Only positive scores are accepted.
func Score(value string) int {
	upper := strings.ToUpper(value)
	score := 0

	if portWord.MatchString(upper) || strings.Contains(upper, "HARBOUR") || strings.Contains(upper, "HARBOR") {
		score += 3
	}
	if util.ContainsAny(upper, facilityHints) {
		score++
	}
	if util.ContainsAny(upper, locationHints) {
		score += 2
	}
	if util.ContainsAny(upper, stateHints) {
		score++
	}
	if strings.Contains(upper, "AUST") {
		score++
	}
	if util.ContainsAny(upper, negativeHints) {
		score -= 2
	}
	return score
}

func sanitizeLine(line string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return ' '
	}, line))
}

// normalizeHeading upper-cases, turns everything but letters, digits, spaces and '/'
// into spaces, and collapses whitespace.
func normalizeHeading(value string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '/' {
			return r
		}
		return ' '
	}, strings.ToUpper(value))
	return strings.TrimRight(util.CollapseSpaces(mapped), ":")
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
