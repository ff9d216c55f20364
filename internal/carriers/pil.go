package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	pilPINLookAhead = 12
	pilPINMin       = 4
	pilPINMax       = 16
	pilYardAnchor   = "PLACE OF EMPTY RETURN"
)

var (
	pilPINLabel      = patterns.Compile(patterns.FlagsDefault, `\bPIN(?: NUMBER)?\s*[:\-]?\s*`)
	pilPINLabelShort = patterns.Compile(patterns.FlagsDefault, `^PIN\s*[:\-]?\s*`)

	pilYardRules = yardRules{
		stops: []string{"STATUS", "TERMS & CONDITIONS", "DELIVERY ORDER", "ISSUED BY", "GOODS DETAILS", "ITEM NO"},
	}
)

func PIL() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("PACIFIC INTERNATIONAL LINES", "PIL AUSTRALIA", "PILSHIP.COM.AU"),
		name:       NamePIL,
		extract:    extractPIL,
	}
}

func extractPIL(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	return records(NamePIL, containers, pilPIN(text), util.CollapseSpaces(pilYard(text)))
}

// pilPIN reads a PIN that must contain a digit, so labels like "PIN NUMBER" are not
// taken for the value.
func pilPIN(text string) string {
	if pin, ok := pilLabelledPIN(text); ok {
		return pin
	}

	lines := trimmedLines(text)
	for idx, line := range lines {
		if line == "" || !strings.HasPrefix(strings.ToUpper(line), "PIN") {
			continue
		}
		if v, ok := patterns.CodeWithDigit(line, pilPINMin, pilPINMax); ok {
			return strings.ToUpper(v)
		}
		if v := pilPINBelow(lines, idx+1); v != "" {
			return v
		}
	}
	return ""
}

// pilLabelledPIN finds the first "PIN" label directly followed by a code with a digit.
// ok is true once such a label is found, even if the value fails validation.
func pilLabelledPIN(text string) (string, bool) {
	for _, loc := range pilPINLabel.FindAllStringIndex(text, -1) {
		v, found := patterns.CodeWithDigitAt(text, loc[1], pilPINMin, pilPINMax)
		if !found {
			// The optional NUMBER word may itself be the value.
			if m := pilPINLabelShort.FindStringIndex(text[loc[0]:]); m != nil {
				v, found = patterns.CodeWithDigitAt(text, loc[0]+m[1], pilPINMin, pilPINMax)
			}
		}
		if !found {
			continue
		}
		v = strings.ToUpper(strings.TrimSpace(v))
		if patterns.IsCodeWithDigit(v, pilPINMin, pilPINMax) {
			return v, true
		}
		return "", false
	}
	return "", false
}

func pilPINBelow(lines []string, start int) string {
	for i := start; i < start+pilPINLookAhead && i < len(lines); i++ {
		candidate := lines[i]
		if candidate == "" || strings.HasSuffix(candidate, ":") {
			continue
		}
		if patterns.IsCodeWithDigit(candidate, pilPINMin, pilPINMax) {
			return strings.ToUpper(candidate)
		}
	}
	return ""
}

func pilYard(text string) string {
	lines := trimmedLines(text)
	for idx, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), pilYardAnchor) {
			return pilYardRules.sanitize(strings.Join(lines[idx+1:], "\n"))
		}
	}
	return ""
}
