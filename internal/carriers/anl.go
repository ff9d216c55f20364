package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	anlPINLookAhead  = 7
	anlPINLookBack   = 5
	anlYardLookBack  = 7
	anlYardAnchor    = "EMPTY RETURN"
	anlYardEndAnchor = "Turn-In-Ref"
)

var (
	anlPINPatterns = patterns.CompileAll(patterns.FlagsDotAll,
		`\bPIN(?: NUMBER)?\s*[:\-]?\s*(?P<value>[A-Z0-9]{4,12})`,
	)
	anlPINValue = patterns.Compile(patterns.FlagsNone, `^[A-Z0-9]{4,12}$`)

	anlYard = yardSearch{
		rules: yardRules{
			stops: []string{
				"TURN-IN-REF", "D&D", "DEPOSIT", "FREIGHT", "RELEASE", "TOTAL", "PAGE",
				"DELIVERY ORDER", "CONTAINERS", "ADDRESS", "EMAIL", "PHONE",
			},
			date: dayMonthYear,
		},
		anchored: patterns.CompileAll(patterns.FlagsDotAll,
			`EMPTY RETURN (?:ADDRESS|LOCATION|DEPOT)\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
			`RETURN LOCATION\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
			`DEPOT\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
		),
		between: [][2]string{{anlYardAnchor, anlYardEndAnchor}},
	}
)

// ANL handles ANL and CMA-CGM agency delivery orders.
func ANL() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("ANL", "CMA-CGM GROUP AGENCIES"),
		name:       NameANL,
		extract:    extractANL,
	}
}

func extractANL(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	return records(NameANL, containers, anlPIN(text), util.CollapseSpaces(anlYardValue(text)))
}

func anlPIN(text string) string {
	if pin := patterns.FirstValue(text, anlPINPatterns...); pin != "" {
		return pin
	}

	lines := util.SplitLines(text)
	if idx, ok := labelLine(lines, "PIN"); ok {
		if v := anlPINNear(lines, idx); v != "" {
			return v
		}
	}

	pin, _ := patterns.After(text, "PIN", `[A-Z0-9]{4,12}`)
	return pin
}

// anlPINNear looks below and then above a bare "PIN" label line for the code.
func anlPINNear(lines []string, idx int) string {
	for i := idx + 1; i <= idx+anlPINLookAhead && i < len(lines); i++ {
		candidate := strings.TrimSpace(lines[i])
		if candidate == "" {
			continue
		}
		upper := strings.ToUpper(candidate)
		if strings.HasPrefix(upper, "EXP DATE") {
			continue
		}
		if strings.HasPrefix(upper, "WEB LINK") {
			break
		}
		if isPINCode(candidate) {
			return candidate
		}
	}
	for i := idx - 1; i >= idx-anlPINLookBack && i >= 0; i-- {
		candidate := strings.TrimSpace(lines[i])
		if candidate == "" {
			continue
		}
		upper := strings.ToUpper(candidate)
		if strings.HasPrefix(upper, "PIN") {
			continue
		}
		if strings.HasPrefix(upper, "EXP DATE") {
			break
		}
		if isPINCode(candidate) {
			return candidate
		}
	}
	return ""
}

func isPINCode(s string) bool {
	return anlPINValue.MatchString(s) && !patterns.IsContainerCode(s)
}

func anlYardValue(text string) string {
	if v := anlYard.find(text); v != "" {
		return v
	}
	if v := anlYard.rules.collectAfter(text, anlYardAnchor, nil); v != "" {
		return v
	}
	if v := anlYardAbove(text); v != "" {
		return v
	}
	v, _ := patterns.After(text, anlYardAnchor, `[A-Z0-9'&,./-]{3,80}`)
	return v
}

// anlYardAbove reads the address printed above the first yard anchor line, for layouts
// where the label follows its value.
func anlYardAbove(text string) string {
	lines := util.SplitLines(text)
	for pos, line := range lines {
		if !strings.Contains(strings.ToUpper(line), anlYardAnchor) {
			continue
		}
		var kept []string
		for i := pos - 1; i >= pos-anlYardLookBack && i >= 0; i-- {
			candidate := strings.TrimSpace(lines[i])
			if candidate == "" {
				if len(kept) > 0 {
					break
				}
				continue
			}
			if util.HasPrefixAny(strings.ToUpper(candidate), anlYard.rules.stops) {
				if len(kept) > 0 {
					break
				}
				continue
			}
			if anlYard.rules.date.MatchString(candidate) {
				break
			}
			if patterns.IsContainerCode(candidate) {
				continue
			}
			kept = append(kept, candidate)
		}
		for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
			kept[l], kept[r] = kept[r], kept[l]
		}
		return strings.TrimSpace(strings.Join(kept, "\n"))
	}
	return ""
}
