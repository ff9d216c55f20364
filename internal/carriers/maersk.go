package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	maerskPINLookAhead = 11
	maerskYardAnchor   = "EMPTY CONTAINER"
)

var (
	maerskPIN        = patterns.Compile(patterns.FlagsDotAll, `\bPIN(?: NUMBER)?\s*[:\-]?\s*([0-9]{4,12})`)
	maerskInterimPIN = patterns.Compile(patterns.FlagsDotAll, `\bINTERIM PIN\s*[:\-]?\s*(?P<value>[0-9]{4,12})`)
	maerskInterimTag = patterns.Compile(patterns.FlagsFold, `INTERIM\s$`)
	maerskDigits     = patterns.Compile(patterns.FlagsNone, `^[0-9]{4,12}$`)

	maerskYard = yardSearch{
		rules: yardRules{
			stops: []string{
				"PAGE", "CONSIGNEE", "MERCHANT", "IMPORTS", "DELIVERY ORDER", "PIN",
				"INTERIM PIN", "TRANSPORT",
			},
			date: isoDate,
			skip: prefixSkip("EMPTY CONTAINER", "DEPOT"),
		},
		anchored: patterns.CompileAll(patterns.FlagsDotAll,
			`EMPTY CONTAINER\s*DEPOT\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
			`EMPTY RETURN (?:LOCATION|DEPOT)\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
			`RETURN LOCATION\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
		),
		between:       [][2]string{{maerskYardAnchor, "PAGE"}},
		collectAnchor: maerskYardAnchor,
		collectSkip: func(upper string) bool {
			return strings.HasPrefix(upper, "EMPTY CONTAINER") || upper == "DEPOT"
		},
	}
)

func Maersk() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("MAERSK", "MAERSK A/S", "AP MOLLER"),
		name:       NameMaersk,
		extract:    extractMaersk,
	}
}

func extractMaersk(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	yard := maerskYard.find(text)
	if yard == "" {
		yard, _ = patterns.After(text, maerskYardAnchor, `[A-Z0-9'&,./-]{3,80}`)
	}
	return records(NameMaersk, containers, maerskPINValue(text), util.CollapseSpaces(yard))
}

// maerskPINValue prefers the release PIN over the interim PIN printed next to it.
func maerskPINValue(text string) string {
	if pin := releasePIN(text); pin != "" {
		return pin
	}
	if pin := patterns.FirstValue(text, maerskInterimPIN); pin != "" {
		return pin
	}

	lines := util.SplitLines(text)
	if idx, ok := labelLine(lines, "PIN"); ok {
		for i := idx + 1; i <= idx+maerskPINLookAhead && i < len(lines); i++ {
			candidate := strings.TrimSpace(lines[i])
			if candidate == "" {
				continue
			}
			upper := strings.ToUpper(candidate)
			if strings.HasPrefix(upper, "INTERIM") || strings.HasPrefix(upper, "QUANTITY") {
				continue
			}
			if maerskDigits.MatchString(candidate) {
				return candidate
			}
		}
	}

	if block, ok := patterns.Between(text, "PIN", "INTERIM PIN"); ok {
		if pin, ok := patterns.DigitsNotAfterLetter(block, 4, 12); ok {
			return pin
		}
	}
	pin, _ := patterns.AfterFunc(text, "PIN", patterns.DefaultWindow, func(window string) (string, bool) {
		return patterns.DigitsNotAfterLetter(window, 4, 12)
	})
	return pin
}

// releasePIN returns the first labelled PIN whose label is not "INTERIM PIN".
func releasePIN(text string) string {
	for _, m := range maerskPIN.FindAllStringSubmatchIndex(text, -1) {
		if maerskInterimTag.MatchString(text[:m[0]]) {
			continue
		}
		return strings.TrimSpace(text[m[2]:m[3]])
	}
	return ""
}
