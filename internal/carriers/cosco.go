package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	coscoPINLookAhead = 7
	coscoYardAnchor   = "EMPTY RETURN LOCATION"
)

var (
	coscoPINPatterns = patterns.CompileAll(patterns.FlagsDotAll,
		`\bPIN(?: NUMBER)?\s*[:\-]?\s*(?P<value>[0-9]{4,12})`,
	)
	coscoDigits = patterns.Compile(patterns.FlagsNone, `^[0-9]{4,12}$`)

	coscoYard = yardSearch{
		rules: yardRules{
			stops: []string{"REMARK", "PIN", "CONTAINER", "CARGO", "PLACE OF", "ESTIMATED", "TERMS"},
			date:  isoDate,
		},
		anchored: patterns.CompileAll(patterns.FlagsDotAll,
			`EMPTY RETURN (?:LOCATION|DEPOT)\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
			`RETURN LOCATION\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./-]{3,200})`,
		),
		between:       [][2]string{{coscoYardAnchor, "REMARKS"}},
		collectAnchor: coscoYardAnchor,
		collectSkip:   prefixSkip("EMPTY RETURN"),
	}
)

func COSCO() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("COSCO SHIPPING", "COSCO SHIPPING LINES", "COSCO CONTAINER LINES"),
		name:       NameCOSCO,
		extract:    extractCOSCO,
	}
}

func extractCOSCO(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	yard := coscoYard.find(text)
	if yard == "" {
		yard, _ = patterns.After(text, coscoYardAnchor, `[A-Z0-9'&,./-]{3,80}`)
	}
	return records(NameCOSCO, containers, coscoPIN(text), util.CollapseSpaces(yard))
}

func coscoPIN(text string) string {
	if pin := patterns.FirstValue(text, coscoPINPatterns...); pin != "" {
		return pin
	}

	lines := util.SplitLines(text)
	if idx, ok := labelLine(lines, "PIN"); ok {
		for i := idx + 1; i <= idx+coscoPINLookAhead && i < len(lines); i++ {
			candidate := strings.TrimSpace(lines[i])
			if candidate == "" || strings.HasPrefix(candidate, "*") {
				continue
			}
			if strings.HasPrefix(strings.ToUpper(candidate), "CONTAINER") {
				break
			}
			if coscoDigits.MatchString(candidate) {
				return candidate
			}
		}
	}

	pin, _ := patterns.After(text, "PIN", `[0-9]{4,12}`)
	return pin
}
