package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const ooclYardAnchor = "EMPTY RETURN LOCATION"

var (
	ooclPINPatterns = patterns.CompileAll(patterns.FlagsDefault,
		`EMPTY RELEASE PIN(?: NUMBER)?\s*[:\-]?\s*(?P<value>[A-Z0-9]{4,12})`,
		`PICK[\s\-]*UP PIN\s*[:\-]?\s*(?P<value>[A-Z0-9]{4,12})`,
		`PIN(?: NUMBER)?\s*[:\-]?\s*(?P<value>[A-Z0-9]{4,12})`,
	)
	ooclYardTail = patterns.Compile(patterns.FlagsFold, `\b(CONTACT|REMARKS?)\b`)

	ooclYard = yardSearch{
		rules: yardRules{
			stops:     []string{"CONTACT", "REMARK", "PIN", "EMPTY RETURN", "VESSEL"},
			blankEnds: true,
		},
		anchored: patterns.CompileAll(patterns.FlagsDotAll,
			`EMPTY RETURN (?:LOCATION|DEPOT)\s*[:\-]?\s*(?P<value>[\sA-Z0-9 \-/&,()]{3,200})`,
			`EMPTY RETURN TO\s*[:\-]?\s*(?P<value>[\sA-Z0-9 \-/&,()]{3,200})`,
			`RETURN LOCATION\s*[:\-]?\s*(?P<value>[\sA-Z0-9 \-/&,()]{3,200})`,
		),
		between:       [][2]string{{ooclYardAnchor, "REMARKS"}},
		collectAnchor: ooclYardAnchor,
	}
)

func OOCL() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("AGENT OOCL", "OOCL", "ORIENT OVERSEAS"),
		name:       NameOOCL,
		extract:    extractOOCL,
	}
}

func extractOOCL(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)

	pin := patterns.FirstValue(text, ooclPINPatterns...)
	if pin == "" {
		pin, _ = patterns.After(text, "PIN", `[A-Z0-9]{4,12}`)
	}

	yard := ooclYard.find(text)
	if yard == "" {
		yard, _ = patterns.After(text, ooclYardAnchor, `[A-Z0-9 \-/&,()]{3,80}`)
	}
	yard = util.CollapseSpaces(yard)
	if loc := ooclYardTail.FindStringIndex(yard); loc != nil {
		yard = strings.TrimSpace(yard[:loc[0]])
	}
	return records(NameOOCL, containers, pin, yard)
}
