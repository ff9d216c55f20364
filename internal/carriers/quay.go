package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

var (
	quayContainerLine = patterns.Compile(patterns.FlagsFold, `^CONTAINER\s*[:\-]?\s*([A-Z]{4}\d{7})$`)
	quayPINLine       = patterns.Compile(patterns.FlagsFold, `^PIN(?: NUMBER)?\s*[:\-]?\s*([A-Z0-9]{4,12})$`)
	quayPINPatterns   = patterns.CompileAll(patterns.FlagsDefault, `\bPIN(?: NUMBER)?\s*[:\-]?\s*([A-Z0-9]{4,12})`)

	quayYard = yardSearch{
		rules: yardRules{
			stops: []string{
				"TYPE", "SEAL", "GENRL", "HAZARD", "REEFER", "PACKS", "GOODS DESCRIPTION",
				"SIGNATURE", "FOR TERMINAL USE ONLY", "CONTAINER OR SEAL RECEIVED DAMAGED",
				"DETENTION CHARGES",
			},
		},
		anchored: patterns.CompileAll(patterns.FlagsDotAll,
			`EMPTY CONTAINER TO BE RETURNED TO\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./()-]{3,200})`,
			`EMPTY RETURN (?:LOCATION|DEPOT)\s*[:\-]?\s*(?P<value>[\sA-Z0-9'&,./()-]{3,200})`,
		),
		between: [][2]string{{"Empty Container to be Returned to", "Type"}},
	}
)

// Quay prints each container with its own PIN, so records are built from line pairs.
func Quay() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("QUAY SHIPPING", "QUAY-SHIPPING", "QUAY SHIPPING AUSTRALIA"),
		name:       NameQuay,
		extract:    extractQuay,
	}
}

type containerPIN struct {
	container string
	pin       string
}

func extractQuay(text string) []internal.RawRecord {
	pairs := quayPairs(text)
	if len(pairs) == 0 {
		containers := patterns.ContainerCandidates(text)
		if len(containers) == 0 {
			return nil
		}
		pin := quayFallbackPIN(text)
		for _, c := range containers {
			pairs = append(pairs, containerPIN{container: c, pin: pin})
		}
	}

	yard := util.CollapseSpaces(quayYard.find(text))
	out := make([]internal.RawRecord, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, record(NameQuay, p.container, p.pin, yard))
	}
	return out
}

// quayPairs pairs each "CONTAINER: X" line with the next "PIN: Y" line.
func quayPairs(text string) []containerPIN {
	var pairs []containerPIN
	pending := ""
	for _, line := range trimmedLines(text) {
		if line == "" {
			continue
		}
		if m := quayContainerLine.FindStringSubmatch(line); m != nil {
			pending = strings.ToUpper(m[1])
			continue
		}
		if pending == "" {
			continue
		}
		if m := quayPINLine.FindStringSubmatch(line); m != nil {
			pairs = append(pairs, containerPIN{container: pending, pin: strings.ToUpper(m[1])})
			pending = ""
		}
	}
	return pairs
}

func quayFallbackPIN(text string) string {
	if pin := patterns.FirstValue(text, quayPINPatterns...); pin != "" {
		return strings.ToUpper(pin)
	}
	pin, _ := patterns.After(text, "PIN", `[A-Z0-9]{4,12}`)
	return strings.ToUpper(pin)
}
