package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

var zimLabelLines = map[string]bool{"PICKUP DEPOT": true, "PICKUP ADDRESS": true, "DEPOT ADDRESS": true}

func ZIM() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("ZIM INTEGRATED SHIPPING", "ZIM INTEGRATED", "ZIM"),
		name:       NameZIM,
		extract:    extractZIM,
	}
}

func extractZIM(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	pin, _ := patterns.AfterFunc(text, "PIN Code", patterns.DefaultWindow, func(w string) (string, bool) {
		return patterns.DigitToken(w, 4, 20)
	})
	return records(NameZIM, containers, pin, zimYard(text))
}

// zimYard reads the depot block, putting the facility name first and the gate line
// second.
func zimYard(text string) string {
	block, _ := patterns.Between(text, "Pickup Depot", "Return Depot")
	var lines []string
	for _, l := range nonBlankLines(block, " :") {
		if zimLabelLines[strings.ToUpper(l)] {
			continue
		}
		if cleaned := strings.Trim(l, " ."); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	ordered := []string{lines[0]}
	for _, l := range lines {
		if strings.Contains(strings.ToUpper(l), "GATE") {
			ordered = appendNew(ordered, l)
			break
		}
	}
	for _, l := range lines[1:] {
		ordered = appendNew(ordered, l)
	}
	return util.CollapseSpaces(strings.Join(ordered, " "))
}

func appendNew(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
