package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const hmmYardMaxLines = 2

var hmmYardLabels = map[string]bool{"LOCATION": true, "PHONE NO.": true, "TURN-IN REF": true}

func HMM() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("HMM", "HYUNDAI MERCHANT MARINE", "HYUNDAI MERCHANT", "HMM AUSTRALIA"),
		name:       NameHMM,
		extract:    extractHMM,
	}
}

func extractHMM(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	return records(NameHMM, containers, hmmPIN(text, containers), hmmYard(text))
}

// hmmPIN takes the first code in the container table that is not a container number.
func hmmPIN(text string, containers []string) string {
	block, _ := patterns.Between(text, "Container Information", "* EQ Return Facility Information")
	known := make(map[string]bool, len(containers))
	for _, c := range containers {
		known[strings.ToUpper(c)] = true
	}
	for _, tok := range patterns.DigitTokens(block, 4, 20) {
		if !known[strings.ToUpper(tok)] {
			return tok
		}
	}
	return ""
}

func hmmYard(text string) string {
	block, _ := patterns.Between(text, "Location", "Notice")
	var kept []string
	for _, l := range nonBlankLines(block, " :") {
		upper := strings.ToUpper(l)
		if hmmYardLabels[upper] {
			continue
		}
		if strings.HasPrefix(upper, "NOTICE") {
			break
		}
		if cleaned := strings.Trim(strings.ReplaceAll(l, "...", ""), " ."); cleaned != "" {
			kept = append(kept, cleaned)
		}
		if len(kept) >= hmmYardMaxLines {
			break
		}
	}
	return util.CollapseSpaces(strings.Join(kept, " "))
}
