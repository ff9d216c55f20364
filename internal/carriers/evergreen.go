package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

var (
	evergreenPunct    = patterns.Compile(patterns.FlagsNone, `[.:]+`)
	evergreenDeadline = patterns.Compile(patterns.FlagsFold, `^by\s+[0-9/]+\s+to\s+`)
)

func Evergreen() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("EVERGREEN LINE", "EVERGREEN MARINE", "EVERGREEN SHIPPING", "EVERGREEN"),
		name:       NameEvergreen,
		extract:    extractEvergreen,
	}
}

func extractEvergreen(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	pin, _ := patterns.After(text, "EIDO Pin", `[0-9]{4,12}`)
	return records(NameEvergreen, containers, pin, evergreenYard(text))
}

// evergreenYard reads the return instruction, dropping its leading "by <date> to".
func evergreenYard(text string) string {
	block, _ := patterns.Between(text, "Please return following container", "Container Number")
	cleaned := strings.TrimSpace(evergreenPunct.ReplaceAllString(block, " "))
	cleaned = evergreenDeadline.ReplaceAllString(cleaned, "")

	var kept []string
	for _, l := range util.SplitLines(cleaned) {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return util.CollapseSpaces(strings.Join(kept, " "))
}
