package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

func YangMing() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("YANG MING", "YM LINE", "YM (AUSTRALIA)"),
		name:       NameYangMing,
		extract:    extractYangMing,
	}
}

func extractYangMing(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	pin, _ := patterns.AfterFunc(text, "PIN", patterns.DefaultWindow, func(w string) (string, bool) {
		return patterns.DigitToken(w, 6, 20)
	})

	block, _ := patterns.Between(text, "Place of Empty Return", "Status")
	var kept []string
	for _, l := range util.SplitLines(block) {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return records(NameYangMing, containers, pin, util.CollapseSpaces(strings.Join(kept, " ")))
}
