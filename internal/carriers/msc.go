package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const mscYardAnchor = "Empty Container Return Depot"

func MSC() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("MEDITERRANEAN SHIPPING COMPANY", "MSC (AUST)", "MSC AUSTRALIA", "MSC"),
		name:       NameMSC,
		extract:    extractMSC,
	}
}

func extractMSC(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	return records(NameMSC, containers, mscPIN(text), mscYard(text))
}

func mscPIN(text string) string {
	token := func(w string) (string, bool) { return patterns.DigitToken(w, 4, 20) }
	if pin, ok := patterns.AfterFunc(text, "E-IDO PIN NUMBER", patterns.DefaultWindow, token); ok && pin != "" {
		return pin
	}
	pin, _ := patterns.AfterFunc(text, "PIN", patterns.DefaultWindow, token)
	return pin
}

func mscYard(text string) string {
	block, _ := patterns.Between(text, mscYardAnchor, "Cargo")
	lines := nonBlankLines(block, " :")
	if len(lines) == 0 {
		if v, ok := patterns.After(text, mscYardAnchor, `[A-Z0-9 ,'/.-]{5,120}`); ok && v != "" {
			lines = []string{v}
		}
	}
	return util.CollapseSpaces(strings.Join(lines, " "))
}
