package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

var (
	hapagBookingLine = patterns.Compile(patterns.FlagsNone, `[0-9]{7,}`)
	weekdays         = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}
)

func HapagLloyd() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("HAPAG-LLOYD", "HAPAG LLOYD", "HAPAG LIOYD", "HAPAG LLOYD (AUSTRALIA)"),
		name:       NameHapag,
		extract:    extractHapag,
	}
}

func extractHapag(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}
	return records(NameHapag, containers, hapagPIN(text), hapagYard(text))
}

// hapagPIN reads the turn-in reference, which may contain dashes.
func hapagPIN(text string) string {
	token := func(w string) (string, bool) { return patterns.DashDigitToken(w, 4) }
	if pin, ok := patterns.AfterFunc(text, "Reference:", patterns.DefaultWindow, token); ok && pin != "" {
		return pin
	}
	pin, _ := patterns.AfterFunc(text, "Turn-In-Reference", patterns.DefaultWindow, token)
	return pin
}

func hapagYard(text string) string {
	block, _ := patterns.Between(text, "Empty Return Depots", "Remarks")
	var kept []string
	for _, l := range nonBlankLines(block, " :") {
		upper := strings.ToUpper(l)
		if strings.HasPrefix(upper, "HL") && hapagBookingLine.MatchString(l) {
			continue
		}
		if strings.Contains(upper, "TURN-IN-REFERENCE") {
			continue
		}
		if util.HasPrefixAny(upper, weekdays) {
			break
		}
		kept = append(kept, l)
	}
	return util.CollapseSpaces(strings.Join(kept, " "))
}
