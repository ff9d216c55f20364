package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	tsColContainer = "CONTAINER NO."
	tsColPIN       = "PIN"
	tsColYard      = "EMPTY RETURN"
	tsPINMin       = 4
	tsPINMax       = 16
)

// tsTableHeaders is the column header block of the container table, one header per line.
var tsTableHeaders = []string{tsColContainer, tsColPIN, "TYPE", "REEFER", "HAZ/DG", "SEAL", "WEIGHT", tsColYard}

var tsPINLabel = patterns.Compile(patterns.FlagsFold, `\bPIN\s*[:\-]?\s*`)

// TSLines reads the container table and emits a single record.
func TSLines() strategy.Strategy {
	return carrier{
		KeywordSet: anyOf("T.S. LINES", "TS LINES", "TSL - IMPORT DELIVERY ORDER"),
		name:       NameTSLines,
		extract:    extractTSLines,
	}
}

func extractTSLines(text string) []internal.RawRecord {
	table := tsTable(text)

	container := table[tsColContainer]
	if container == "" {
		if cs := patterns.ContainerCandidates(text); len(cs) > 0 {
			container = cs[0]
		}
	}
	container = strings.ToUpper(container)
	if container == "" {
		return nil
	}

	pin := table[tsColPIN]
	if pin == "" {
		pin = tsFallbackPIN(text)
	}
	yard := util.CollapseSpaces(table[tsColYard])

	return []internal.RawRecord{record(NameTSLines, container, strings.ToUpper(pin), yard)}
}

// tsTable maps each header to the value printed in the same position after the header
// block. It returns nil when no complete header block is followed by values.
func tsTable(text string) map[string]string {
	lines := trimmedLines(text)
	for start, line := range lines {
		if strings.ToUpper(line) != tsColContainer || !tsHeadersAt(lines, start) {
			continue
		}
		values := tsValues(lines, start+len(tsTableHeaders))
		if len(values) == 0 {
			continue
		}
		table := make(map[string]string, len(tsTableHeaders))
		for i, h := range tsTableHeaders {
			if i < len(values) {
				table[h] = values[i]
			}
		}
		return table
	}
	return nil
}

func tsHeadersAt(lines []string, start int) bool {
	for offset, header := range tsTableHeaders {
		idx := start + offset
		if idx >= len(lines) || strings.ToUpper(lines[idx]) != header {
			return false
		}
	}
	return true
}

func tsValues(lines []string, start int) []string {
	var values []string
	for i := start; i < len(lines) && len(values) < len(tsTableHeaders); i++ {
		if lines[i] == "" {
			continue
		}
		values = append(values, lines[i])
	}
	return values
}

func tsFallbackPIN(text string) string {
	for _, loc := range tsPINLabel.FindAllStringIndex(text, -1) {
		v, ok := patterns.CodeWithDigitAt(text, loc[1], tsPINMin, tsPINMax)
		if !ok {
			continue
		}
		v = strings.ToUpper(v)
		if patterns.IsCodeWithDigit(v, tsPINMin, tsPINMax) {
			return v
		}
		return ""
	}
	return ""
}
