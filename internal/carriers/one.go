package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	oneYardAnchor = "EMPTY RETURN"
	// oneYardLines is how many lines after the anchor line are read.
	oneYardLines = 9
)

var (
	onePINPatterns = patterns.CompileAll(patterns.FlagsDefault,
		`\bPIN(?: NUMBER)?\s*[:\-]?\s*(?P<value>[A-Z0-9]{4,12})`,
	)
	onePINValue  = patterns.Compile(patterns.FlagsNone, `^[A-Z0-9]{4,12}$`)
	oneTelSuffix = patterns.Compile(patterns.FlagsFold, `\(TEL.*$`)
	oneYardStops = []string{"SEAL", "TOTAL", "ENS", "PAGE", "SECURE", "SIGNED BY", "NOTICE"}
)

// ONE only matches when every keyword is present.
func ONE() strategy.Strategy {
	return carrier{
		KeywordSet: strategy.KeywordSet{List: []string{"OCEAN NETWORK EXPRESS"}, All: true},
		name:       NameONE,
		extract:    extractONE,
	}
}

func extractONE(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	return records(NameONE, containers, onePIN(text), util.CollapseSpaces(oneYard(text)))
}

func onePIN(text string) string {
	if pin := patterns.FirstValue(text, onePINPatterns...); pin != "" {
		return pin
	}
	lines := util.SplitLines(text)
	for idx, line := range lines {
		if !strings.Contains(strings.ToUpper(line), "PIN") {
			continue
		}
		candidate := line
		if _, after, found := strings.Cut(line, ":"); found {
			candidate = after
		}
		candidate = strings.TrimSpace(candidate)
		if onePINValue.MatchString(candidate) {
			return candidate
		}
		if idx+1 < len(lines) {
			if next := strings.TrimSpace(lines[idx+1]); onePINValue.MatchString(next) {
				return next
			}
		}
	}
	return ""
}

// oneYard splits the return block into the depot name, which ends at the first closing
// parenthesis, and the street address that follows it.
func oneYard(text string) string {
	idx, ok := patterns.IndexFold(text, oneYardAnchor)
	if !ok {
		return ""
	}
	lines := util.SplitLines(text[idx:])
	if len(lines) == 0 {
		return ""
	}

	var location, address []string
	closed := false
	if _, after, found := strings.Cut(lines[0], ":"); found {
		if initial := strings.TrimSpace(after); initial != "" {
			location = append(location, initial)
			closed = strings.Contains(initial, ")")
		}
	}

	end := len(lines)
	if end > oneYardLines+1 {
		end = oneYardLines + 1
	}
	for _, raw := range lines[1:end] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if util.HasPrefixAny(upper, oneYardStops) {
			break
		}
		if strings.HasPrefix(upper, "ADDRESS") {
			_, after, found := strings.Cut(line, ":")
			if !found {
				after = line
			}
			address = append(address, strings.TrimSpace(after))
			continue
		}
		if !closed {
			location = append(location, line)
			closed = strings.Contains(line, ")")
			continue
		}
		address = append(address, line)
	}

	loc := strings.TrimSpace(strings.Join(location, " "))
	addr := strings.TrimSpace(strings.Join(address, " "))
	if addr != "" {
		addr = strings.TrimSpace(oneTelSuffix.ReplaceAllString(addr, ""))
	}
	if loc == "" {
		return addr
	}
	if addr != "" && strings.Contains(loc, addr) {
		loc = strings.TrimSpace(strings.ReplaceAll(loc, addr, ""))
	}
	return loc
}
