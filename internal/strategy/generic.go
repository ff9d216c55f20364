package strategy

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/patterns"
	"edoparser/internal/util"
)

const GenericName = "generic"

var (
	genericPIN  = patterns.Compile(patterns.FlagsDefault, `\bP?IN\b[:\s-]*([A-Z0-9]{4,12})\b`)
	genericYard = patterns.Compile(patterns.FlagsDefault, `\b(?:Depot|Terminal|Yard|Park|Port|Botany)\b[\w \t-]*`)
)

// genericPortHeadings mark a yard-word match that is really a port label.
var genericPortHeadings = []string{"PORT OF", "PORT:"}

// Generic is the fallback used when no carrier matches. It always matches and takes the
// first labelled PIN and the first yard-like phrase in the document.
type Generic struct{}

func (Generic) Name() string           { return GenericName }
func (Generic) Keywords() []string     { return nil }
func (Generic) Match(text string) bool { return true }

func (Generic) Extract(text string) []internal.RawRecord {
	containers := patterns.ContainerCandidates(text)
	if len(containers) == 0 {
		return nil
	}

	pin := genericPINValue(text)
	yard := genericYardValue(text)

	out := make([]internal.RawRecord, 0, len(containers))
	for _, c := range containers {
		out = append(out, internal.RawRecord{
			internal.AliasContainer: c,
			internal.FieldPIN:       pin,
			internal.AliasYard:      yard,
		})
	}
	return out
}

// genericPINValue takes the first labelled token that has a digit and is not a
// container code.
func genericPINValue(text string) string {
	for _, m := range genericPIN.FindAllStringSubmatch(text, -1) {
		v := strings.ToUpper(m[1])
		if patterns.IsContainerCode(v) || !strings.ContainsAny(v, "0123456789") {
			continue
		}
		return v
	}
	return ""
}

func genericYardValue(text string) string {
	for _, m := range genericYard.FindAllString(text, -1) {
		v := util.CollapseSpaces(m)
		if v == "" || util.HasPrefixAny(strings.ToUpper(v), genericPortHeadings) {
			continue
		}
		return v
	}
	return ""
}
