// Package carriers holds the per-carrier delivery-order strategies and assembles them into
// the default registry.
package carriers

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

// Carrier names written to the Shipping Line field.
const (
	NameANL        = "ANL"
	NameBAL        = "BAL"
	NameCOSCO      = "COSCO"
	NameEvergreen  = "EVERGREEN LINE"
	NameHamburgSud = "HAMBURG SUD"
	NameHapag      = "HAPAG LLOYD"
	NameHMM        = "HMM"
	NameONE        = "ONE"
	NameOOCL       = "OOCL"
	NameMaersk     = "MAERSK"
	NameMSC        = "MSC"
	NamePIL        = "PIL"
	NameQuay       = "QUAY"
	NameSwire      = "SWIRE"
	NameTSLines    = "TS LINES"
	NameYangMing   = "YANG MING"
	NameZIM        = "ZIM"
)

// carrier adapts a keyword set and an extraction func to strategy.Strategy.
type carrier struct {
	strategy.KeywordSet
	name    string
	extract func(text string) []internal.RawRecord
}

func (c carrier) Name() string { return c.name }

func (c carrier) Extract(text string) []internal.RawRecord {
	if c.extract == nil {
		return nil
	}
	return c.extract(text)
}

func anyOf(keywords ...string) strategy.KeywordSet {
	return strategy.KeywordSet{List: keywords}
}

// All returns the carrier strategies in priority order. Earlier entries win when a
// document mentions more than one carrier.
func All() []strategy.Strategy {
	return []strategy.Strategy{
		ANL(),
		BAL(),
		COSCO(),
		Evergreen(),
		HamburgSud(),
		HapagLloyd(),
		HMM(),
		ONE(),
		OOCL(),
		Maersk(),
		MSC(),
		PIL(),
		Quay(),
		Swire(),
		TSLines(),
		YangMing(),
		ZIM(),
	}
}

// NewRegistry builds the default registry with the generic fallback.
func NewRegistry() *strategy.Registry {
	return strategy.New(strategy.Generic{}, All()...)
}

// records emits one record per container, all sharing pin and yard.
func records(line string, containers []string, pin, yard string) []internal.RawRecord {
	if len(containers) == 0 {
		return nil
	}
	out := make([]internal.RawRecord, 0, len(containers))
	for _, c := range containers {
		out = append(out, record(line, c, pin, yard))
	}
	return out
}

func record(line, container, pin, yard string) internal.RawRecord {
	return internal.RawRecord{
		internal.FieldShippingLine: line,
		internal.AliasContainer:    container,
		internal.FieldPIN:          pin,
		internal.AliasYard:         yard,
	}
}

// trimmedLines splits text into lines with surrounding whitespace removed.
func trimmedLines(text string) []string {
	lines := util.SplitLines(text)
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// nonBlankLines splits block into lines trimmed of cutset, dropping lines that are blank
// after whitespace trimming.
func nonBlankLines(block, cutset string) []string {
	var out []string
	for _, l := range util.SplitLines(block) {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, strings.Trim(l, cutset))
	}
	return out
}

// labelLine returns the index of the first line whose trimmed upper-case form equals label.
func labelLine(lines []string, label string) (int, bool) {
	for i, l := range lines {
		if strings.ToUpper(strings.TrimSpace(l)) == label {
			return i, true
		}
	}
	return -1, false
}
