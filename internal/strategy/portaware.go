package strategy

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/port"
)

// PortAliases are the record keys that receive the located port of discharge.
var PortAliases = []string{internal.FieldPortOfDischarge, internal.AliasPortShort, internal.AliasPort}

// PortAware wraps a Strategy and fills the port of discharge into every record the inner
// strategy returns. Keys the inner strategy already set are left alone.
type PortAware struct {
	Inner   Strategy
	Aliases []string
	Locate  func(text string) string
}

// WithPort wraps s with the default aliases and port.Extract. Wrapping twice is a no-op.
func WithPort(s Strategy) Strategy {
	if _, ok := s.(PortAware); ok {
		return s
	}
	return PortAware{Inner: s, Aliases: PortAliases, Locate: port.Extract}
}

func (p PortAware) Name() string           { return p.Inner.Name() }
func (p PortAware) Keywords() []string     { return p.Inner.Keywords() }
func (p PortAware) Match(text string) bool { return p.Inner.Match(text) }

// Unwrap returns the decorated strategy.
func (p PortAware) Unwrap() Strategy { return p.Inner }

func (p PortAware) Extract(text string) []internal.RawRecord {
	records := p.Inner.Extract(text)
	if len(records) == 0 {
		return records
	}

	locate := p.Locate
	if locate == nil {
		locate = port.Extract
	}
	value := locate(text)

	aliases := dedupeAliases(p.Aliases)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, alias := range aliases {
			rec.SetDefault(alias, value)
		}
	}
	return records
}

func dedupeAliases(aliases []string) []string {
	if len(aliases) == 0 {
		aliases = PortAliases
	}
	seen := make(map[string]struct{}, len(aliases))
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
