// Package strategy defines the carrier strategy contract, the port-of-discharge
// decorator, the generic fallback and the ordered registry that picks a strategy for a
// document.
package strategy

import (
	"edoparser/internal"
	"edoparser/internal/util"
)

// Strategy recognises one carrier's delivery-order layout and extracts raw records from it.
// Implementations are stateless and safe for concurrent use.
type Strategy interface {
	// Name is the carrier name written to the Shipping Line field.
	Name() string

	// Keywords returns the phrases Match looks for.
	Keywords() []string

	// Match reports whether text belongs to this carrier.
	Match(text string) bool

	// Extract returns one record per detected container, or nil when no container is found.
	Extract(text string) []internal.RawRecord
}

// KeywordSet implements Keywords and Match for carriers that recognise documents by
// substring. With All set every keyword must appear; otherwise any one is enough.
// Comparison is case-insensitive and ignores diacritics.
type KeywordSet struct {
	List []string
	All  bool
}

func (k KeywordSet) Keywords() []string {
	out := make([]string, len(k.List))
	copy(out, k.List)
	return out
}

func (k KeywordSet) Match(text string) bool {
	if len(k.List) == 0 {
		return false
	}
	folded := util.FoldCase(text)
	for _, kw := range k.List {
		found := containsFolded(folded, kw)
		if k.All && !found {
			return false
		}
		if !k.All && found {
			return true
		}
	}
	return k.All
}

func containsFolded(folded, keyword string) bool {
	kw := util.FoldCase(keyword)
	if kw == "" {
		return false
	}
	_, ok := util.FindFirstIndex(folded, kw)
	return ok
}
