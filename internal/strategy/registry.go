package strategy

import "strings"

// Registry holds carrier strategies in priority order plus a fallback. It is built once
// and never modified, so it can be shared between goroutines.
type Registry struct {
	strategies []Strategy
	fallback   Strategy
}

// New builds a registry. Every strategy, the fallback included, is wrapped with WithPort.
// A nil fallback is replaced by Generic.
func New(fallback Strategy, strategies ...Strategy) *Registry {
	if fallback == nil {
		fallback = Generic{}
	}
	r := &Registry{fallback: WithPort(fallback)}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		r.strategies = append(r.strategies, WithPort(s))
	}
	return r
}

// Select returns the first strategy whose Match accepts text, or the fallback. A
// strategy whose Match panics is treated as not matching.
func (r *Registry) Select(text string) Strategy {
	upper := strings.ToUpper(text)
	for _, s := range r.strategies {
		if safeMatch(s, upper) {
			return s
		}
	}
	return r.fallback
}

// Strategies returns the ordered strategies, fallback excluded.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

func (r *Registry) Fallback() Strategy {
	return r.fallback
}

func safeMatch(s Strategy, text string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return s.Match(text)
}
