package carriers

import "edoparser/internal/strategy"

// Carriers recognised by keyword whose layouts are not parsed yet. Extract returns no
// records, which keeps their documents away from the generic fallback.

func BAL() strategy.Strategy {
	return carrier{KeywordSet: anyOf("BAL SHIPPING", "BAL TRANSPORT", "BAL TRANSPORT AGENCY"), name: NameBAL}
}

func HamburgSud() strategy.Strategy {
	return carrier{KeywordSet: anyOf("HAMBURG SUD", "HAMBURG SÜD"), name: NameHamburgSud}
}

func Swire() strategy.Strategy {
	return carrier{KeywordSet: anyOf("SWIRE", "SWIRE SHIPPING"), name: NameSwire}
}
