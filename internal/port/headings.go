package port

type set map[string]struct{}

func newSet(values ...string) set {
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

// Headings whose value on the same line, or on a nearby line, is the discharge port.
var acceptedHeadings = newSet(
	"PORT OF DISCHARGE",
	"DISCHARGE PORT",
	"PORT OF DESTINATION",
	"PORT OF DEST",
	"PORT OF DESTN",
	"PORT OF DESTINATION / ETA",
	"PORT OF DESTINATION/ETA",
	"PORT",
	"PORT DESTINATION",
	"PORT DESTINATION / ETA",
	"POD",
	"P O D",
	"PORT OF ARRIVAL",
	"DESTINATION",
	"FINAL DESTINATION",
)

// Substrings that mark a line as a discharge-port heading.
var keywordHeadings = []string{
	"PORT OF DISCHARGE",
	"DISCHARGE PORT",
	"PORT OF DESTINATION",
	"PORT OF DEST",
	"PORT OF DESTN",
	"PORT DESTINATION",
	"FINAL DESTINATION",
}

// Label lines that never carry a port value.
var skipHeadings = newSet(
	"ETA",
	"ETD",
	"ATA",
	"ATD",
	"DATE",
	"VESSEL",
	"VESSEL / VOYAGE",
	"VESSEL / VOYAGE / LLOYDS",
	"VESSEL VOYAGE",
	"VOYAGE",
	"PLACE OF DELIVERY",
	"PLACE OF EMPTY RETURN",
	"PLACE OF RECEIPT",
	"PLACE OF RECEIPT / DEL",
	"PLACE OF DELIVERY / RETURN",
	"CONSIGNEE",
	"SHIPPER",
	"CARGO OPERATOR",
	"TERMINAL",
	"PIN",
	"PIN CODE",
	"PIN NUMBER",
	"PIN CODE / RELEASE",
	"CONTAINER",
	"CONTAINER NO",
	"CONTAINER NUMBER",
	"CONTAINER PLACE OF AVAILABILITY",
	"BILL OF LADING",
	"BILL OF LADING NUMBER",
	"BOOKING NUMBER",
	"BOOKING NO",
	"IMPORT DELIVERY ORDER",
	"DELIVERY ORDER",
	"DESCRIPTION",
	"DETAILS",
	"NOTES",
	"REFERENCE",
	"REF",
	"NOTICE",
	"CARGO RELEASED TO",
	"IMO NUMBER",
)

// Headings of a different port field; a scan stops when it reaches one.
var breakHeadings = []string{
	"PORT OF LOADING",
	"PORT OF LOAD",
	"LOAD PORT",
	"LOADING PORT",
	"EXPORT PORT",
	"PORT OF ORIGIN",
	"PLACE OF RECEIPT",
}

var stateHints = []string{" NSW", " VIC", " QLD", " WA", " SA", " NT", " TAS", " ACT"}

var locationHints = []string{
	"SYD",
	"MELB",
	"MEL ",
	"BRIS",
	"BNE",
	"ADELAIDE",
	"ADE ",
	"FREMANTLE",
	"FREM",
	"PERTH",
	"BOTANY",
	"PORT KEMBLA",
	"PORT MELBOURNE",
	"PORT HEDLAND",
	"PORTLAND",
	"GEELONG",
	"NEWCASTLE",
	"DARWIN",
	"HOBART",
	"TOWNSVILLE",
	"GLADSTONE",
	"MACKAY",
}

// Company and depot words that point away from a port name.
var negativeHints = []string{
	"SHIPPING",
	"LOGISTICS",
	"LINES",
	" LINE",
	"PTY LTD",
	"LIMITED",
	"DEPOT",
	"EMPTY",
	"RETURN",
	"AVAILABILITY",
	"ECP",
}

var facilityHints = []string{"TERMINAL", "WHARF", "GATE", "BERTH", "DOCK"}

var digitHints = append([]string{"PORT", "AUSTRALIA", "AUST"}, locationHints...)
