// Package normalize maps strategy output onto the canonical record schema.
package normalize

import (
	"strings"

	"edoparser/internal"
	"edoparser/internal/util"
)

// Alias keys per canonical field, in lookup order.
var (
	shippingLineKeys = []string{internal.FieldShippingLine}
	containerKeys    = []string{internal.FieldContainerNumber, internal.AliasCTNNumber, internal.AliasContainer}
	pinKeys          = []string{internal.FieldPIN, internal.AliasEDOPIN}
	emptyParkKeys    = []string{internal.FieldEmptyPark, internal.AliasYard}
	portKeys         = []string{internal.FieldPortOfDischarge, internal.AliasPortShort, internal.AliasPort}
	previewKeys      = []string{internal.FieldPreviewLink, internal.AliasPerview, internal.AliasViewURL}
)

// YardSynonyms maps an upper-cased, space-collapsed yard name to its display form.
var YardSynonyms = map[string]string{
	"BOTANY 1":      "Botany Park 1",
	"BOTANY PARK 1": "Botany Park 1",
	"BOTANY PARK I": "Botany Park 1",
}

// Apply normalizes every record. Input records are not modified.
func Apply(records []internal.RawRecord) []internal.CanonicalRecord {
	out := make([]internal.CanonicalRecord, 0, len(records))
	for _, r := range records {
		out = append(out, Record(r))
	}
	return out
}

// Record normalizes a single record.
func Record(r internal.RawRecord) internal.CanonicalRecord {
	return internal.CanonicalRecord{
		ShippingLine:    util.NormalizeUpperNoSpace(pick(r, shippingLineKeys)),
		ContainerNumber: util.NormalizeUpperNoSpace(pick(r, containerKeys)),
		PIN:             strings.ToUpper(strings.TrimSpace(pick(r, pinKeys))),
		EmptyPark:       Yard(pick(r, emptyParkKeys)),
		PortOfDischarge: strings.TrimSpace(pick(r, portKeys)),
		PreviewLink:     strings.TrimSpace(pick(r, previewKeys)),
	}
}

// Yard collapses whitespace and applies YardSynonyms.
func Yard(value string) string {
	collapsed := util.CollapseSpaces(value)
	if v, ok := YardSynonyms[strings.ToUpper(collapsed)]; ok {
		return v
	}
	return collapsed
}

func pick(r internal.RawRecord, keys []string) string {
	for _, k := range keys {
		if v := r[k]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
