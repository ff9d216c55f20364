package carriers

import (
	"strings"
	"testing"

	"edoparser/internal"
	"edoparser/internal/normalize"
	"edoparser/internal/strategy"
)

type want struct {
	container string
	pin       string
	yard      string
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestRegistryOrder(t *testing.T) {
	reg := NewRegistry()
	var got []string
	for _, s := range reg.Strategies() {
		got = append(got, s.Name())
	}
	expected := []string{
		NameANL, NameBAL, NameCOSCO, NameEvergreen, NameHamburgSud, NameHapag, NameHMM, NameONE,
		NameOOCL, NameMaersk, NameMSC, NamePIL, NameQuay, NameSwire, NameTSLines, NameYangMing, NameZIM,
	}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Fatalf("got %q", got)
	}
	if reg.Fallback().Name() != strategy.GenericName {
		t.Fatalf("fallback=%q", reg.Fallback().Name())
	}
}

func TestCarrierExtraction(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		strategy string
		want     []want
	}{
		{
			name:     "anl",
			strategy: NameANL,
			text: lines(
				"ANL Container Line Pty Ltd",
				"DELIVERY ORDER",
				"PIN: AB12CD",
				"EMPTY RETURN LOCATION: Botany Park 1",
				"",
				"CONTAINERS",
				"CONU1234567",
			),
			want: []want{{"CONU1234567", "AB12CD", "Botany Park 1"}},
		},
		{
			name:     "anl one field per line",
			strategy: NameANL,
			text: lines(
				"ANL",
				"PIN: AB12CD",
				"EMPTY RETURN LOCATION: Botany Park 1",
				"CONU1234567",
			),
			want: []want{{"CONU1234567", "AB12CD", "Botany Park 1"}},
		},
		{
			name:     "anl single line",
			strategy: NameANL,
			text:     "ANL ... PIN: AB12CD ... EMPTY RETURN LOCATION: Botany Park 1 ... CONU1234567",
			want:     []want{{"CONU1234567", "AB12CD", "Botany Park 1"}},
		},
		{
			name:     "anl pin below label",
			strategy: NameANL,
			text: lines(
				"ANL",
				"PIN",
				"EXP DATE 01-JAN-25",
				"ZX81QP",
				"TGHU1234567",
				"",
				"12 Foo Street",
				"BOTANY NSW",
				"EMPTY RETURN",
				"Turn-In-Ref 5",
			),
			want: []want{{"TGHU1234567", "ZX81QP", "12 Foo Street BOTANY NSW"}},
		},
		{
			name:     "cosco shared pin",
			strategy: NameCOSCO,
			text: lines(
				"COSCO SHIPPING LINES (OCEANIA)",
				"PIN: 778899",
				"EMPTY RETURN LOCATION: PATRICK TERMINAL",
				"PORT BOTANY NSW 2036",
				"REMARKS: detention applies",
				"Container TGHU1234567",
				"Container FCIU7654321",
			),
			want: []want{
				{"TGHU1234567", "778899", "PATRICK TERMINAL PORT BOTANY NSW 2036"},
				{"FCIU7654321", "778899", "PATRICK TERMINAL PORT BOTANY NSW 2036"},
			},
		},
		{
			name:     "maersk ignores interim pin",
			strategy: NameMaersk,
			text: lines(
				"MAERSK A/S",
				"INTERIM PIN: 1111",
				"PIN: 2222",
				"EMPTY CONTAINER DEPOT",
				"CHIPPING NORTON DEPOT",
				"10 PERSIC ST",
				"BELMORE NSW",
				"PAGE 1",
				"MSKU1234567",
			),
			want: []want{{"MSKU1234567", "2222", "CHIPPING NORTON DEPOT 10 PERSIC ST BELMORE NSW"}},
		},
		{
			name:     "one",
			strategy: NameONE,
			text: lines(
				"OCEAN NETWORK EXPRESS (AUSTRALIA) PTY LTD",
				"PIN : 5544AB",
				"EMPTY RETURN DEPOT: PATRICK PORTSIDE (PORT BOTANY)",
				"ADDRESS: 1 FORESHORE ROAD BOTANY (TEL 02 1234)",
				"SEAL NO 1234",
				"ONEU1234567",
			),
			want: []want{{"ONEU1234567", "5544AB", "PATRICK PORTSIDE (PORT BOTANY)"}},
		},
		{
			name:     "oocl",
			strategy: NameOOCL,
			text: lines(
				"AGENT OOCL (AUSTRALIA) PTY LTD",
				"EMPTY RELEASE PIN: 7X7X99",
				"PICKUP PIN: 1111AA",
				"EMPTY RETURN LOCATION: PATRICK TERMINAL",
				"PORT BOTANY",
				"CONTACT: 02 9999 0000",
				"OOLU1234567",
			),
			want: []want{{"OOLU1234567", "7X7X99", "PATRICK TERMINAL PORT BOTANY"}},
		},
		{
			name:     "pil labelled",
			strategy: NamePIL,
			text: lines(
				"PACIFIC INTERNATIONAL LINES (PTE) LTD",
				"PIN NUMBER",
				"Z9Y8X7",
				"PLACE OF EMPTY RETURN",
				"DP WORLD WEST SWANSON",
				"Status: Released",
				"PCIU1234567",
			),
			want: []want{{"PCIU1234567", "Z9Y8X7", "DP WORLD WEST SWANSON"}},
		},
		{
			name:     "pil pin lines below",
			strategy: NamePIL,
			text: lines(
				"PILSHIP.COM.AU",
				"PIN:",
				"ABCDEF",
				"a1b2c3d4",
				"PCIU1234567",
			),
			want: []want{{"PCIU1234567", "A1B2C3D4", ""}},
		},
		{
			name:     "quay pairs",
			strategy: NameQuay,
			text: lines(
				"QUAY SHIPPING AUSTRALIA",
				"CONTAINER: TCLU1111111",
				"PIN: aaa111",
				"CONTAINER: TCLU2222222",
				"PIN NUMBER: BBB222",
				"Empty Container to be Returned to:",
				"QUBE DEPOT",
				"Type 40HC",
			),
			want: []want{
				{"TCLU1111111", "AAA111", "QUBE DEPOT"},
				{"TCLU2222222", "BBB222", "QUBE DEPOT"},
			},
		},
		{
			name:     "ts lines table",
			strategy: NameTSLines,
			text: lines(
				"T.S. LINES",
				"TSL - IMPORT DELIVERY ORDER",
				"CONTAINER NO.",
				"PIN",
				"TYPE",
				"REEFER",
				"HAZ/DG",
				"SEAL",
				"WEIGHT",
				"EMPTY RETURN",
				"TSLU1234567",
				"a1b2c3",
				"40HC",
				"N",
				"",
				"N",
				"SL998877",
				"21000",
				"CHIPPING NORTON   DEPOT",
				"TSLU7654321",
			),
			want: []want{{"TSLU1234567", "A1B2C3", "CHIPPING NORTON DEPOT"}},
		},
		{
			name:     "zim",
			strategy: NameZIM,
			text: lines(
				"ZIM INTEGRATED SHIPPING SERVICES",
				"PIN Code: 48213307",
				"Pickup Depot",
				"Pickup Address",
				"DP World Terminal.",
				"Gate B, Foreshore Rd",
				"Return Depot",
				"ZIMU1234567",
			),
			want: []want{{"ZIMU1234567", "48213307", "DP World Terminal Gate B, Foreshore Rd"}},
		},
		{
			name:     "msc",
			strategy: NameMSC,
			text: lines(
				"MSC MEDITERRANEAN SHIPPING COMPANY",
				"E-IDO PIN NUMBER: 99887766",
				"Empty Container Return Depot:",
				"  QUBE MOOREBANK",
				"Cargo details",
				"MEDU1234567",
			),
			want: []want{{"MEDU1234567", "99887766", "QUBE MOOREBANK"}},
		},
		{
			name:     "hmm",
			strategy: NameHMM,
			text: lines(
				"HMM Co., Ltd",
				"Container Information",
				"HMMU1234567",
				"7766AB",
				"* EQ Return Facility Information",
				"Location",
				"Phone No.",
				"PATRICK TERMINALS...",
				"PORT BOTANY",
				"EXTRA LINE",
				"Notice",
			),
			want: []want{{"HMMU1234567", "7766AB", "PATRICK TERMINALS PORT BOTANY"}},
		},
		{
			name:     "hapag",
			strategy: NameHapag,
			text: lines(
				"Hapag-Lloyd (Australia) Pty Ltd",
				"Turn-In-Reference: HLR-558812",
				"Empty Return Depots",
				"HLCU1234567 booking",
				"ACFS PORT LOGISTICS",
				"Monday to Friday 0700-1500",
				"Remarks",
				"HLXU1234567",
			),
			want: []want{
				{"HLCU1234567", "HLR-558812", "ACFS PORT LOGISTICS"},
				{"HLXU1234567", "HLR-558812", "ACFS PORT LOGISTICS"},
			},
		},
		{
			name:     "evergreen",
			strategy: NameEvergreen,
			text: lines(
				"EVERGREEN LINE",
				"EIDO Pin: 123456",
				"Please return following container by 12/05/2024 to: Patrick Terminal. Port Botany",
				"Container Number",
				"EGHU1234567",
			),
			want: []want{{"EGHU1234567", "123456", "Patrick Terminal Port Botany"}},
		},
		{
			name:     "yang ming",
			strategy: NameYangMing,
			text: lines(
				"YANG MING MARINE TRANSPORT",
				"PIN: 88AB771",
				"Place of Empty Return",
				"QUBE LOGISTICS",
				"MOOREBANK",
				"Status: Released",
				"YMLU1234567",
			),
			want: []want{{"YMLU1234567", "88AB771", "QUBE LOGISTICS MOOREBANK"}},
		},
	}

	reg := NewRegistry()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := reg.Select(tc.text)
			if s.Name() != tc.strategy {
				t.Fatalf("selected %q want %q", s.Name(), tc.strategy)
			}
			got := s.Extract(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("records=%d want %d: %v", len(got), len(tc.want), got)
			}
			for i, w := range tc.want {
				r := got[i]
				if r[internal.FieldShippingLine] != tc.strategy {
					t.Fatalf("record %d shipping line=%q", i, r[internal.FieldShippingLine])
				}
				if r[internal.AliasContainer] != w.container {
					t.Fatalf("record %d container=%q want %q", i, r[internal.AliasContainer], w.container)
				}
				if r[internal.FieldPIN] != w.pin {
					t.Fatalf("record %d pin=%q want %q", i, r[internal.FieldPIN], w.pin)
				}
				if r[internal.AliasYard] != w.yard {
					t.Fatalf("record %d yard=%q want %q", i, r[internal.AliasYard], w.yard)
				}
				if _, ok := r[internal.FieldPortOfDischarge]; !ok {
					t.Fatalf("record %d has no port key", i)
				}
			}
		})
	}
}

func TestANLRecordNormalizes(t *testing.T) {
	text := lines(
		"ANL Container Line Pty Ltd",
		"PIN: ab12cd",
		"EMPTY RETURN LOCATION: BOTANY PARK I",
		"",
		"PORT OF DISCHARGE: Sydney NSW",
		"CONU 1234567",
	)
	out := normalize.Apply(NewRegistry().Select(text).Extract(text))
	if len(out) != 1 {
		t.Fatalf("len=%d", len(out))
	}
	got := out[0]
	if got.ShippingLine != "ANL" || got.ContainerNumber != "CONU1234567" || got.PIN != "AB12CD" {
		t.Fatalf("got %+v", got)
	}
	if got.EmptyPark != "Botany Park 1" {
		t.Fatalf("yard=%q", got.EmptyPark)
	}
	if got.PortOfDischarge != "Sydney NSW" {
		t.Fatalf("port=%q", got.PortOfDischarge)
	}
}

func TestNoContainerMeansNoRecords(t *testing.T) {
	text := lines(
		"PIN: AB12CD",
		"EMPTY RETURN LOCATION: Botany Park 1",
		"CONTAINER: ABC123",
		"PIN Code 123456",
		"Turn-In-Reference: HLR-1234",
	)
	for _, s := range append(All(), strategy.Generic{}) {
		if got := s.Extract(text); len(got) != 0 {
			t.Fatalf("%s returned %v", s.Name(), got)
		}
	}
}

func TestPlaceholdersMatchButExtractNothing(t *testing.T) {
	reg := NewRegistry()
	for _, tc := range []struct {
		text string
		name string
	}{
		{text: "BAL SHIPPING release TGHU1234567", name: NameBAL},
		{text: "Hamburg Süd delivery TGHU1234567", name: NameHamburgSud},
		{text: "Swire Shipping TGHU1234567", name: NameSwire},
	} {
		s := reg.Select(tc.text)
		if s.Name() != tc.name {
			t.Fatalf("text=%q selected %q", tc.text, s.Name())
		}
		if got := s.Extract(tc.text); len(got) != 0 {
			t.Fatalf("text=%q got %v", tc.text, got)
		}
	}
}

func TestSelectFallsBackToGeneric(t *testing.T) {
	text := "Delivery docket TGHU1234567\nPORT OF DISCHARGE: Fremantle WA"
	s := NewRegistry().Select(text)
	if s.Name() != strategy.GenericName {
		t.Fatalf("selected %q", s.Name())
	}
	recs := s.Extract(text)
	if len(recs) != 1 || recs[0][internal.AliasPortShort] != "Fremantle WA" {
		t.Fatalf("got %v", recs)
	}
	if recs[0][internal.FieldPIN] != "" || recs[0][internal.AliasYard] != "" {
		t.Fatalf("guessed fields: %v", recs[0])
	}
}

func TestONERequiresFullName(t *testing.T) {
	if ONE().Match("OCEAN NETWORK") {
		t.Fatal("partial name matched")
	}
	if !ONE().Match("ocean network express") {
		t.Fatal("full name did not match")
	}
}
