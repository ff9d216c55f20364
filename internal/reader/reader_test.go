package reader

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestHTMLText(t *testing.T) {
	html := `<html><head><title>EDO</title><style>p{}</style></head><body>
<p>PIN: AB12</p>
<table><tr><td>Container</td><td>TGHU1234567</td></tr></table>
<div>Empty   return<br>Botany</div>
</body></html>`
	got, err := HTMLText(html)
	if err != nil {
		t.Fatal(err)
	}
	want := "PIN: AB12\nContainer TGHU1234567\nEmpty return\nBotany"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestWorkbookText(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Container", "PIN", "Empty Return"},
		{"TGHU1234567", "AB12CD", "Patrick  Terminal"},
	})
	got, err := WorkbookText(blob)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Container PIN Empty Return\nTGHU1234567 AB12CD Patrick Terminal" {
		t.Fatalf("got %q", got)
	}
}

func TestPDFText(t *testing.T) {
	got, err := PDFText(nil)
	if err != nil || got != "" {
		t.Fatalf("empty: got %q err=%v", got, err)
	}
	if _, err := PDFText([]byte("not a pdf")); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func TestTextDispatch(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"edo.txt", "  PIN: 1\r\nTGHU1234567\n", "PIN: 1\nTGHU1234567"},
		{"EDO.HTM", "<p>one</p><p>two</p>", "one\ntwo"},
		{"empty.pdf", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Text(tc.name, []byte(tc.data))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %q", got)
			}
		})
	}

	if _, err := Text("scan.tiff", []byte("x")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err=%v", err)
	}
	if !Supported("a.PDF") || Supported("a.doc") {
		t.Fatalf("Supported mismatch")
	}
}
