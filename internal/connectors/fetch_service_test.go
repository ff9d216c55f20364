package connectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/storage"
)

type stubMail struct {
	messages []internal.FetchedMailMessage
}

func (s stubMail) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	return s.messages, nil
}

func TestFetchAndStoreSkipsKnownMessages(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "edo.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	msg := internal.FetchedMailMessage{Provider: "imap", MessageID: "<m1>", Subject: "EDO", Raw: []byte("raw body")}
	svc := NewFetchService(db, filepath.Join(dir, "raw"), stubMail{messages: []internal.FetchedMailMessage{msg, msg}}, zerolog.Nop())

	res, err := svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Fetched != 2 || res.Stored != 1 || res.Duplicates != 1 {
		t.Fatalf("res=%+v", res)
	}

	row, err := db.GetEmailByProviderMessageID("imap", "<m1>")
	if err != nil || row == nil {
		t.Fatalf("row=%v err=%v", row, err)
	}
	data, err := os.ReadFile(row.RawRef)
	if err != nil || string(data) != "raw body" {
		t.Fatalf("raw=%q err=%v", data, err)
	}
	if row.Hash != ContentHash([]byte("raw body")) || row.Status != EmailStatusFetched {
		t.Fatalf("row=%+v", row)
	}
}

func TestRowHelpers(t *testing.T) {
	header := []string{"Container Number", "PIN", ""}
	row := RowFromCells(header, []string{" TGHU1234567 "})
	if row["Container Number"] != "TGHU1234567" || row["PIN"] != "" {
		t.Fatalf("row=%v", row)
	}
	cells := CellsFromRow(header, internal.Row{"PIN": "X1", "Other": "dropped"})
	if len(cells) != 3 || cells[1] != "X1" {
		t.Fatalf("cells=%v", cells)
	}
	merged := MergeCells(header, []string{"A", "B"}, internal.Row{"PIN": "C"})
	if merged[0] != "A" || merged[1] != "C" {
		t.Fatalf("merged=%v", merged)
	}
	if ColumnIndex(header, " pin ") != 1 || ColumnIndex(header, "absent") != -1 {
		t.Fatalf("ColumnIndex mismatch")
	}
}
