package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"edoparser/internal"
	"edoparser/internal/carriers"
	"edoparser/internal/connectors"
	"edoparser/internal/storage"
)

func rawMail(subject, body string) string {
	return strings.Join([]string{
		"From: Release Desk <release@anl.example>",
		"To: imports@example.com",
		"Subject: " + subject,
		"Date: Mon, 05 Oct 2026 09:30:00 +1100",
		"Message-ID: <edo-1@anl.example>",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		strings.ReplaceAll(body, "\n", "\r\n"),
		"",
	}, "\r\n")
}

const htmlAttachmentMail = "From: ops@example.com\r\n" +
	"To: imports@example.com\r\n" +
	"Subject: Delivery order\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"XYZ\"\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Please find the release attached.\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-Disposition: attachment; filename=\"release.html\"\r\n" +
	"\r\n" +
	"<html><body><p>ANL Container Line</p><p>PIN: AB12CD</p><p>CONU1234567</p></body></html>\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"Content-Disposition: attachment; filename=\"logo.bin\"\r\n" +
	"\r\n" +
	"binary\r\n" +
	"--XYZ--\r\n"

func TestParseMailAttachments(t *testing.T) {
	parsed, err := ParseMail([]byte(htmlAttachmentMail))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Subject != "Delivery order" {
		t.Fatalf("subject=%q", parsed.Subject)
	}
	if len(parsed.Attachments) != 2 {
		t.Fatalf("attachments=%v", parsed.Attachments)
	}
	if len(parsed.Documents) != 1 || parsed.Documents[0].Name != "release.html" {
		t.Fatalf("documents=%+v", parsed.Documents)
	}
	if !strings.Contains(parsed.Documents[0].Text, "CONU1234567") {
		t.Fatalf("text=%q", parsed.Documents[0].Text)
	}
}

func TestParseMailBodyWithoutContainer(t *testing.T) {
	parsed, err := ParseMail([]byte(rawMail("Hello", "Lunch on Friday?")))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Documents) != 0 {
		t.Fatalf("documents=%+v", parsed.Documents)
	}
}

func storeMail(t *testing.T, db *storage.DB, dir, messageID, raw string) internal.EmailRow {
	t.Helper()
	path := filepath.Join(dir, strings.Trim(messageID, "<>")+".eml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	email, err := db.UpsertEmail("gmail", messageID, "", "release@anl.example", "2026-10-05T00:00:00Z",
		connectors.ContentHash([]byte(raw)), path, connectors.EmailStatusFetched)
	if err != nil {
		t.Fatal(err)
	}
	return email
}

func TestSmokeEmailToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db := openDB(t)

	edo := storeMail(t, db, tmp, "<edo-1@anl.example>", rawMail("EDO CONU1234567", anlText))
	other := storeMail(t, db, tmp, "<lunch@example.com>", rawMail("Hello", "Lunch on Friday?"))

	ingest := NewMailIngest(db, carriers.NewRegistry(), nil, zerolog.Nop())
	res, err := ingest.ProcessPending(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Emails != 2 || res.Processed != 1 || res.Skipped != 1 || res.Records != 1 {
		t.Fatalf("result=%+v", res)
	}

	for id, want := range map[int]string{edo.ID: EmailStatusProcessed, other.ID: EmailStatusSkipped} {
		email, err := db.GetEmailByID(id)
		if err != nil || email == nil {
			t.Fatalf("email %d: %v", id, err)
		}
		if email.Status != want {
			t.Fatalf("email %d status=%q", id, email.Status)
		}
	}

	rows, err := db.ListRecords(storage.RecordFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%+v", rows)
	}
	if rows[0].ContainerNumber != "CONU1234567" || rows[0].Strategy != carriers.NameANL {
		t.Fatalf("row=%+v", rows[0])
	}
	if !strings.HasPrefix(rows[0].PreviewLink, "file://") {
		t.Fatalf("preview=%q", rows[0].PreviewLink)
	}

	out := filepath.Join(tmp, "export", "result.xlsx")
	if err := ExportRecordsToXLSX(rows, out); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(sheetRows) != 2 {
		t.Fatalf("sheet rows=%v", sheetRows)
	}
	if sheetRows[0][1] != internal.FieldContainerNumber || sheetRows[1][1] != "CONU1234567" {
		t.Fatalf("sheet=%v", sheetRows)
	}
}
