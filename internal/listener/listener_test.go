package listener

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/config"
	"edoparser/internal/connectors/workbook"
	"edoparser/internal/storage"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		RawMailDir:          filepath.Join(dir, "raw"),
		LocalInputDir:       filepath.Join(dir, "input"),
		LocalOutputDir:      filepath.Join(dir, "output"),
		LocalFailDir:        filepath.Join(dir, "fail"),
		ListenerSource:      "local",
		ListenerIntervalSec: 1,
		SheetsTab:           "EDO",
	}
	if err := os.MkdirAll(cfg.LocalInputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "edo.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunCycleLocal(t *testing.T) {
	cfg := testConfig(t)
	db := openDB(t)
	if err := os.WriteFile(filepath.Join(cfg.LocalInputDir, "broken.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(db, cfg, zerolog.Nop())
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatal(err)
	}

	id, _ := filepath.Abs(filepath.Join(cfg.LocalInputDir, "broken.pdf"))
	doc, err := db.GetDocument(internal.SourceLocal, id)
	if err != nil || doc == nil {
		t.Fatalf("doc=%v err=%v", doc, err)
	}
	if doc.Status != internal.StatusFailed {
		t.Fatalf("status=%q", doc.Status)
	}
	last, err := db.GetMetadata("last_run_local")
	if err != nil || last == nil {
		t.Fatalf("last run=%v err=%v", last, err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ListenerSource = sourceNone
	svc := NewService(openDB(t), cfg, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestTabularStoreSelection(t *testing.T) {
	cfg := testConfig(t)
	store, err := TabularStore(context.Background(), cfg)
	if err != nil || store != nil {
		t.Fatalf("store=%v err=%v", store, err)
	}

	cfg.WorkbookPath = filepath.Join(t.TempDir(), "edo.xlsx")
	store, err = TabularStore(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*workbook.Store); !ok {
		t.Fatalf("store=%T", store)
	}
}

func TestMailConnectorUnknown(t *testing.T) {
	if _, err := MailConnector(context.Background(), config.Config{}, "pop3"); err == nil {
		t.Fatal("unknown provider accepted")
	}
}

func TestFileProcessorDriveRequiresFolders(t *testing.T) {
	cfg := testConfig(t)
	if _, err := FileProcessor(context.Background(), openDB(t), cfg, internal.SourceDrive, "", zerolog.Nop()); err == nil {
		t.Fatal("missing drive folders accepted")
	}
}
