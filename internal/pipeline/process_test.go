package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/carriers"
	"edoparser/internal/connectors"
	"edoparser/internal/connectors/workbook"
	"edoparser/internal/storage"
)

const anlText = `ANL Container Line Pty Ltd
DELIVERY ORDER
PIN: AB12CD
EMPTY RETURN LOCATION: Botany Park 1

CONTAINERS
CONU1234567`

type memFile struct {
	folder string
	name   string
	data   []byte
}

// memFiles is an in-memory FileStore whose ids are "folder/name".
type memFiles struct {
	files   map[string]memFile
	failFor map[string]bool
	moves   []string
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string]memFile{}, failFor: map[string]bool{}}
}

func (m *memFiles) put(folder, name, data string) string {
	id := folder + "/" + name
	m.files[id] = memFile{folder: folder, name: name, data: []byte(data)}
	return id
}

func (m *memFiles) List(ctx context.Context, folder string) ([]internal.SourceFile, error) {
	var out []internal.SourceFile
	for id, f := range m.files {
		if f.folder == folder {
			out = append(out, internal.SourceFile{ID: id, Name: f.name, Parents: []string{folder}})
		}
	}
	return out, nil
}

func (m *memFiles) Download(ctx context.Context, id string) ([]byte, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, connectors.ErrNotFound
	}
	return f.data, nil
}

func (m *memFiles) Move(ctx context.Context, id, folder, newName string) (string, error) {
	if m.failFor[folder] {
		return "", fmt.Errorf("folder %s is read-only", folder)
	}
	f, ok := m.files[id]
	if !ok {
		return "", connectors.ErrNotFound
	}
	delete(m.files, id)
	m.moves = append(m.moves, folder+"/"+newName)
	return m.put(folder, newName, string(f.data)), nil
}

func (m *memFiles) PreviewLink(id string) string {
	return "mem://" + id
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

var testFolders = Folders{Input: "in", Output: "out", Fail: "fail"}

func TestProcessText(t *testing.T) {
	ext := ProcessText(carriers.NewRegistry(), anlText)
	if ext.Strategy != carriers.NameANL {
		t.Fatalf("strategy=%q", ext.Strategy)
	}
	if len(ext.Records) != 1 {
		t.Fatalf("records=%v", ext.Records)
	}
	r := ext.Records[0]
	if r.ContainerNumber != "CONU1234567" || r.PIN != "AB12CD" || r.EmptyPark != "Botany Park 1" {
		t.Fatalf("record=%+v", r)
	}
	if got := TargetName(ext.Containers()); got != "CONU1234567.pdf" {
		t.Fatalf("target=%q", got)
	}
}

func TestTargetNameJoinsContainers(t *testing.T) {
	ext := Extraction{Records: []internal.CanonicalRecord{
		{ContainerNumber: "CONU1234567"},
		{ContainerNumber: "TGHU7654321"},
		{ContainerNumber: "CONU1234567"},
	}}
	if got := TargetName(ext.Containers()); got != "CONU1234567_TGHU7654321.pdf" {
		t.Fatalf("got %q", got)
	}
}

func TestProcessingServiceRun(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	files := newMemFiles()
	edoID := files.put("in", "edo.txt", anlText)
	blankID := files.put("in", "blank.txt", "   \n")
	files.put("in", "notice.txt", "Vessel arrival notice\nNo equipment listed")
	table := workbook.New(filepath.Join(t.TempDir(), "edo.xlsx"), "EDO")

	svc := NewProcessingService(db, carriers.NewRegistry(), files, table, internal.SourceLocal, testFolders, zerolog.Nop())
	res, err := svc.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Moved != 1 || res.Skipped != 2 || res.Failed != 0 {
		t.Fatalf("counts=%v", res.Counts())
	}
	if _, ok := files.files["out/CONU1234567.pdf"]; !ok {
		t.Fatalf("moves=%v", files.moves)
	}
	if _, ok := files.files[blankID]; !ok {
		t.Fatal("skipped document left the input folder")
	}

	doc, err := db.GetDocument(internal.SourceLocal, edoID)
	if err != nil || doc == nil {
		t.Fatalf("doc=%v err=%v", doc, err)
	}
	if doc.Status != internal.StatusMoved || doc.TargetName != "CONU1234567.pdf" || doc.Strategy != carriers.NameANL {
		t.Fatalf("doc=%+v", doc)
	}
	blank, err := db.GetDocument(internal.SourceLocal, blankID)
	if err != nil || blank == nil || blank.Status != internal.StatusSkipped {
		t.Fatalf("blank=%v err=%v", blank, err)
	}

	recs, err := db.ListRecords(storage.RecordFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].PreviewLink != "mem://out/CONU1234567.pdf" {
		t.Fatalf("records=%+v", recs)
	}

	rows, err := table.Query(ctx, internal.FieldContainerNumber, "CONU1234567")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0][internal.FieldPIN] != "AB12CD" {
		t.Fatalf("rows=%v", rows)
	}

	counts, err := db.RunCounts(res.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if counts["moved"] != 1 || counts["files"] != 3 {
		t.Fatalf("run counts=%v", counts)
	}
	last, err := db.GetMetadata("last_run_local")
	if err != nil || last == nil || *last != res.RunID {
		t.Fatalf("last run=%v err=%v", last, err)
	}
}

func TestProcessFileMoveFailure(t *testing.T) {
	db := openDB(t)
	files := newMemFiles()
	id := files.put("in", "edo.txt", anlText)
	files.failFor["out"] = true

	svc := NewProcessingService(db, carriers.NewRegistry(), files, nil, internal.SourceDrive, testFolders, zerolog.Nop())
	fr := svc.ProcessFile(context.Background(), "run-1", internal.SourceFile{ID: id, Name: "edo.txt"})
	if fr.Status != internal.StatusFailed {
		t.Fatalf("status=%q", fr.Status)
	}
	var se *StageError
	if !errors.As(fr.Err, &se) || se.Stage != StageMove {
		t.Fatalf("err=%v", fr.Err)
	}
	if _, ok := files.files["fail/[FAIL]CONU1234567.pdf"]; !ok {
		t.Fatalf("moves=%v", files.moves)
	}
	doc, err := db.GetDocument(internal.SourceDrive, id)
	if err != nil || doc == nil {
		t.Fatalf("doc=%v err=%v", doc, err)
	}
	if doc.TargetName != "[FAIL]CONU1234567.pdf" || !strings.Contains(doc.Error, "read-only") {
		t.Fatalf("doc=%+v", doc)
	}
}

func TestProcessFileDownloadFailure(t *testing.T) {
	db := openDB(t)
	svc := NewProcessingService(db, carriers.NewRegistry(), newMemFiles(), nil, internal.SourceDrive, testFolders, zerolog.Nop())
	fr := svc.ProcessFile(context.Background(), "run-1", internal.SourceFile{ID: "in/missing.pdf", Name: "missing.pdf"})
	if fr.Status != internal.StatusFailed || !errors.Is(fr.Err, connectors.ErrNotFound) {
		t.Fatalf("status=%q err=%v", fr.Status, fr.Err)
	}
}

func TestStageError(t *testing.T) {
	err := stageErr(StageRead, "abc", ErrNoText)
	if err.Error() != "read abc: document has no text" {
		t.Fatalf("got %q", err.Error())
	}
	if !IsSkip(err) {
		t.Fatal("wrapped skip not detected")
	}
	if stageErr(StageRead, "abc", nil) != nil {
		t.Fatal("nil error wrapped")
	}
	if got := stageErr(StageLedger, "", errors.New("locked")).Error(); got != "ledger: locked" {
		t.Fatalf("got %q", got)
	}
}
