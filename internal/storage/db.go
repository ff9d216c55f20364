package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"edoparser/internal"
)

type DB struct {
	conn *sql.DB
}

// RecordFilter narrows ListRecords. Zero values match everything.
type RecordFilter struct {
	Since    string
	Strategy string
	Limit    int
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  sourceId TEXT NOT NULL,
  name TEXT NOT NULL,
  hash TEXT,
  strategy TEXT,
  status TEXT NOT NULL,
  targetName TEXT,
  error TEXT,
  runId TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(source, sourceId)
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  strategy TEXT NOT NULL,
  shippingLine TEXT,
  containerNumber TEXT NOT NULL,
  pin TEXT,
  emptyPark TEXT,
  portOfDischarge TEXT,
  previewLink TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(documentId, containerNumber),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_records_container ON records(containerNumber);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL UNIQUE,
  kind TEXT NOT NULL,
  countsJson TEXT NOT NULL DEFAULT '{}',
  startedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  finishedAt TEXT
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// UpsertDocument records the latest outcome for a source document.
func (d *DB) UpsertDocument(doc internal.DocumentRow, runID string) (internal.DocumentRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO documents (source, sourceId, name, hash, strategy, status, targetName, error, runId)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(source, sourceId) DO UPDATE SET
  name=excluded.name,
  hash=excluded.hash,
  strategy=excluded.strategy,
  status=excluded.status,
  targetName=excluded.targetName,
  error=excluded.error,
  runId=excluded.runId,
  updatedAt=CURRENT_TIMESTAMP
`, string(doc.Source), doc.SourceID, doc.Name, doc.Hash, doc.Strategy, string(doc.Status), doc.TargetName, doc.Error, runID)
	if err != nil {
		return internal.DocumentRow{}, err
	}

	row, err := d.GetDocument(doc.Source, doc.SourceID)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, errors.New("failed to upsert document")
	}
	return *row, nil
}

func (d *DB) GetDocument(source internal.DocumentSource, sourceID string) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	var src, status string
	var hash, strategy, target, errText sql.NullString
	err := d.conn.QueryRow(`
SELECT id, source, sourceId, name, hash, strategy, status, targetName, error, updatedAt
FROM documents WHERE source = ? AND sourceId = ?
`, string(source), sourceID).Scan(
		&row.ID, &src, &row.SourceID, &row.Name, &hash, &strategy, &status, &target, &errText, &row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.Source = internal.DocumentSource(src)
	row.Status = internal.DocumentStatus(status)
	row.Hash, row.Strategy, row.TargetName, row.Error = hash.String, strategy.String, target.String, errText.String
	return &row, nil
}

// ReplaceRecords swaps the stored records of a document for records.
func (d *DB) ReplaceRecords(documentID int, strategy string, records []internal.CanonicalRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM records WHERE documentId = ?`, documentID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO records (documentId, strategy, shippingLine, containerNumber, pin, emptyPark, portOfDischarge, previewLink)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(documentId, containerNumber) DO UPDATE SET
  strategy=excluded.strategy,
  shippingLine=excluded.shippingLine,
  pin=excluded.pin,
  emptyPark=excluded.emptyPark,
  portOfDischarge=excluded.portOfDischarge,
  previewLink=excluded.previewLink
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if strings.TrimSpace(r.ContainerNumber) == "" {
			continue
		}
		if _, err := stmt.Exec(documentID, strategy, r.ShippingLine, r.ContainerNumber, r.PIN, r.EmptyPark, r.PortOfDischarge, r.PreviewLink); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListRecords(filter RecordFilter) ([]internal.RecordRow, error) {
	query := `
SELECT r.documentId, d.name, r.strategy, r.shippingLine, r.containerNumber, r.pin,
       r.emptyPark, r.portOfDischarge, r.previewLink, r.createdAt
FROM records r
JOIN documents d ON d.id = r.documentId
WHERE 1 = 1`
	var args []any
	if filter.Since != "" {
		query += ` AND r.createdAt >= ?`
		args = append(args, filter.Since)
	}
	if filter.Strategy != "" {
		query += ` AND r.strategy = ?`
		args = append(args, filter.Strategy)
	}
	query += ` ORDER BY r.createdAt ASC, r.id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RecordRow
	for rows.Next() {
		var row internal.RecordRow
		var line, pin, park, port, preview sql.NullString
		if err := rows.Scan(
			&row.DocumentID, &row.DocumentName, &row.Strategy, &line, &row.ContainerNumber, &pin,
			&park, &port, &preview, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		row.ShippingLine, row.PIN, row.EmptyPark = line.String, pin.String, park.String
		row.PortOfDischarge, row.PreviewLink = port.String, preview.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

const emailColumns = `id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef`

func scanEmail(scan func(dest ...any) error) (internal.EmailRow, error) {
	var row internal.EmailRow
	var subject, sender, received sql.NullString
	err := scan(&row.ID, &row.Provider, &row.MessageID, &subject, &sender, &received, &row.Hash, &row.Status, &row.RawRef)
	row.Subject, row.Sender, row.ReceivedAt = subject.String, sender.String, received.String
	return row, err
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	row, err := scanEmail(d.conn.QueryRow(`SELECT `+emailColumns+` FROM emails WHERE provider = ? AND messageId = ?`, provider, messageID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetEmailByID(id int) (*internal.EmailRow, error) {
	row, err := scanEmail(d.conn.QueryRow(`SELECT `+emailColumns+` FROM emails WHERE id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`SELECT `+emailColumns+` FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		row, err := scanEmail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) StartRun(runID, kind string) error {
	_, err := d.conn.Exec(`INSERT INTO runs (runId, kind) VALUES (?, ?)`, runID, kind)
	return err
}

func (d *DB) FinishRun(runID string, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	res, err := d.conn.Exec(`UPDATE runs SET countsJson = ?, finishedAt = CURRENT_TIMESTAMP WHERE runId = ?`, string(countsJSON), runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// RunCounts returns the counts stored by FinishRun.
func (d *DB) RunCounts(runID string) (map[string]int, error) {
	var countsJSON string
	err := d.conn.QueryRow(`SELECT countsJson FROM runs WHERE runId = ?`, runID).Scan(&countsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	if err := json.Unmarshal([]byte(countsJSON), &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
