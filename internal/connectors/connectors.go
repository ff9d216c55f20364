package connectors

import (
	"context"
	"errors"
	"strings"

	"edoparser/internal"
)

var ErrNotFound = errors.New("not found")

type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}

// FileStore is a folder-based document store. Move returns the id the file has
// after the move.
type FileStore interface {
	List(ctx context.Context, folder string) ([]internal.SourceFile, error)
	Download(ctx context.Context, id string) ([]byte, error)
	Move(ctx context.Context, id, folder, newName string) (string, error)
	PreviewLink(id string) string
}

// TabularStore keeps rows keyed by column header.
type TabularStore interface {
	Query(ctx context.Context, column, value string) ([]internal.Row, error)
	Insert(ctx context.Context, rows []internal.Row) error
	Update(ctx context.Context, key, keyValue string, row internal.Row) error
}

// RowFromCells maps a sheet row onto its header. Missing cells become "".
func RowFromCells(header, cells []string) internal.Row {
	row := make(internal.Row, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		row[h] = v
	}
	return row
}

// CellsFromRow orders row values by header. Keys outside the header are dropped.
func CellsFromRow(header []string, row internal.Row) []string {
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = row[h]
	}
	return cells
}

// MergeCells overwrites the cells of existing with the values row sets.
func MergeCells(header, existing []string, row internal.Row) []string {
	out := make([]string, len(header))
	copy(out, existing)
	for i, h := range header {
		if v, ok := row[h]; ok {
			out[i] = v
		}
	}
	return out
}

// ColumnIndex returns the position of column in header, ignoring case and
// surrounding spaces.
func ColumnIndex(header []string, column string) int {
	want := strings.TrimSpace(column)
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

// Upsert updates the first row whose key column equals the row's key value and
// inserts the row otherwise.
func Upsert(ctx context.Context, store TabularStore, key string, row internal.Row) error {
	value := row[key]
	existing, err := store.Query(ctx, key, value)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return store.Update(ctx, key, value, row)
	}
	return store.Insert(ctx, []internal.Row{row})
}
