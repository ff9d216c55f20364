// Package sheets implements connectors.TabularStore on one Google Sheets tab.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"edoparser/internal"
	"edoparser/internal/config"
	"edoparser/internal/connectors"
	"edoparser/internal/connectors/googleauth"
)

type Store struct {
	service       *sheets.Service
	spreadsheetID string
	tab           string
	header        []string
	throttle      *connectors.Throttle
}

// NewStore authenticates from cfg and targets cfg.SheetsSpreadsheetID / cfg.SheetsTab.
func NewStore(ctx context.Context, cfg config.Config) (*Store, error) {
	if err := cfg.Require("SHEETS_SPREADSHEET_ID", cfg.SheetsSpreadsheetID); err != nil {
		return nil, err
	}
	auth, err := googleauth.ClientOption(ctx, cfg, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	store, err := New(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsTab, auth)
	if err != nil {
		return nil, err
	}
	store.throttle = connectors.NewThrottle(cfg.GoogleRateLimitRPS)
	return store, nil
}

func New(ctx context.Context, spreadsheetID, tab string, opts ...option.ClientOption) (*Store, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{
		service:       svc,
		spreadsheetID: spreadsheetID,
		tab:           tab,
		header:        internal.CanonicalColumns,
	}, nil
}

func (s *Store) Query(ctx context.Context, column, value string) ([]internal.Row, error) {
	grid, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, nil
	}
	header := grid[0]
	idx := connectors.ColumnIndex(header, column)
	if idx < 0 {
		return nil, nil
	}
	want := strings.TrimSpace(value)
	var out []internal.Row
	for _, cells := range grid[1:] {
		if idx < len(cells) && strings.TrimSpace(cells[idx]) == want {
			out = append(out, connectors.RowFromCells(header, cells))
		}
	}
	return out, nil
}

// Insert appends rows below the last data row, writing the header first when
// the tab is empty.
func (s *Store) Insert(ctx context.Context, rows []internal.Row) error {
	if len(rows) == 0 {
		return nil
	}
	header, err := s.ensureHeader(ctx)
	if err != nil {
		return err
	}
	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		values = append(values, toInterfaces(connectors.CellsFromRow(header, r)))
	}
	err = s.throttle.Do(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeOf("A1"), &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("append to %s: %w", s.tab, err)
	}
	return nil
}

// Update rewrites the first row whose key column equals keyValue. Columns the
// row does not set keep their current value.
func (s *Store) Update(ctx context.Context, key, keyValue string, row internal.Row) error {
	grid, err := s.read(ctx)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("update %s=%s: %w", key, keyValue, connectors.ErrNotFound)
	}
	header := grid[0]
	idx := connectors.ColumnIndex(header, key)
	if idx < 0 {
		return fmt.Errorf("column %q: %w", key, connectors.ErrNotFound)
	}
	want := strings.TrimSpace(keyValue)
	for i, cells := range grid[1:] {
		if idx >= len(cells) || strings.TrimSpace(cells[idx]) != want {
			continue
		}
		merged := connectors.MergeCells(header, cells, row)
		rowNumber := i + 2
		err := s.throttle.Do(ctx, func() error {
			_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeOf(fmt.Sprintf("A%d", rowNumber)),
				&sheets.ValueRange{Values: [][]interface{}{toInterfaces(merged)}}).
				ValueInputOption("RAW").
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return fmt.Errorf("update %s row %d: %w", s.tab, rowNumber, err)
		}
		return nil
	}
	return fmt.Errorf("update %s=%s: %w", key, keyValue, connectors.ErrNotFound)
}

func (s *Store) ensureHeader(ctx context.Context) ([]string, error) {
	grid, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		return grid[0], nil
	}
	err = s.throttle.Do(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeOf("A1"),
			&sheets.ValueRange{Values: [][]interface{}{toInterfaces(s.header)}}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("write header to %s: %w", s.tab, err)
	}
	return s.header, nil
}

func (s *Store) read(ctx context.Context) ([][]string, error) {
	var resp *sheets.ValueRange
	err := s.throttle.Do(ctx, func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("")).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.tab, err)
	}
	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func (s *Store) rangeOf(cell string) string {
	quoted := "'" + strings.ReplaceAll(s.tab, "'", "''") + "'"
	if cell == "" {
		return quoted
	}
	return quoted + "!" + cell
}

func toInterfaces(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
