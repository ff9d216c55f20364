// Package workbook implements connectors.TabularStore on a local xlsx file.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"edoparser/internal"
	"edoparser/internal/connectors"
)

type Store struct {
	mu     sync.Mutex
	path   string
	sheet  string
	header []string
}

func New(path, sheet string) *Store {
	if sheet == "" {
		sheet = "EDO"
	}
	return &Store{path: path, sheet: sheet, header: internal.CanonicalColumns}
}

func (s *Store) Query(ctx context.Context, column, value string) ([]internal.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid, err := s.rows(f)
	if err != nil || len(grid) == 0 {
		return nil, err
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

func (s *Store) Insert(ctx context.Context, rows []internal.Row) error {
	if len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	grid, err := s.rows(f)
	if err != nil {
		return err
	}
	header := s.header
	if len(grid) > 0 && len(grid[0]) > 0 {
		header = grid[0]
	} else {
		if err := s.writeRow(f, 1, header); err != nil {
			return err
		}
		grid = [][]string{header}
	}
	next := len(grid) + 1
	for _, r := range rows {
		if err := s.writeRow(f, next, connectors.CellsFromRow(header, r)); err != nil {
			return err
		}
		next++
	}
	return s.save(f)
}

func (s *Store) Update(ctx context.Context, key, keyValue string, row internal.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	grid, err := s.rows(f)
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
		if err := s.writeRow(f, i+2, connectors.MergeCells(header, cells, row)); err != nil {
			return err
		}
		return s.save(f)
	}
	return fmt.Errorf("update %s=%s: %w", key, keyValue, connectors.ErrNotFound)
}

// open loads the workbook, creating it in memory with the target sheet when the
// file does not exist yet.
func (s *Store) open() (*excelize.File, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	if idx, _ := f.GetSheetIndex(s.sheet); idx < 0 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (s *Store) rows(f *excelize.File) ([][]string, error) {
	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.sheet, err)
	}
	return rows, nil
}

func (s *Store) writeRow(f *excelize.File, rowNumber int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(s.sheet, cell, &values)
}

func (s *Store) save(f *excelize.File) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}
