// Package reader turns EDO documents into plain text for the extractors.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"edoparser/internal/util"
)

var ErrUnsupported = errors.New("unsupported document type")

// Supported reports whether Text can read a file with this name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".html", ".htm", ".xlsx":
		return true
	}
	return false
}

// Text dispatches on the file extension.
func Text(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDFText(data)
	case ".html", ".htm":
		return HTMLText(string(data))
	case ".xlsx":
		return WorkbookText(data)
	case ".txt":
		return strings.TrimSpace(normalizeNewlines(string(data))), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
}

// WorkbookText renders every sheet row as one line of space-separated cells.
func WorkbookText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if c = util.CollapseSpaces(c); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
