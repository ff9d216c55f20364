package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"edoparser/internal"
)

var exportHeaders = append(append([]string{}, internal.CanonicalColumns...), "File", "Strategy", "Created At")

// ExportRecordsToXLSX writes one row per stored record.
func ExportRecordsToXLSX(rows []internal.RecordRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		values := append(row.CanonicalRecord.Values(), row.DocumentName, row.Strategy, row.CreatedAt)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
