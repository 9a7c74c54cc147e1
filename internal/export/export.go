package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
	"github.com/xuri/excelize/v2"
)

// Row is one flat export record keyed by column display name, so the
// spreadsheet header matches what the admin sees on screen.
type Row map[string]string

// BuildExportRows flattens the filtered row set using the same value
// resolution as rendering.
func BuildExportRows(apps []application.Application, visibleColumns []column.Definition) []Row {
	rows := make([]Row, 0, len(apps))
	for _, app := range apps {
		row := make(Row, len(visibleColumns))
		for _, col := range visibleColumns {
			row[col.Name] = application.FieldValue(app, col)
		}
		rows = append(rows, row)
	}
	return rows
}

// Headers preserves the on-screen column order for the export file.
func Headers(visibleColumns []column.Definition) []string {
	headers := make([]string, 0, len(visibleColumns))
	for _, col := range visibleColumns {
		headers = append(headers, col.Name)
	}
	return headers
}

func WriteXLSX(w io.Writer, headers []string, rows []Row, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		f.SetSheetName("Sheet1", sheetName)
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}
	for rowIdx, row := range rows {
		for colIdx, header := range headers {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, row[header]); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func WriteCSV(w io.Writer, headers []string, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = row[header]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateFilename appends a second-precision sortable timestamp:
// applications_2026-09-01T12-00-00.xlsx.
func GenerateFilename(baseName, extension string) string {
	timestamp := strings.ReplaceAll(time.Now().UTC().Format("2006-01-02T15:04:05"), ":", "-")
	return fmt.Sprintf("%s_%s.%s", baseName, timestamp, extension)
}
