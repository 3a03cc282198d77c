package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the series in XLSX exports.
const SheetName = "Fréquentation"

// ExportFilename returns frequentation_<start>_<end>.<ext>.
func ExportFilename(r Report, ext string) string {
	return fmt.Sprintf("frequentation_%s_%s.%s", r.Start, r.End, ext)
}

// Table flattens the series into a header row followed by one row per point.
// Columns are Date, Total, then every included category in display order.
func Table(r Report) [][]string {
	header := []string{"Date", "Total"}
	for _, c := range r.Columns {
		header = append(header, c.Name)
	}

	rows := make([][]string, 0, len(r.Series)+1)
	rows = append(rows, header)
	for _, p := range r.Series {
		row := []string{p.Date, strconv.Itoa(p.Total)}
		for _, c := range r.Columns {
			row = append(row, strconv.Itoa(p.ByCategory[c.Name]))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the series as semicolon-separated values.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.WriteAll(Table(r)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the series into a single-sheet workbook.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#10b981"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for rowIndex, row := range Table(r) {
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			var v any = value
			if rowIndex > 0 && colIndex > 0 {
				// numeric cells stay numeric for spreadsheet formulas
				if n, convErr := strconv.Atoi(value); convErr == nil {
					v = n
				}
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(r.Columns) + 2)
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 14); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
