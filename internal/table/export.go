package table

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v3"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// WriteXLSX writes the visible rows of v as a single-sheet workbook with the
// column labels as the header row. Cells carry the same text as the grid.
func WriteXLSX(w io.Writer, sheetName string, v View) error {
	if r := []rune(sheetName); len(r) > maxSheetName {
		sheetName = string(r[:maxSheetName])
	}
	if sheetName == "" {
		sheetName = "Ativos"
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range v.Columns {
		header.AddCell().SetString(col.Label)
	}

	for _, r := range v.Rows {
		row := sheet.AddRow()
		for _, c := range r.Cells {
			row.AddCell().SetString(c.Text)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
