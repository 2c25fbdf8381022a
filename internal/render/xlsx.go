package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	gamestable "github.com/fortuna/games/internal/table"
)

const sheetName = "leaderboard"

// XLSX writes t as a single-sheet workbook with a header row. Numbers stay
// numeric; null cells are left blank.
func XLSX(w io.Writer, t *gamestable.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	cols := t.Columns()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		cells := make([]interface{}, len(cols))
		for j, c := range cols {
			if v := t.Value(i, c); v != nil {
				cells[j] = cell(v)
			}
		}
		if err := setRow(f, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, axis, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
