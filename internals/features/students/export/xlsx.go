package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"edumanager_backend/internals/features/students/roster"
)

const sheetName = "Students"

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
// Numeric columns stay numeric so the sheet can be summed in Excel.
func WriteXLSX(w io.Writer, rows []roster.Row, subjects []string) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, title := range Header(subjects) {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := make([]any, 0, len(subjects)+6)
		values = append(values, row.RollNumber, row.Name, row.Course)
		for _, s := range subjects {
			values = append(values, row.Score(s))
		}
		values = append(values, row.Total(), row.Stats.PercentageText()+"%", row.Stats.Grade)

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	_, err = f.WriteTo(w)
	return err
}
