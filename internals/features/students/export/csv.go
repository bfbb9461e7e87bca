// Package export writes the roster view as CSV or XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"edumanager_backend/internals/features/students/grading"
	"edumanager_backend/internals/features/students/roster"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header returns the column titles for the given subject columns.
func Header(subjects []string) []string {
	h := make([]string, 0, len(subjects)+6)
	h = append(h, "Roll Number", "Name", "Course")
	h = append(h, subjects...)
	return append(h, "Total", "Percentage", "Grade")
}

// Line renders one row. Subjects the student does not take are written as 0.
func Line(row roster.Row, subjects []string) []string {
	line := make([]string, 0, len(subjects)+6)
	line = append(line, strconv.Itoa(row.RollNumber), row.Name, row.Course)
	for _, s := range subjects {
		line = append(line, formatScore(row.Score(s)))
	}
	return append(line,
		formatScore(row.Total()),
		grading.FormatPercentage(row.Stats.Percentage)+"%",
		row.Stats.Grade,
	)
}

func WriteCSV(w io.Writer, rows []roster.Row, subjects []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(subjects)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(Line(row, subjects)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// 80 -> "80", 72.5 -> "72.5"
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
