package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"edumanager_backend/internals/features/students/roster"
)

func sampleRows() ([]roster.Row, []string) {
	records := []roster.Record{
		{RollNumber: 1, Name: "Ayu, Putri", Course: "IPA", Marks: map[string]float64{"Math": 80, "Eng": 60}},
		{RollNumber: 2, Name: `Budi "B"`, Course: "IPS", Marks: map[string]float64{"Eng": 72.5}},
	}
	return roster.View(records, roster.Query{SortKey: roster.KeyRollNumber}), roster.SubjectColumns(records)
}

func TestWriteCSV(t *testing.T) {
	rows, subjects := sampleRows()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, subjects); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := [][]string{
		{"Roll Number", "Name", "Course", "Eng", "Math", "Total", "Percentage", "Grade"},
		{"1", "Ayu, Putri", "IPA", "60", "80", "140", "70.00%", "B"},
		{"2", `Budi "B"`, "IPS", "72.5", "0", "72.5", "72.50%", "B"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("csv mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestWriteCSVEmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != "Roll Number,Name,Course,Total,Percentage,Grade\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	rows, subjects := sampleRows()
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows, subjects); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	if !reflect.DeepEqual(got[0], Header(subjects)) {
		t.Fatalf("header = %v", got[0])
	}
	if got[1][1] != "Ayu, Putri" || got[1][6] != "70.00%" || got[1][7] != "B" {
		t.Fatalf("first row = %v", got[1])
	}
	if got[2][4] != "0" {
		t.Fatalf("missing subject should be 0, got %q", got[2][4])
	}
}
