// Package roster builds the read-side views of a student roster: backfilled
// rows, aggregates, the filtered/sorted listing and the subject columns.
// Everything here works on a snapshot and never touches storage.
package roster

import (
	"edumanager_backend/internals/features/students/grading"
)

// Record is the storage-agnostic shape of a student record.
// Percentage and Grade are nil for legacy rows that were saved without stats.
type Record struct {
	RollNumber int
	Name       string
	Course     string
	Marks      map[string]float64
	Percentage *float64
	Grade      *string
}

// Row is a record with resolved stats. It lives only for one render/export.
type Row struct {
	Record
	Stats      grading.Stats
	Backfilled bool
}

// Resolve returns one row per record. Records missing either derived field
// get both recomputed from their marks; the input is left untouched.
func Resolve(records []Record) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = resolveOne(rec)
	}
	return rows
}

func resolveOne(rec Record) Row {
	if rec.Percentage != nil && rec.Grade != nil {
		return Row{Record: rec, Stats: grading.Stats{Percentage: *rec.Percentage, Grade: *rec.Grade}}
	}
	return Row{Record: rec, Stats: grading.ComputeStats(rec.Marks), Backfilled: true}
}

// Score returns the mark for subject, 0 when the record has no such subject.
func (r Row) Score(subject string) float64 {
	return r.Marks[subject]
}

// Total is the sum of all marks on the row.
func (r Row) Total() float64 {
	return grading.Total(r.Marks)
}
