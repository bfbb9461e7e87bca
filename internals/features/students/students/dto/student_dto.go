package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"edumanager_backend/internals/features/students/grading"
	"edumanager_backend/internals/features/students/roster"
	"edumanager_backend/internals/features/students/students/model"
	helper "edumanager_backend/internals/helpers"
)

const (
	MinScore         = 0
	MaxScore         = 100
	MaxSubjectLength = 60
)

/* =========================================================
   REQUEST
========================================================= */

// StudentCreateReq: POST /api/students. Roll number is always allocated server side.
type StudentCreateReq struct {
	Name   string         `json:"name" validate:"required,max=120"`
	Course string         `json:"course" validate:"required,max=120"`
	Marks  map[string]any `json:"marks"`
}

func (r *StudentCreateReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Course = strings.TrimSpace(r.Course)
}

// Validate checks the payload and returns the cleaned marks.
func (r *StudentCreateReq) Validate() (model.Marks, error) {
	ve := helper.NewValidationError()
	if err := helper.ValidateStruct(r); err != nil {
		if !mergeInto(ve, err) {
			return nil, err
		}
	}
	marks := ParseMarks(r.Marks, ve)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return marks, nil
}

// StudentUpdateReq: PUT /api/students/:rollNumber.
// Omitted fields keep their value; marks, when sent, replace the old map entirely.
type StudentUpdateReq struct {
	Name   *string         `json:"name" validate:"omitempty,max=120"`
	Course *string         `json:"course" validate:"omitempty,max=120"`
	Marks  *map[string]any `json:"marks"`
}

func (r *StudentUpdateReq) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.Course != nil {
		s := strings.TrimSpace(*r.Course)
		r.Course = &s
	}
}

// Validate returns the new marks (nil when not being replaced).
func (r *StudentUpdateReq) Validate() (model.Marks, error) {
	ve := helper.NewValidationError()
	if err := helper.ValidateStruct(r); err != nil {
		if !mergeInto(ve, err) {
			return nil, err
		}
	}
	if r.Name != nil && *r.Name == "" {
		ve.Add("name", "name is required")
	}
	if r.Course != nil && *r.Course == "" {
		ve.Add("course", "course is required")
	}

	var marks model.Marks
	if r.Marks != nil {
		marks = ParseMarks(*r.Marks, ve)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return marks, nil
}

// Apply menerapkan perubahan ke model; stats dihitung ulang oleh service.
func (r *StudentUpdateReq) Apply(m *model.StudentModel, marks model.Marks) {
	if r.Name != nil {
		m.StudentName = *r.Name
	}
	if r.Course != nil {
		m.StudentCourse = *r.Course
	}
	if r.Marks != nil {
		m.SetMarks(marks)
	}
}

func mergeInto(ve *helper.ValidationError, err error) bool {
	other, ok := err.(*helper.ValidationError)
	if ok {
		ve.Merge(other)
	}
	return ok
}

// ParseMarks cleans a raw subject→score map. Subject names are trimmed and
// NFC-normalized; scores must be numbers within [0,100]. Problems are added to ve.
func ParseMarks(raw map[string]any, ve *helper.ValidationError) model.Marks {
	out := make(model.Marks, len(raw))
	for key, val := range raw {
		subject := norm.NFC.String(strings.TrimSpace(key))
		field := "marks." + key

		switch {
		case subject == "":
			ve.Add("marks", "subject name must not be empty")
			continue
		case len([]rune(subject)) > MaxSubjectLength:
			ve.Add(field, fmt.Sprintf("subject name must be at most %d characters", MaxSubjectLength))
			continue
		}
		if _, dup := out[subject]; dup {
			ve.Add(field, "duplicate subject "+subject)
			continue
		}

		score, ok := toScore(val)
		if !ok {
			ve.Add(field, "score must be a number")
			continue
		}
		if score < MinScore || score > MaxScore {
			ve.Add(field, "score must be between 0 and 100")
			continue
		}
		out[subject] = score
	}
	return out
}

func toScore(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

/* =========================================================
   RESPONSE
========================================================= */

type StudentResponse struct {
	RollNumber int         `json:"roll_number"`
	Name       string      `json:"name"`
	Course     string      `json:"course"`
	Marks      model.Marks `json:"marks"`
	Total      float64     `json:"total"`
	Percentage string      `json:"percentage"`
	Grade      string      `json:"grade"`
}

func FromRow(row roster.Row) StudentResponse {
	marks := model.Marks(row.Marks)
	if marks == nil {
		marks = model.Marks{}
	}
	return StudentResponse{
		RollNumber: row.RollNumber,
		Name:       row.Name,
		Course:     row.Course,
		Marks:      marks,
		Total:      row.Total(),
		Percentage: grading.FormatPercentage(row.Stats.Percentage),
		Grade:      row.Stats.Grade,
	}
}

func FromRows(rows []roster.Row) []StudentResponse {
	out := make([]StudentResponse, len(rows))
	for i, row := range rows {
		out[i] = FromRow(row)
	}
	return out
}

// FromModel resolves stats the same way the list does (backfill for legacy rows).
func FromModel(m *model.StudentModel) StudentResponse {
	return FromRow(roster.Resolve([]roster.Record{m.ToRecord()})[0])
}

// RosterIncludes ikut di response list.
type RosterIncludes struct {
	Subjects []string       `json:"subjects"`
	Summary  roster.Summary `json:"summary"`
	Sort     *SortInfo      `json:"sort,omitempty"`
}

type SortInfo struct {
	Key          string `json:"key"`
	Direction    string `json:"direction"`
	IsSubjectKey bool   `json:"is_subject_key"`
}
