package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/students/roster"
)

// Marks maps a subject name to its score (0..100).
type Marks map[string]float64

// StudentModel merepresentasikan tabel students.
// Roll number unik per owner (admin), bukan global.
type StudentModel struct {
	StudentID         uuid.UUID                 `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentOwnerID    uuid.UUID                 `gorm:"column:student_owner_id;type:uuid;not null;uniqueIndex:uq_students_owner_roll,priority:1" json:"student_owner_id"`
	StudentRollNumber int                       `gorm:"column:student_roll_number;not null;uniqueIndex:uq_students_owner_roll,priority:2" json:"student_roll_number"`
	StudentName       string                    `gorm:"column:student_name;size:120;not null" json:"student_name"`
	StudentCourse     string                    `gorm:"column:student_course;size:120;not null" json:"student_course"`
	StudentMarks      datatypes.JSONType[Marks] `gorm:"column:student_marks;not null" json:"student_marks"`

	// derived from marks; NULL on legacy rows
	StudentPercentage *float64 `gorm:"column:student_percentage" json:"student_percentage,omitempty"`
	StudentGrade      *string  `gorm:"column:student_grade;size:2" json:"student_grade,omitempty"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}

// GetMarks never returns nil.
func (m *StudentModel) GetMarks() Marks {
	if d := m.StudentMarks.Data(); d != nil {
		return d
	}
	return Marks{}
}

func (m *StudentModel) SetMarks(marks Marks) {
	if marks == nil {
		marks = Marks{}
	}
	m.StudentMarks = datatypes.NewJSONType(marks)
}

// ToRecord maps the row into the roster's storage-agnostic record.
func (m *StudentModel) ToRecord() roster.Record {
	return roster.Record{
		RollNumber: m.StudentRollNumber,
		Name:       m.StudentName,
		Course:     m.StudentCourse,
		Marks:      m.GetMarks(),
		Percentage: m.StudentPercentage,
		Grade:      m.StudentGrade,
	}
}

func ToRecords(list []StudentModel) []roster.Record {
	out := make([]roster.Record, len(list))
	for i := range list {
		out[i] = list[i].ToRecord()
	}
	return out
}
