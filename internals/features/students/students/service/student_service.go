package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"edumanager_backend/internals/features/students/grading"
	"edumanager_backend/internals/features/students/rollnumber"
	"edumanager_backend/internals/features/students/roster"
	"edumanager_backend/internals/features/students/students/dto"
	"edumanager_backend/internals/features/students/students/model"
	"edumanager_backend/internals/features/students/students/repository"
	helper "edumanager_backend/internals/helpers"
)

type StudentService struct {
	Repo *repository.StudentRepository
	// MaxAttempts bounds roll-number allocation retries.
	MaxAttempts int
}

func NewStudentService(repo *repository.StudentRepository, maxAttempts int) *StudentService {
	return &StudentService{Repo: repo, MaxAttempts: maxAttempts}
}

// RosterView is one listing snapshot: the filtered/sorted rows plus the
// subject columns and summary of the whole roster.
type RosterView struct {
	Rows     []roster.Row
	Subjects []string
	Summary  roster.Summary
}

func applyStats(m *model.StudentModel) {
	stats := grading.ComputeStats(m.GetMarks())
	pct, grade := stats.Percentage, stats.Grade
	m.StudentPercentage = &pct
	m.StudentGrade = &grade
}

// Create stores a new student under the next free roll number of ownerID.
func (s *StudentService) Create(ctx context.Context, ownerID uuid.UUID, req dto.StudentCreateReq) (*model.StudentModel, error) {
	req.Normalize()
	marks, err := req.Validate()
	if err != nil {
		return nil, err
	}

	m := &model.StudentModel{
		StudentOwnerID: ownerID,
		StudentName:    req.Name,
		StudentCourse:  req.Course,
	}
	m.SetMarks(marks)
	applyStats(m)

	_, err = rollnumber.Allocate(ctx, s.Repo, ownerID, func(roll int) error {
		m.StudentID = uuid.Nil
		m.StudentRollNumber = roll
		return s.Repo.Create(ctx, m)
	}, rollnumber.Options{MaxAttempts: s.MaxAttempts, IsConflict: helper.IsUniqueViolation})
	if errors.Is(err, rollnumber.ErrAllocationExhausted) {
		return nil, helper.Conflict("roll number already exists, please retry")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies req to the owner's record and persists fresh stats.
func (s *StudentService) Update(ctx context.Context, ownerID uuid.UUID, roll int, req dto.StudentUpdateReq) (*model.StudentModel, error) {
	req.Normalize()
	marks, err := req.Validate()
	if err != nil {
		return nil, err
	}

	m, err := s.Repo.FindByRoll(ctx, ownerID, roll)
	if err != nil {
		return nil, err
	}
	req.Apply(m, marks)
	applyStats(m)

	if err := s.Repo.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *StudentService) Delete(ctx context.Context, ownerID uuid.UUID, roll int) error {
	return s.Repo.Delete(ctx, ownerID, roll)
}

func (s *StudentService) Get(ctx context.Context, ownerID uuid.UUID, roll int) (*model.StudentModel, error) {
	return s.Repo.FindByRoll(ctx, ownerID, roll)
}

// Roster loads the owner's records once and derives every view from that snapshot.
func (s *StudentService) Roster(ctx context.Context, ownerID uuid.UUID, q roster.Query) (RosterView, error) {
	list, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return RosterView{}, err
	}
	records := model.ToRecords(list)
	rows := roster.Resolve(records)

	return RosterView{
		Rows:     roster.ViewRows(rows, q),
		Subjects: roster.SubjectColumns(records),
		Summary:  roster.AggregateRows(rows),
	}, nil
}
