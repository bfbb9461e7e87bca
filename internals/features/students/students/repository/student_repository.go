package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/students/students/model"
	helper "edumanager_backend/internals/helpers"
)

// StudentRepository: semua query dibatasi owner (admin pemilik roster).
type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.StudentModel, error) {
	var list []model.StudentModel
	err := r.DB.WithContext(ctx).
		Where("student_owner_id = ?", ownerID).
		Order("student_roll_number ASC").
		Find(&list).Error
	return list, err
}

// FindByRoll returns helper.ErrNotFound for absent records and for records of another owner.
func (r *StudentRepository) FindByRoll(ctx context.Context, ownerID uuid.UUID, roll int) (*model.StudentModel, error) {
	var m model.StudentModel
	err := r.DB.WithContext(ctx).
		Where("student_owner_id = ? AND student_roll_number = ?", ownerID, roll).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("student not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RollNumbers implements rollnumber.Source.
func (r *StudentRepository) RollNumbers(ctx context.Context, ownerID uuid.UUID) ([]int, error) {
	var rolls []int
	err := r.DB.WithContext(ctx).
		Model(&model.StudentModel{}).
		Where("student_owner_id = ?", ownerID).
		Pluck("student_roll_number", &rolls).Error
	return rolls, err
}

func (r *StudentRepository) Create(ctx context.Context, m *model.StudentModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// Save writes every mutable column, including NULL-able stats.
func (r *StudentRepository) Save(ctx context.Context, m *model.StudentModel) error {
	res := r.DB.WithContext(ctx).
		Model(m).
		Where("student_owner_id = ?", m.StudentOwnerID).
		Select("student_name", "student_course", "student_marks", "student_percentage", "student_grade", "student_updated_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("student not found")
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, ownerID uuid.UUID, roll int) error {
	res := r.DB.WithContext(ctx).
		Where("student_owner_id = ? AND student_roll_number = ?", ownerID, roll).
		Delete(&model.StudentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("student not found")
	}
	return nil
}
