package repository

import (
	"code_practice_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uint) (*model.Student, error)
	// FindByStudentID looks a student up by the business id (学号).
	FindByStudentID(ctx context.Context, studentID string) (*model.Student, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type GormStudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{DB: db}
}

func (r *GormStudentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.DB.WithContext(ctx).Create(student).Error
}

func (r *GormStudentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.DB.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *GormStudentRepository) FindByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *GormStudentRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", id).
		Update("last_login", at).
		Error
}
