package repository

import (
	"code_practice_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	// FindByAccount matches either the teacher id or the display name.
	FindByAccount(ctx context.Context, account string) (*model.Teacher, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type GormTeacherRepository struct {
	DB *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{DB: db}
}

func (r *GormTeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.DB.WithContext(ctx).Create(teacher).Error
}

func (r *GormTeacherRepository) FindByAccount(ctx context.Context, account string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ? OR name = ?", account, account).
		Order("id").
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *GormTeacherRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Teacher{}).
		Where("id = ?", id).
		Update("last_login", at).
		Error
}
