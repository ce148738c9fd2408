package repository

import (
	"code_practice_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// WrongAnswerFilter narrows a student's wrong-answer book.
type WrongAnswerFilter struct {
	StudentID uint
	Language  string
	Type      string
	Statuses  []model.MasteryStatus
}

type WrongAnswerRepository interface {
	// Find returns (nil, nil) when the student has no entry for the question.
	Find(ctx context.Context, studentID, questionID uint) (*model.WrongAnswer, error)
	FindByID(ctx context.Context, id uint) (*model.WrongAnswer, error)
	Create(ctx context.Context, wa *model.WrongAnswer) error
	Save(ctx context.Context, wa *model.WrongAnswer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f WrongAnswerFilter) ([]model.WrongAnswer, error)
	CountByStatus(ctx context.Context, studentID uint) (map[model.MasteryStatus]int64, error)
}

type GormWrongAnswerRepository struct {
	DB *gorm.DB
}

func NewWrongAnswerRepository(db *gorm.DB) *GormWrongAnswerRepository {
	return &GormWrongAnswerRepository{DB: db}
}

func (r *GormWrongAnswerRepository) Find(ctx context.Context, studentID, questionID uint) (*model.WrongAnswer, error) {
	var wa model.WrongAnswer
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND question_id = ?", studentID, questionID).
		First(&wa).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wa, nil
}

func (r *GormWrongAnswerRepository) FindByID(ctx context.Context, id uint) (*model.WrongAnswer, error) {
	var wa model.WrongAnswer
	if err := r.DB.WithContext(ctx).First(&wa, id).Error; err != nil {
		return nil, err
	}
	return &wa, nil
}

func (r *GormWrongAnswerRepository) Create(ctx context.Context, wa *model.WrongAnswer) error {
	return r.DB.WithContext(ctx).Omit("Question").Create(wa).Error
}

func (r *GormWrongAnswerRepository) Save(ctx context.Context, wa *model.WrongAnswer) error {
	return r.DB.WithContext(ctx).Omit("Question").Save(wa).Error
}

func (r *GormWrongAnswerRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.WrongAnswer{}, id).Error
}

func (r *GormWrongAnswerRepository) List(ctx context.Context, f WrongAnswerFilter) ([]model.WrongAnswer, error) {
	db := r.DB.WithContext(ctx).Joins("Question").
		Where("wrong_answers.student_id = ?", f.StudentID)
	if f.Language != "" {
		db = db.Where("Question.language = ?", f.Language)
	}
	if f.Type != "" {
		db = db.Where("Question.type = ?", f.Type)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("wrong_answers.status IN ?", f.Statuses)
	}

	var list []model.WrongAnswer
	err := db.Order("wrong_answers.last_wrong_at DESC").Find(&list).Error
	return list, err
}

func (r *GormWrongAnswerRepository) CountByStatus(ctx context.Context, studentID uint) (map[model.MasteryStatus]int64, error) {
	var rows []struct {
		Status model.MasteryStatus
		Count  int64
	}
	err := r.DB.WithContext(ctx).Model(&model.WrongAnswer{}).
		Select("status, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.MasteryStatus]int64, len(model.MasteryStatuses))
	for _, s := range model.MasteryStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		if row.Status.Valid() {
			counts[row.Status] = row.Count
		}
	}
	return counts, nil
}
