package repository

import (
	"code_practice_backend/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// QuestionFilter narrows question bank listings. Empty fields match all.
type QuestionFilter struct {
	Language   string
	Type       string
	ChapterID  *uint
	Difficulty string
	Limit      int
	Offset     int
}

// PickFilter selects random practice questions.
type PickFilter struct {
	Language  string
	Types     []string
	ChapterID *uint
	Limit     int
}

type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	// FindByIDs loads the questions in one query; ids with no row are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error)
	List(ctx context.Context, f QuestionFilter) ([]model.Question, int64, error)
	Pick(ctx context.Context, f PickFilter) ([]model.Question, error)
	// CountBy groups question counts by "type" or "language".
	CountBy(ctx context.Context, column string) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
	CountByChapter(ctx context.Context, chapterID uint) (int64, error)
}

type GormQuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{DB: db}
}

func (r *GormQuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *GormQuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Omit("Chapter").Save(q).Error
}

func (r *GormQuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Question{}, id).Error
}

func (r *GormQuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.WithContext(ctx).Preload("Chapter").First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *GormQuestionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *GormQuestionRepository) List(ctx context.Context, f QuestionFilter) ([]model.Question, int64, error) {
	db := r.DB.WithContext(ctx).Model(&model.Question{})
	if f.Language != "" {
		db = db.Where("language = ?", f.Language)
	}
	if f.Type != "" {
		db = db.Where("type = ?", f.Type)
	}
	if f.ChapterID != nil {
		db = db.Where("chapter_id = ?", *f.ChapterID)
	}
	if f.Difficulty != "" {
		db = db.Where("difficulty = ?", f.Difficulty)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []model.Question
	query := db.Preload("Chapter").Order("id DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}
	err := query.Find(&questions).Error
	return questions, total, err
}

func (r *GormQuestionRepository) Pick(ctx context.Context, f PickFilter) ([]model.Question, error) {
	db := r.DB.WithContext(ctx).Model(&model.Question{})
	if f.Language != "" {
		db = db.Where("language = ?", f.Language)
	}
	if len(f.Types) > 0 {
		db = db.Where("type IN ?", f.Types)
	}
	if f.ChapterID != nil {
		db = db.Where("chapter_id = ?", *f.ChapterID)
	}

	var questions []model.Question
	err := db.Order(randomOrder(r.DB)).Limit(f.Limit).Find(&questions).Error
	return questions, err
}

func (r *GormQuestionRepository) CountBy(ctx context.Context, column string) (map[string]int64, error) {
	if column != "type" && column != "language" {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}

	var rows []struct {
		Grp   string
		Count int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select(column + " AS grp, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Grp] = row.Count
	}
	return counts, nil
}

func (r *GormQuestionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Count(&total).Error
	return total, err
}

func (r *GormQuestionRepository) CountByChapter(ctx context.Context, chapterID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("chapter_id = ?", chapterID).
		Count(&total).Error
	return total, err
}

func randomOrder(db *gorm.DB) string {
	if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
		return "RANDOM()"
	}
	return "RAND()"
}
