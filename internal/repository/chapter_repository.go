package repository

import (
	"code_practice_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type ChapterRepository interface {
	Create(ctx context.Context, ch *model.Chapter) error
	Update(ctx context.Context, ch *model.Chapter) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Chapter, error)
	List(ctx context.Context, language string) ([]model.Chapter, error)
	MaxSortOrder(ctx context.Context, language string) (int, error)
	// AdjustQuestionCount adds delta to question_count without going below zero.
	AdjustQuestionCount(ctx context.Context, id uint, delta int) error
}

type GormChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *GormChapterRepository {
	return &GormChapterRepository{DB: db}
}

func (r *GormChapterRepository) Create(ctx context.Context, ch *model.Chapter) error {
	return r.DB.WithContext(ctx).Create(ch).Error
}

func (r *GormChapterRepository) Update(ctx context.Context, ch *model.Chapter) error {
	return r.DB.WithContext(ctx).Save(ch).Error
}

func (r *GormChapterRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Chapter{}, id).Error
}

func (r *GormChapterRepository) FindByID(ctx context.Context, id uint) (*model.Chapter, error) {
	var ch model.Chapter
	if err := r.DB.WithContext(ctx).First(&ch, id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *GormChapterRepository) List(ctx context.Context, language string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	db := r.DB.WithContext(ctx)
	if language != "" {
		db = db.Where("language = ?", language)
	}
	err := db.Order("language").Order("sort_order").Find(&chapters).Error
	return chapters, err
}

func (r *GormChapterRepository) MaxSortOrder(ctx context.Context, language string) (int, error) {
	var maxOrder *int
	err := r.DB.WithContext(ctx).Model(&model.Chapter{}).
		Where("language = ?", language).
		Select("MAX(sort_order)").
		Scan(&maxOrder).Error
	if err != nil || maxOrder == nil {
		return 0, err
	}
	return *maxOrder, nil
}

func (r *GormChapterRepository) AdjustQuestionCount(ctx context.Context, id uint, delta int) error {
	db := r.DB.WithContext(ctx).Model(&model.Chapter{}).Where("id = ?", id)
	if delta < 0 {
		db = db.Where("question_count >= ?", -delta)
	}
	return db.Update("question_count", gorm.Expr("question_count + ?", delta)).Error
}
