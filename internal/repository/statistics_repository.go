package repository

import (
	"code_practice_backend/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GroupStat counts answers and correct answers under one grouping key.
type GroupStat struct {
	Key     string `gorm:"column:grp_key"`
	Total   int64
	Correct int64
}

// ChapterStat is a GroupStat keyed by language and chapter.
type ChapterStat struct {
	Language    string
	ChapterID   uint
	ChapterName string
	Total       int64
	Correct     int64
}

type StatisticsRepository interface {
	AnswerTotals(ctx context.Context, studentID uint) (GroupStat, error)
	// ByQuestionColumn groups a student's answers by "language" or "type".
	ByQuestionColumn(ctx context.Context, studentID uint, column string) ([]GroupStat, error)
	ByChapter(ctx context.Context, studentID uint) ([]ChapterStat, error)
}

type GormStatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *GormStatisticsRepository {
	return &GormStatisticsRepository{DB: db}
}

const correctSum = "COALESCE(SUM(CASE WHEN answer_records.is_correct THEN 1 ELSE 0 END), 0) AS correct"

func (r *GormStatisticsRepository) answers(ctx context.Context, studentID uint) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.AnswerRecord{}).
		Joins("JOIN practice_records ON answer_records.practice_record_id = practice_records.id").
		Where("practice_records.student_id = ?", studentID)
}

func (r *GormStatisticsRepository) AnswerTotals(ctx context.Context, studentID uint) (GroupStat, error) {
	var stat GroupStat
	err := r.answers(ctx, studentID).
		Select("COUNT(*) AS total, " + correctSum).
		Scan(&stat).Error
	return stat, err
}

func (r *GormStatisticsRepository) ByQuestionColumn(ctx context.Context, studentID uint, column string) ([]GroupStat, error) {
	if column != "language" && column != "type" {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}

	var stats []GroupStat
	err := r.answers(ctx, studentID).
		Joins("JOIN questions ON answer_records.question_id = questions.id").
		Where("questions." + column + " IS NOT NULL").
		Select("questions." + column + " AS grp_key, COUNT(*) AS total, " + correctSum).
		Group("questions." + column).
		Scan(&stats).Error
	return stats, err
}

func (r *GormStatisticsRepository) ByChapter(ctx context.Context, studentID uint) ([]ChapterStat, error) {
	var stats []ChapterStat
	err := r.answers(ctx, studentID).
		Joins("JOIN questions ON answer_records.question_id = questions.id").
		Joins("JOIN chapters ON questions.chapter_id = chapters.id").
		Where("questions.language IS NOT NULL").
		Select("questions.language AS language, chapters.id AS chapter_id, chapters.name AS chapter_name, COUNT(*) AS total, " + correctSum).
		Group("questions.language, chapters.id, chapters.name").
		Scan(&stats).Error
	return stats, err
}
