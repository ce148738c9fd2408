package repository

import (
	"code_practice_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// RecordFilter narrows practice record listings. StudentID is the business
// student id; empty fields match all.
type RecordFilter struct {
	StudentID string
	Language  string
	Limit     int
	Offset    int
}

// RecordTotals are the figures written back when a batch completes.
type RecordTotals struct {
	CorrectCount int
	WrongCount   int
	Score        float64
	CompletedAt  time.Time
}

type PracticeRepository interface {
	CreateRecord(ctx context.Context, rec *model.PracticeRecord) error
	CreateAnswer(ctx context.Context, ans *model.AnswerRecord) error
	CompleteRecord(ctx context.Context, id uint, totals RecordTotals) error
	ListRecords(ctx context.Context, f RecordFilter) ([]model.PracticeRecord, int64, error)
	RecentRecords(ctx context.Context, studentID uint, limit int) ([]model.PracticeRecord, error)
}

type GormPracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *GormPracticeRepository {
	return &GormPracticeRepository{DB: db}
}

func (r *GormPracticeRepository) CreateRecord(ctx context.Context, rec *model.PracticeRecord) error {
	return r.DB.WithContext(ctx).Omit("Student", "Chapter").Create(rec).Error
}

func (r *GormPracticeRepository) CreateAnswer(ctx context.Context, ans *model.AnswerRecord) error {
	return r.DB.WithContext(ctx).Create(ans).Error
}

func (r *GormPracticeRepository) CompleteRecord(ctx context.Context, id uint, totals RecordTotals) error {
	return r.DB.WithContext(ctx).Model(&model.PracticeRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"correct_count": totals.CorrectCount,
			"wrong_count":   totals.WrongCount,
			"score":         totals.Score,
			"status":        model.PracticeCompleted,
			"completed_at":  totals.CompletedAt,
		}).Error
}

func (r *GormPracticeRepository) ListRecords(ctx context.Context, f RecordFilter) ([]model.PracticeRecord, int64, error) {
	db := r.DB.WithContext(ctx).Model(&model.PracticeRecord{}).Joins("Student")
	if f.StudentID != "" {
		db = db.Where("Student.student_id = ?", f.StudentID)
	}
	if f.Language != "" {
		db = db.Where("practice_records.language = ?", f.Language)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.PracticeRecord
	err := db.Preload("Chapter").
		Order("practice_records.started_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&records).Error
	return records, total, err
}

func (r *GormPracticeRepository) RecentRecords(ctx context.Context, studentID uint, limit int) ([]model.PracticeRecord, error) {
	var records []model.PracticeRecord
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
