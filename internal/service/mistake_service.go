package service

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MistakeCountCache caches per-status wrong-answer counts per student.
type MistakeCountCache interface {
	Get(ctx context.Context, studentID uint) (map[model.MasteryStatus]int64, bool)
	Set(ctx context.Context, studentID uint, counts map[model.MasteryStatus]int64)
	Invalidate(ctx context.Context, studentIDs ...uint)
}

type MistakeQuery struct {
	StudentID string
	Language  string
	Type      string
	// Status is a single status or a comma separated list; "all" or empty
	// matches every status.
	Status string
}

type MistakeBook struct {
	Items  []model.WrongAnswer           `json:"data"`
	Counts map[model.MasteryStatus]int64 `json:"counts"`
}

type MistakeService struct {
	Store  repository.Store
	Counts MistakeCountCache

	now func() time.Time
}

func NewMistakeService(store repository.Store, counts MistakeCountCache) *MistakeService {
	return &MistakeService{Store: store, Counts: counts, now: time.Now}
}

func filterValue(v string) string {
	if v == "all" {
		return ""
	}
	return v
}

// List returns a student's wrong-answer book, most recent mistakes first,
// with the per-status counts of the whole book.
func (s *MistakeService) List(ctx context.Context, q MistakeQuery) (*MistakeBook, error) {
	if q.StudentID == "" {
		return nil, util.ErrInvalidSubmission
	}

	student, err := s.Store.Students().FindByStudentID(ctx, q.StudentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询学生失败: %w", err)
	}

	filter := repository.WrongAnswerFilter{
		StudentID: student.ID,
		Language:  filterValue(q.Language),
		Type:      filterValue(q.Type),
	}
	if status := filterValue(q.Status); status != "" {
		for _, st := range util.SplitCSV(status) {
			filter.Statuses = append(filter.Statuses, model.MasteryStatus(st))
		}
	}

	items, err := s.Store.WrongAnswers().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询错题失败: %w", err)
	}
	if items == nil {
		items = []model.WrongAnswer{}
	}

	counts, err := s.counts(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return &MistakeBook{Items: items, Counts: counts}, nil
}

func (s *MistakeService) counts(ctx context.Context, studentID uint) (map[model.MasteryStatus]int64, error) {
	if s.Counts != nil {
		if counts, ok := s.Counts.Get(ctx, studentID); ok {
			return counts, nil
		}
	}

	counts, err := s.Store.WrongAnswers().CountByStatus(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("统计错题失败: %w", err)
	}
	if s.Counts != nil {
		s.Counts.Set(ctx, studentID, counts)
	}
	return counts, nil
}

// UpdateStatus records a manual review: the status is set, review_count is
// incremented and last_review_at is stamped.
func (s *MistakeService) UpdateStatus(ctx context.Context, id uint, status model.MasteryStatus) (*model.WrongAnswer, error) {
	if !status.Valid() {
		return nil, util.ErrInvalidStatus
	}

	wa, err := s.Store.WrongAnswers().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrWrongAnswerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询错题失败: %w", err)
	}

	now := s.now()
	wa.Status = status
	wa.ReviewCount++
	wa.LastReviewAt = &now
	if err := s.Store.WrongAnswers().Save(ctx, wa); err != nil {
		return nil, fmt.Errorf("更新错题状态失败: %w", err)
	}

	if s.Counts != nil {
		s.Counts.Invalidate(ctx, wa.StudentID)
	}
	return wa, nil
}

func (s *MistakeService) Delete(ctx context.Context, id uint) error {
	wa, err := s.Store.WrongAnswers().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrWrongAnswerNotFound
	}
	if err != nil {
		return fmt.Errorf("查询错题失败: %w", err)
	}

	if err := s.Store.WrongAnswers().Delete(ctx, id); err != nil {
		return fmt.Errorf("删除错题失败: %w", err)
	}

	if s.Counts != nil {
		s.Counts.Invalidate(ctx, wa.StudentID)
	}
	return nil
}

// Owner returns the business student id owning a wrong-answer entry.
func (s *MistakeService) Owner(ctx context.Context, id uint) (string, error) {
	wa, err := s.Store.WrongAnswers().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrWrongAnswerNotFound
	}
	if err != nil {
		return "", err
	}
	student, err := s.Store.Students().FindByID(ctx, wa.StudentID)
	if err != nil {
		return "", err
	}
	return student.StudentID, nil
}
