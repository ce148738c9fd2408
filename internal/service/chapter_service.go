package service

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type ChapterInput struct {
	Language    string `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type ChapterPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

type ChapterService struct {
	Store repository.Store
}

func NewChapterService(store repository.Store) *ChapterService {
	return &ChapterService{Store: store}
}

func (s *ChapterService) List(ctx context.Context, language string) ([]model.Chapter, error) {
	chapters, err := s.Store.Chapters().List(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("获取章节列表失败: %w", err)
	}
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	return chapters, nil
}

// Create appends the chapter after the last one of its language unless a
// sort order is given.
func (s *ChapterService) Create(ctx context.Context, in ChapterInput) (*model.Chapter, error) {
	if !validLanguage(in.Language) || strings.TrimSpace(in.Name) == "" {
		return nil, util.ErrInvalidSubmission
	}

	ch := &model.Chapter{
		Language:    model.Language(in.Language),
		Name:        in.Name,
		Description: in.Description,
		SortOrder:   in.SortOrder,
	}
	if ch.SortOrder == 0 {
		maxOrder, err := s.Store.Chapters().MaxSortOrder(ctx, in.Language)
		if err != nil {
			return nil, fmt.Errorf("创建章节失败: %w", err)
		}
		ch.SortOrder = maxOrder + 1
	}

	if err := s.Store.Chapters().Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("创建章节失败: %w", err)
	}
	return ch, nil
}

func (s *ChapterService) Update(ctx context.Context, id uint, p ChapterPatch) (*model.Chapter, error) {
	if p.Name == nil && p.Description == nil && p.SortOrder == nil {
		return nil, util.ErrNothingToUpdate
	}

	ch, err := s.Store.Chapters().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询章节失败: %w", err)
	}

	if p.Name != nil {
		ch.Name = *p.Name
	}
	if p.Description != nil {
		ch.Description = *p.Description
	}
	if p.SortOrder != nil {
		ch.SortOrder = *p.SortOrder
	}
	if err := s.Store.Chapters().Update(ctx, ch); err != nil {
		return nil, fmt.Errorf("更新章节失败: %w", err)
	}
	return ch, nil
}

// Delete refuses to remove a chapter that still has questions.
func (s *ChapterService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Store.Chapters().FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChapterNotFound
		}
		return fmt.Errorf("查询章节失败: %w", err)
	}

	n, err := s.Store.Questions().CountByChapter(ctx, id)
	if err != nil {
		return fmt.Errorf("删除章节失败: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: 该章节下有 %d 道题目，请先删除或移动这些题目", util.ErrChapterNotEmpty, n)
	}

	if err := s.Store.Chapters().Delete(ctx, id); err != nil {
		return fmt.Errorf("删除章节失败: %w", err)
	}
	return nil
}
