package service

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/util"
	"code_practice_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultQuestionScore = 10

type QuestionInput struct {
	Language     string          `json:"language"`
	Type         string          `json:"type"`
	ChapterID    *uint           `json:"chapter_id"`
	Difficulty   string          `json:"difficulty"`
	Content      string          `json:"content"`
	Options      json.RawMessage `json:"options"`
	CodeTemplate string          `json:"code_template"`
	Answer       string          `json:"answer"`
	Analysis     string          `json:"analysis"`
	Score        float64         `json:"score"`
}

// OptionalUint distinguishes an absent JSON field from an explicit null.
type OptionalUint struct {
	Set   bool
	Value *uint
}

func (o *OptionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// QuestionPatch carries the fields of a partial update; nil means unchanged.
type QuestionPatch struct {
	Language     *string          `json:"language"`
	Type         *string          `json:"type"`
	ChapterID    OptionalUint     `json:"chapter_id"`
	Difficulty   *string          `json:"difficulty"`
	Content      *string          `json:"content"`
	Options      *json.RawMessage `json:"options"`
	CodeTemplate *string          `json:"code_template"`
	Answer       *string          `json:"answer"`
	Analysis     *string          `json:"analysis"`
	Score        *float64         `json:"score"`
}

func (p QuestionPatch) empty() bool {
	return p.Language == nil && p.Type == nil && !p.ChapterID.Set && p.Difficulty == nil &&
		p.Content == nil && p.Options == nil && p.CodeTemplate == nil && p.Answer == nil &&
		p.Analysis == nil && p.Score == nil
}

type ImportResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

type QuestionCounts struct {
	Total      int64            `json:"total"`
	ByType     map[string]int64 `json:"byType"`
	ByLanguage map[string]int64 `json:"byLanguage"`
}

type QuestionService struct {
	Store repository.Store
}

func NewQuestionService(store repository.Store) *QuestionService {
	return &QuestionService{Store: store}
}

func validLanguage(l string) bool {
	for _, v := range model.Languages {
		if string(v) == l {
			return true
		}
	}
	return false
}

func (in QuestionInput) toModel() (*model.Question, error) {
	if !validLanguage(in.Language) || !model.QuestionType(in.Type).Valid() || strings.TrimSpace(in.Content) == "" {
		return nil, util.ErrInvalidQuestion
	}
	q := &model.Question{
		Language:     model.Language(in.Language),
		Type:         model.QuestionType(in.Type),
		ChapterID:    in.ChapterID,
		Difficulty:   model.Difficulty(in.Difficulty),
		Content:      in.Content,
		Options:      in.Options,
		CodeTemplate: in.CodeTemplate,
		Answer:       in.Answer,
		Analysis:     in.Analysis,
		Score:        in.Score,
	}
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyMedium
	}
	if q.Score <= 0 {
		q.Score = defaultQuestionScore
	}
	if q.ChapterID != nil && *q.ChapterID == 0 {
		q.ChapterID = nil
	}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, f repository.QuestionFilter) ([]model.Question, int64, error) {
	f.Language = filterValue(f.Language)
	f.Type = filterValue(f.Type)
	f.Difficulty = filterValue(f.Difficulty)
	questions, total, err := s.Store.Questions().List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("查询题目失败: %w", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, total, nil
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.Store.Questions().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询题目失败: %w", err)
	}
	return q, nil
}

// Create stores a question and bumps its chapter's question count.
func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (*model.Question, error) {
	q, err := in.toModel()
	if err != nil {
		return nil, err
	}

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Questions().Create(ctx, q); err != nil {
			return err
		}
		if q.ChapterID != nil {
			return tx.Chapters().AdjustQuestionCount(ctx, *q.ChapterID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("创建题目失败: %w", err)
	}
	return q, nil
}

// Import creates questions one by one; a failing item does not stop the rest.
func (s *QuestionService) Import(ctx context.Context, items []QuestionInput) (*ImportResult, error) {
	if len(items) == 0 {
		return nil, util.ErrInvalidQuestion
	}

	res := &ImportResult{Errors: []string{}}
	for _, in := range items {
		if _, err := s.Create(ctx, in); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("题目导入失败: %s...", preview(in.Content, 20)))
			logger.FromContext(ctx).Warn("题目导入失败", zap.String("content", preview(in.Content, 20)), zap.Error(err))
			continue
		}
		res.Success++
	}
	return res, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// Update applies a partial update, moving the question between chapter
// counts when its chapter changes.
func (s *QuestionService) Update(ctx context.Context, id uint, p QuestionPatch) (*model.Question, error) {
	if p.empty() {
		return nil, util.ErrNothingToUpdate
	}

	var updated *model.Question
	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		q, err := tx.Questions().FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		if err != nil {
			return err
		}
		oldChapter := q.ChapterID

		if p.Language != nil {
			if !validLanguage(*p.Language) {
				return util.ErrInvalidQuestion
			}
			q.Language = model.Language(*p.Language)
		}
		if p.Type != nil {
			if !model.QuestionType(*p.Type).Valid() {
				return util.ErrInvalidQuestion
			}
			q.Type = model.QuestionType(*p.Type)
		}
		if p.ChapterID.Set {
			q.ChapterID = p.ChapterID.Value
		}
		if p.Difficulty != nil {
			q.Difficulty = model.Difficulty(*p.Difficulty)
		}
		if p.Content != nil {
			q.Content = *p.Content
		}
		if p.Options != nil {
			q.Options = *p.Options
		}
		if p.CodeTemplate != nil {
			q.CodeTemplate = *p.CodeTemplate
		}
		if p.Answer != nil {
			q.Answer = *p.Answer
		}
		if p.Analysis != nil {
			q.Analysis = *p.Analysis
		}
		if p.Score != nil {
			q.Score = *p.Score
		}
		q.Chapter = nil

		if err := tx.Questions().Update(ctx, q); err != nil {
			return err
		}

		if p.ChapterID.Set && !sameChapter(oldChapter, q.ChapterID) {
			if oldChapter != nil {
				if err := tx.Chapters().AdjustQuestionCount(ctx, *oldChapter, -1); err != nil {
					return err
				}
			}
			if q.ChapterID != nil {
				if err := tx.Chapters().AdjustQuestionCount(ctx, *q.ChapterID, 1); err != nil {
					return err
				}
			}
		}
		updated = q
		return nil
	})
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) || errors.Is(err, util.ErrInvalidQuestion) {
			return nil, err
		}
		return nil, fmt.Errorf("更新题目失败: %w", err)
	}
	return updated, nil
}

func sameChapter(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		q, err := tx.Questions().FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Questions().Delete(ctx, id); err != nil {
			return err
		}
		if q.ChapterID != nil {
			return tx.Chapters().AdjustQuestionCount(ctx, *q.ChapterID, -1)
		}
		return nil
	})
	if err != nil && !errors.Is(err, util.ErrQuestionNotFound) {
		return fmt.Errorf("删除题目失败: %w", err)
	}
	return err
}

func (s *QuestionService) Counts(ctx context.Context) (*QuestionCounts, error) {
	repo := s.Store.Questions()
	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计题目失败: %w", err)
	}
	byType, err := repo.CountBy(ctx, "type")
	if err != nil {
		return nil, fmt.Errorf("统计题目失败: %w", err)
	}
	byLanguage, err := repo.CountBy(ctx, "language")
	if err != nil {
		return nil, fmt.Errorf("统计题目失败: %w", err)
	}

	out := &QuestionCounts{
		Total:      total,
		ByType:     make(map[string]int64, len(model.QuestionTypes)),
		ByLanguage: make(map[string]int64, len(model.Languages)),
	}
	for _, t := range model.QuestionTypes {
		out.ByType[string(t)] = byType[string(t)]
	}
	for _, l := range model.Languages {
		out.ByLanguage[string(l)] = byLanguage[string(l)]
	}
	return out, nil
}
