package service

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

type RateStat struct {
	Total   int64 `json:"total"`
	Correct int64 `json:"correct"`
	Rate    int   `json:"rate"`
}

type SessionView struct {
	ID             uint      `json:"id"`
	Mode           string    `json:"mode"`
	Language       *string   `json:"language"`
	Type           *string   `json:"type"`
	TotalQuestions int       `json:"total_questions"`
	CorrectCount   int       `json:"correct_count"`
	Score          float64   `json:"score"`
	StartedAt      time.Time `json:"started_at"`
}

type StudentStats struct {
	TotalQuestions int64                          `json:"total_questions"`
	CorrectCount   int64                          `json:"correct_count"`
	AccuracyRate   int                            `json:"accuracy_rate"`
	ByLanguage     map[string]RateStat            `json:"by_language"`
	ByType         map[string]RateStat            `json:"by_type"`
	ByChapter      map[string]map[string]RateStat `json:"by_chapter"`
	RecentSessions []SessionView                  `json:"recent_sessions"`
}

type StatisticsService struct {
	Store repository.Store
}

func NewStatisticsService(store repository.Store) *StatisticsService {
	return &StatisticsService{Store: store}
}

// percent rounds correct/total to a whole percentage, half up.
func percent(correct, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(correct)/float64(total)*100 + 0.5))
}

func rateOf(total, correct int64) RateStat {
	return RateStat{Total: total, Correct: correct, Rate: percent(correct, total)}
}

// StudentStats aggregates every answer a student has submitted.
func (s *StatisticsService) StudentStats(ctx context.Context, studentID string) (*StudentStats, error) {
	if studentID == "" {
		return nil, util.ErrInvalidSubmission
	}

	student, err := s.Store.Students().FindByStudentID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询学生失败: %w", err)
	}

	stats := s.Store.Statistics()
	totals, err := stats.AnswerTotals(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("统计答题总数失败: %w", err)
	}

	out := &StudentStats{
		TotalQuestions: totals.Total,
		CorrectCount:   totals.Correct,
		AccuracyRate:   percent(totals.Correct, totals.Total),
		ByLanguage:     make(map[string]RateStat, len(model.Languages)),
		ByType:         make(map[string]RateStat, len(model.QuestionTypes)),
		ByChapter:      map[string]map[string]RateStat{},
		RecentSessions: []SessionView{},
	}
	for _, l := range model.Languages {
		out.ByLanguage[string(l)] = RateStat{}
	}
	for _, t := range model.QuestionTypes {
		out.ByType[string(t)] = RateStat{}
	}

	byLanguage, err := stats.ByQuestionColumn(ctx, student.ID, "language")
	if err != nil {
		return nil, fmt.Errorf("按语言统计失败: %w", err)
	}
	for _, g := range byLanguage {
		if _, known := out.ByLanguage[g.Key]; known {
			out.ByLanguage[g.Key] = rateOf(g.Total, g.Correct)
		}
	}

	byType, err := stats.ByQuestionColumn(ctx, student.ID, "type")
	if err != nil {
		return nil, fmt.Errorf("按题型统计失败: %w", err)
	}
	for _, g := range byType {
		if _, known := out.ByType[g.Key]; known {
			out.ByType[g.Key] = rateOf(g.Total, g.Correct)
		}
	}

	byChapter, err := stats.ByChapter(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("按章节统计失败: %w", err)
	}
	for _, c := range byChapter {
		if c.Language == "" || c.ChapterName == "" {
			continue
		}
		if out.ByChapter[c.Language] == nil {
			out.ByChapter[c.Language] = map[string]RateStat{}
		}
		out.ByChapter[c.Language][c.ChapterName] = rateOf(c.Total, c.Correct)
	}

	recent, err := s.Store.Practices().RecentRecords(ctx, student.ID, util.RecentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("查询最近练习失败: %w", err)
	}
	for _, r := range recent {
		out.RecentSessions = append(out.RecentSessions, SessionView{
			ID:             r.ID,
			Mode:           string(r.PracticeMode),
			Language:       r.Language,
			Type:           r.QuestionType,
			TotalQuestions: r.TotalQuestions,
			CorrectCount:   r.CorrectCount,
			Score:          r.Score,
			StartedAt:      r.StartedAt,
		})
	}

	return out, nil
}
