package service

import (
	"code_practice_backend/internal/grading"
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/util"
	"code_practice_backend/pkg/logger"
	"code_practice_backend/pkg/monitoring"
	"code_practice_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MasteryNotifier is told about ledger changes once a submission has
// committed.
type MasteryNotifier interface {
	NotifyMastery(ctx context.Context, events []model.MasteryEvent)
}

// StringList accepts either a JSON string or an array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Joined renders the list comma separated, or nil when empty.
func (l StringList) Joined() *string {
	if len(l) == 0 {
		return nil
	}
	s := strings.Join(l, ",")
	return &s
}

// ChapterRef accepts a chapter id sent as a JSON number or string. Null, a
// blank string, zero and anything that is not a single id (a comma joined
// chapter list) leave it unset.
type ChapterRef struct {
	ID *uint
}

func (r *ChapterRef) UnmarshalJSON(data []byte) error {
	r.ID = nil
	if string(data) == "null" {
		return nil
	}
	var v uint64
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil
		}
		v = parsed
	} else if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == 0 {
		return nil
	}
	id := uint(v)
	r.ID = &id
	return nil
}

type AnswerInput struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

type SubmitRequest struct {
	StudentID    string        `json:"student_id"`
	Mode         string        `json:"mode"`
	Language     string        `json:"language"`
	QuestionType StringList    `json:"question_type"`
	ChapterID    ChapterRef    `json:"chapter_id"`
	Answers      []AnswerInput `json:"answers"`
	QuestionIDs  []uint        `json:"question_ids"`
}

type GradeResult struct {
	QuestionID      uint    `json:"question_id"`
	IsCorrect       bool    `json:"is_correct"`
	Status          string  `json:"status"`
	CorrectAnswer   string  `json:"correct_answer"`
	Score           float64 `json:"score"`
	MatchPercentage *int    `json:"match_percentage,omitempty"`
}

type SubmitResult struct {
	PracticeID         uint          `json:"practice_id"`
	TotalScore         float64       `json:"total_score"`
	CorrectCount       int           `json:"correct_count"`
	TotalQuestions     int           `json:"total_questions"`
	Results            []GradeResult `json:"results"`
	MissingQuestionIDs []uint        `json:"missing_question_ids,omitempty"`
}

// PracticeQuestion is a question as shown to a student: no answer, no
// analysis.
type PracticeQuestion struct {
	ID           uint               `json:"id"`
	Language     model.Language     `json:"language"`
	Type         model.QuestionType `json:"type"`
	ChapterID    *uint              `json:"chapter_id"`
	Difficulty   model.Difficulty   `json:"difficulty"`
	Content      string             `json:"content"`
	Options      json.RawMessage    `json:"options"`
	CodeTemplate string             `json:"code_template"`
	Score        float64            `json:"score"`
}

type PickRequest struct {
	Mode      string
	Language  string
	Types     []string
	ChapterID *uint
	Count     int
}

type RecordView struct {
	ID           uint      `json:"id"`
	Mode         string    `json:"mode"`
	Language     *string   `json:"language"`
	QuestionType *string   `json:"question_type"`
	ChapterID    *uint     `json:"chapter_id"`
	ChapterName  *string   `json:"chapter_name"`
	Score        float64   `json:"score"`
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`
	Duration     int       `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
	StudentName  string    `json:"student_name"`
	StudentID    string    `json:"student_id"`
	ClassName    string    `json:"class_name"`
}

type PracticeService struct {
	Store    repository.Store
	Grader   *grading.Grader
	Ledger   *MasteryLedger
	Notifier MasteryNotifier

	now func() time.Time
}

func NewPracticeService(store repository.Store, grader *grading.Grader, notifier MasteryNotifier) *PracticeService {
	return &PracticeService{
		Store:    store,
		Grader:   grader,
		Ledger:   NewMasteryLedger(),
		Notifier: notifier,
		now:      time.Now,
	}
}

// SetPolicy swaps the grading thresholds used by later submissions.
func (s *PracticeService) SetPolicy(p grading.Policy) {
	s.Grader.SetPolicy(p)
}

var practiceModes = map[string]model.PracticeMode{
	"language": model.ModeByLanguage,
	"type":     model.ModeByType,
	"chapter":  model.ModeByChapter,
	"exam":     model.ModeExam,
}

// practiceModeFor maps a client mode tag to the stored mode; unknown tags
// are recorded as by_language.
func practiceModeFor(tag string) model.PracticeMode {
	if m, ok := practiceModes[tag]; ok {
		return m
	}
	return model.ModeByLanguage
}

func toGradingQuestion(q model.Question) grading.Question {
	return grading.Question{
		ID:           q.ID,
		Type:         grading.QuestionType(q.Type),
		Answer:       q.Answer,
		CodeTemplate: q.CodeTemplate,
		Score:        q.Score,
	}
}

// Submit grades a batch of answers, stores the practice record, one answer
// record per graded question and the resulting ledger changes in a single
// transaction.
func (s *PracticeService) Submit(ctx context.Context, req SubmitRequest) (result *SubmitResult, err error) {
	start := s.now()
	mode := practiceModeFor(req.Mode)

	ctx, span := tracing.Tracer.Start(ctx, "practice.submit")
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		monitoring.ObserveSubmission(string(mode), outcome, time.Since(start))
		span.End()
	}()
	span.SetAttributes(
		attribute.String("practice.student_id", req.StudentID),
		attribute.String("practice.mode", string(mode)),
		attribute.Int("practice.questions", len(req.QuestionIDs)),
	)

	if strings.TrimSpace(req.StudentID) == "" || req.Answers == nil || len(req.QuestionIDs) == 0 {
		return nil, util.ErrInvalidSubmission
	}

	student, err := s.Store.Students().FindByStudentID(ctx, req.StudentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询学生失败: %w", err)
	}

	questions, err := s.Store.Questions().FindByIDs(ctx, req.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("查询题目失败: %w", err)
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	// 同一题目多次作答时以第一条为准
	answers := make(map[uint]string, len(req.Answers))
	for _, a := range req.Answers {
		if _, ok := answers[a.QuestionID]; !ok {
			answers[a.QuestionID] = a.Answer
		}
	}

	result = &SubmitResult{
		TotalQuestions: len(req.QuestionIDs),
		Results:        make([]GradeResult, 0, len(req.QuestionIDs)),
	}
	var events []model.MasteryEvent

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		events = events[:0]
		result.Results = result.Results[:0]
		result.MissingQuestionIDs = nil

		record := &model.PracticeRecord{
			StudentID:      student.ID,
			PracticeMode:   mode,
			Language:       optionalString(req.Language),
			QuestionType:   req.QuestionType.Joined(),
			ChapterID:      req.ChapterID.ID,
			TotalQuestions: len(req.QuestionIDs),
			Status:         model.PracticeInProgress,
		}
		if err := tx.Practices().CreateRecord(ctx, record); err != nil {
			return fmt.Errorf("创建练习记录失败: %w", err)
		}

		var totalScore float64
		correctCount := 0
		for _, qid := range req.QuestionIDs {
			q, ok := byID[qid]
			if !ok {
				result.MissingQuestionIDs = append(result.MissingQuestionIDs, qid)
				continue
			}

			answer := answers[qid]
			verdict := s.Grader.Grade(toGradingQuestion(q), answer)
			monitoring.ObserveGrade(string(q.Type), string(verdict.Status), verdict.MatchPercentage)

			if verdict.IsCorrect {
				correctCount++
			}
			totalScore += verdict.Score

			if err := tx.Practices().CreateAnswer(ctx, &model.AnswerRecord{
				PracticeRecordID: record.ID,
				QuestionID:       qid,
				StudentAnswer:    answer,
				IsCorrect:        verdict.IsCorrect,
				Score:            verdict.Score,
				Status:           string(verdict.Status),
			}); err != nil {
				return fmt.Errorf("保存答题记录失败: %w", err)
			}

			ev, err := s.Ledger.Record(ctx, tx.WrongAnswers(), student.ID, qid, verdict.IsCorrect, answer)
			if err != nil {
				return err
			}
			if ev != nil {
				events = append(events, *ev)
			}

			result.Results = append(result.Results, GradeResult{
				QuestionID:      qid,
				IsCorrect:       verdict.IsCorrect,
				Status:          string(verdict.Status),
				CorrectAnswer:   verdict.CorrectAnswer,
				Score:           verdict.Score,
				MatchPercentage: verdict.MatchPercentage,
			})
		}

		result.PracticeID = record.ID
		result.CorrectCount = correctCount
		result.TotalScore = grading.RoundScore(totalScore)

		return tx.Practices().CompleteRecord(ctx, record.ID, repository.RecordTotals{
			CorrectCount: correctCount,
			WrongCount:   len(req.QuestionIDs) - correctCount,
			Score:        result.TotalScore,
			CompletedAt:  s.now(),
		})
	})
	if err != nil {
		logger.FromContext(ctx).Error("提交练习失败",
			zap.String("student_id", req.StudentID),
			zap.Error(err))
		return nil, err
	}

	if len(result.MissingQuestionIDs) > 0 {
		logger.FromContext(ctx).Warn("提交中包含不存在的题目，已跳过",
			zap.String("student_id", req.StudentID),
			zap.Uint("practice_id", result.PracticeID),
			zap.Uints("missing_question_ids", result.MissingQuestionIDs))
	}

	if s.Notifier != nil && len(events) > 0 {
		s.Notifier.NotifyMastery(ctx, events)
	}

	span.SetAttributes(
		attribute.Int64("practice.record_id", int64(result.PracticeID)),
		attribute.Float64("practice.total_score", result.TotalScore),
	)
	logger.FromContext(ctx).Info("练习提交完成",
		zap.String("student_id", req.StudentID),
		zap.Uint("practice_id", result.PracticeID),
		zap.Int("correct", result.CorrectCount),
		zap.Int("total", result.TotalQuestions),
		zap.Float64("score", result.TotalScore))

	return result, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type examQuota struct {
	Type  model.QuestionType
	Count int
}

var examMix = []examQuota{
	{model.TypeSingleChoice, util.ExamSingleChoiceCount},
	{model.TypeFillBlank, util.ExamFillBlankCount},
	{model.TypeErrorFix, util.ExamErrorFixCount},
	{model.TypeProgramming, util.ExamProgrammingCount},
}

// PickQuestions draws random questions for a practice session. Exam mode
// draws a fixed mix per question type and ignores Types and Count.
func (s *PracticeService) PickQuestions(ctx context.Context, req PickRequest) ([]PracticeQuestion, error) {
	var picked []model.Question
	if req.Mode == string(model.ModeExam) {
		for _, quota := range examMix {
			qs, err := s.Store.Questions().Pick(ctx, repository.PickFilter{
				Language:  req.Language,
				Types:     []string{string(quota.Type)},
				ChapterID: req.ChapterID,
				Limit:     quota.Count,
			})
			if err != nil {
				return nil, fmt.Errorf("抽取考试题目失败: %w", err)
			}
			picked = append(picked, qs...)
		}
	} else {
		count := req.Count
		if count <= 0 {
			count = util.DefaultPracticeCount
		}
		qs, err := s.Store.Questions().Pick(ctx, repository.PickFilter{
			Language:  req.Language,
			Types:     req.Types,
			ChapterID: req.ChapterID,
			Limit:     count,
		})
		if err != nil {
			return nil, fmt.Errorf("抽取练习题目失败: %w", err)
		}
		picked = qs
	}

	out := make([]PracticeQuestion, 0, len(picked))
	for _, q := range picked {
		out = append(out, PracticeQuestion{
			ID:           q.ID,
			Language:     q.Language,
			Type:         q.Type,
			ChapterID:    q.ChapterID,
			Difficulty:   q.Difficulty,
			Content:      q.Content,
			Options:      q.Options,
			CodeTemplate: q.CodeTemplate,
			Score:        q.Score,
		})
	}
	return out, nil
}

// ListRecords returns practice records newest first together with the total
// number of matching records.
func (s *PracticeService) ListRecords(ctx context.Context, f repository.RecordFilter) ([]RecordView, int64, error) {
	if f.Limit <= 0 {
		f.Limit = util.DefaultRecordsLimit
	}
	if f.Limit > util.MaxPageSize {
		f.Limit = util.MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	records, total, err := s.Store.Practices().ListRecords(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("查询练习记录失败: %w", err)
	}

	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		v := RecordView{
			ID:           r.ID,
			Mode:         string(r.PracticeMode),
			Language:     r.Language,
			QuestionType: r.QuestionType,
			ChapterID:    r.ChapterID,
			Score:        r.Score,
			CorrectCount: r.CorrectCount,
			TotalCount:   r.TotalQuestions,
			Duration:     r.TimeSpent,
			CreatedAt:    r.StartedAt,
		}
		if r.Chapter != nil {
			name := r.Chapter.Name
			v.ChapterName = &name
		}
		if r.Student != nil {
			v.StudentName = r.Student.Name
			v.StudentID = r.Student.StudentID
			v.ClassName = r.Student.ClassName
		}
		views = append(views, v)
	}
	return views, total, nil
}
