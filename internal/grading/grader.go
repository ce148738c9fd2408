// Package grading scores practice answers. It is free of storage and
// transport concerns: callers hand it a question and the raw submission and
// get back a verdict.
package grading

import (
	"errors"
	"sync/atomic"
)

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	FillBlank    QuestionType = "fill_blank"
	ErrorFix     QuestionType = "error_fix"
	Programming  QuestionType = "programming"
)

type Status string

const (
	StatusCorrect Status = "correct"
	StatusPartial Status = "partial"
	StatusWrong   Status = "wrong"
)

// Question is the part of a stored question the grader needs.
type Question struct {
	ID           uint
	Type         QuestionType
	Answer       string
	CodeTemplate string
	Score        float64
}

// Result is the verdict for one submitted answer.
//
// IsCorrect is what counts toward the correct total and drives the mastery
// ledger. For blank-based questions it can be true while Status is partial,
// once the partial score reaches Policy.PartialCorrectRatio of the value.
type Result struct {
	QuestionID      uint
	IsCorrect       bool
	Status          Status
	Score           float64
	CorrectAnswer   string
	MatchPercentage *int
}

// Policy holds the grading thresholds.
type Policy struct {
	// PartialCorrectRatio is the share of the full value a partially
	// answered blank question must reach to count as correct.
	PartialCorrectRatio float64
	// CorrectSimilarity and PartialSimilarity are the similarity percentages
	// at which a programming answer is graded correct and partial.
	CorrectSimilarity int
	PartialSimilarity int
}

const (
	DefaultPartialCorrectRatio = 0.6
	DefaultCorrectSimilarity   = 90
	DefaultPartialSimilarity   = 50
)

func DefaultPolicy() Policy {
	return Policy{
		PartialCorrectRatio: DefaultPartialCorrectRatio,
		CorrectSimilarity:   DefaultCorrectSimilarity,
		PartialSimilarity:   DefaultPartialSimilarity,
	}
}

var ErrInvalidPolicy = errors.New("invalid grading policy")

func (p Policy) Validate() error {
	if p.PartialCorrectRatio < 0 || p.PartialCorrectRatio > 1 {
		return ErrInvalidPolicy
	}
	if p.PartialSimilarity < 0 || p.CorrectSimilarity > 100 || p.PartialSimilarity > p.CorrectSimilarity {
		return ErrInvalidPolicy
	}
	return nil
}

// Grader grades answers under a policy that can be swapped while requests
// are in flight.
type Grader struct {
	policy atomic.Pointer[Policy]
}

func NewGrader(p Policy) *Grader {
	g := &Grader{}
	g.SetPolicy(p)
	return g
}

func (g *Grader) Policy() Policy {
	return *g.policy.Load()
}

func (g *Grader) SetPolicy(p Policy) {
	g.policy.Store(&p)
}

// Grade scores one submission against its question.
func (g *Grader) Grade(q Question, submission string) Result {
	p := g.Policy()
	var r Result
	switch q.Type {
	case FillBlank, ErrorFix:
		r = gradeBlanks(q, submission, p)
	case Programming:
		r = gradeProgram(q, submission, p)
	default:
		r = gradeExact(q, submission)
	}
	r.QuestionID = q.ID
	return r
}

func gradeExact(q Question, submission string) Result {
	got, want := Normalize(submission), Normalize(q.Answer)
	if got != "" && got == want {
		return Result{IsCorrect: true, Status: StatusCorrect, Score: q.Score, CorrectAnswer: q.Answer}
	}
	return Result{Status: StatusWrong, CorrectAnswer: q.Answer}
}

func gradeBlanks(q Question, submission string, p Policy) Result {
	blanks := ParseAnswerKey(q.Answer)
	r := Result{CorrectAnswer: q.Answer}
	if len(blanks) == 0 {
		r.IsCorrect, r.Status, r.Score = true, StatusCorrect, q.Score
		return r
	}
	r.CorrectAnswer = FormatAnswerKey(blanks)

	var extracted []string
	if q.Type == FillBlank {
		extracted = ExtractFillBlankAnswers(submission, q.CodeTemplate)
	} else {
		extracted = ExtractErrorFixAnswers(submission)
	}

	correctParts := 0
	for i, blank := range blanks {
		if i >= len(extracted) {
			break
		}
		if matchesAny(Normalize(extracted[i]), blank) {
			correctParts++
		}
	}

	switch {
	case correctParts == len(blanks):
		r.IsCorrect, r.Status, r.Score = true, StatusCorrect, q.Score
	case correctParts > 0:
		r.Status = StatusPartial
		r.Score = RoundScore(float64(correctParts) * (q.Score / float64(len(blanks))))
		r.IsCorrect = r.Score >= q.Score*p.PartialCorrectRatio
	default:
		r.Status = StatusWrong
	}
	return r
}

func matchesAny(answer string, blank Blank) bool {
	for _, alt := range blank {
		if Normalize(alt) == answer {
			return true
		}
	}
	return false
}

func gradeProgram(q Question, submission string, p Policy) Result {
	got := Normalize(ExtractProgramBody(submission))
	want := Normalize(q.Answer)
	r := Result{CorrectAnswer: q.Answer}

	var pct int
	switch {
	case want == "":
		pct = 100
		r.IsCorrect, r.Status, r.Score = true, StatusCorrect, q.Score
	case got == "":
		r.Status = StatusWrong
	default:
		pct = Similarity(got, want)
		r.Score = RoundScore(float64(pct) / 100 * q.Score)
		switch {
		case pct >= p.CorrectSimilarity:
			r.IsCorrect, r.Status = true, StatusCorrect
		case pct >= p.PartialSimilarity:
			r.Status = StatusPartial
		default:
			r.Status = StatusWrong
		}
	}
	r.MatchPercentage = &pct
	return r
}
