package service

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"context"
	"fmt"
	"time"
)

// applyVerdict moves a wrong-answer entry through pending / reviewing /
// mastered. entry is nil when the student has no entry for the question. The
// returned entry is nil only when nothing needs to be stored.
func applyVerdict(entry *model.WrongAnswer, studentID, questionID uint, correct bool, answer string, now time.Time) (*model.WrongAnswer, model.LedgerChange) {
	if entry == nil {
		if correct {
			return nil, model.LedgerUnchanged
		}
		return &model.WrongAnswer{
			StudentID:   studentID,
			QuestionID:  questionID,
			WrongAnswer: answer,
			WrongCount:  1,
			ReviewCount: 0,
			Status:      model.MasteryPending,
			LastWrongAt: now,
		}, model.LedgerCreated
	}

	next := *entry
	if correct {
		next.ReviewCount++
		switch {
		case next.ReviewCount > next.WrongCount:
			next.Status = model.MasteryMastered
		case next.ReviewCount > 0:
			next.Status = model.MasteryReviewing
		default:
			next.Status = model.MasteryPending
		}
		next.LastReviewAt = &now
		return &next, model.LedgerReviewed
	}

	next.WrongAnswer = answer
	next.LastWrongAt = now
	next.Status = model.MasteryPending
	if entry.Status == model.MasteryMastered {
		next.WrongCount = 1
		next.ReviewCount = 0
		next.LastReviewAt = nil
		return &next, model.LedgerReset
	}
	next.WrongCount++
	return &next, model.LedgerWrong
}

// MasteryLedger records grading verdicts against a student's wrong-answer
// book.
type MasteryLedger struct {
	now func() time.Time
}

func NewMasteryLedger() *MasteryLedger {
	return &MasteryLedger{now: time.Now}
}

// Record applies one verdict through repo, which is expected to be bound to
// the submission's transaction.
func (l *MasteryLedger) Record(ctx context.Context, repo repository.WrongAnswerRepository, studentID, questionID uint, correct bool, answer string) (*model.MasteryEvent, error) {
	entry, err := repo.Find(ctx, studentID, questionID)
	if err != nil {
		return nil, fmt.Errorf("load wrong answer: %w", err)
	}

	now := l.now()
	next, change := applyVerdict(entry, studentID, questionID, correct, answer, now)
	if next == nil {
		return nil, nil
	}

	if entry == nil {
		err = repo.Create(ctx, next)
	} else {
		err = repo.Save(ctx, next)
	}
	if err != nil {
		return nil, fmt.Errorf("save wrong answer: %w", err)
	}

	return &model.MasteryEvent{
		StudentID:  studentID,
		QuestionID: questionID,
		Change:     change,
		Status:     next.Status,
		At:         now,
	}, nil
}
