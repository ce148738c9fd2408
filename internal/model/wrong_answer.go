package model

import "time"

type MasteryStatus string

const (
	MasteryPending   MasteryStatus = "pending"
	MasteryReviewing MasteryStatus = "reviewing"
	MasteryMastered  MasteryStatus = "mastered"
)

// MasteryStatuses lists the wrong-answer states in display order.
var MasteryStatuses = []MasteryStatus{MasteryPending, MasteryReviewing, MasteryMastered}

func (s MasteryStatus) Valid() bool {
	return s == MasteryPending || s == MasteryReviewing || s == MasteryMastered
}

// WrongAnswer tracks a question a student has answered wrong. There is at
// most one row per (student, question).
type WrongAnswer struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID    uint          `gorm:"uniqueIndex:idx_wrong_student_question;not null" json:"student_id"`
	QuestionID   uint          `gorm:"uniqueIndex:idx_wrong_student_question;not null" json:"question_id"`
	WrongAnswer  string        `gorm:"type:text" json:"wrong_answer"`
	WrongCount   int           `gorm:"default:1" json:"wrong_count"`
	ReviewCount  int           `gorm:"default:0" json:"review_count"`
	Status       MasteryStatus `gorm:"size:20;default:'pending';index" json:"status"`
	LastWrongAt  time.Time     `json:"last_wrong_at"`
	LastReviewAt *time.Time    `json:"last_review_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question,omitempty"`
}

func (WrongAnswer) TableName() string {
	return "wrong_answers"
}

// LedgerChange describes what a verdict did to a wrong-answer entry.
type LedgerChange string

const (
	LedgerUnchanged LedgerChange = "unchanged"
	LedgerCreated   LedgerChange = "created"
	LedgerReset     LedgerChange = "reset"
	LedgerWrong     LedgerChange = "wrong"
	LedgerReviewed  LedgerChange = "reviewed"
)

// MasteryEvent is published after a submission commits, one per ledger
// entry that changed.
type MasteryEvent struct {
	StudentID  uint          `json:"student_id"`
	QuestionID uint          `json:"question_id"`
	Change     LedgerChange  `json:"change"`
	Status     MasteryStatus `json:"status"`
	At         time.Time     `json:"at"`
}
