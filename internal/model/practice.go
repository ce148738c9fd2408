package model

import "time"

type PracticeMode string

const (
	ModeByLanguage PracticeMode = "by_language"
	ModeByType     PracticeMode = "by_type"
	ModeByChapter  PracticeMode = "by_chapter"
	ModeExam       PracticeMode = "exam"
)

type PracticeStatus string

const (
	PracticeInProgress PracticeStatus = "in_progress"
	PracticeCompleted  PracticeStatus = "completed"
	PracticeAbandoned  PracticeStatus = "abandoned"
)

// PracticeRecord summarizes one submitted practice batch.
type PracticeRecord struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID      uint           `gorm:"index;not null" json:"student_id"`
	PracticeMode   PracticeMode   `gorm:"size:20;not null" json:"practice_mode"`
	Language       *string        `gorm:"size:20" json:"language"`
	QuestionType   *string        `gorm:"size:100" json:"question_type"`
	ChapterID      *uint          `gorm:"index" json:"chapter_id"`
	TotalQuestions int            `gorm:"default:0" json:"total_questions"`
	CorrectCount   int            `gorm:"default:0" json:"correct_count"`
	WrongCount     int            `gorm:"default:0" json:"wrong_count"`
	Score          float64        `gorm:"type:decimal(8,1);default:0" json:"score"`
	TimeSpent      int            `gorm:"default:0" json:"time_spent"`
	Status         PracticeStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	StartedAt      time.Time      `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (PracticeRecord) TableName() string {
	return "practice_records"
}

// AnswerRecord is one graded answer of a practice batch. Rows are written
// once and never updated.
type AnswerRecord struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PracticeRecordID uint      `gorm:"index;not null" json:"practice_record_id"`
	QuestionID       uint      `gorm:"index;not null" json:"question_id"`
	StudentAnswer    string    `gorm:"type:text" json:"student_answer"`
	IsCorrect        bool      `gorm:"default:false" json:"is_correct"`
	Score            float64   `gorm:"type:decimal(6,1);default:0" json:"score"`
	Status           string    `gorm:"size:20" json:"status"`
	TimeSpent        int       `gorm:"default:0" json:"time_spent"`
	AnsweredAt       time.Time `gorm:"autoCreateTime" json:"answered_at"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
