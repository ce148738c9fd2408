package model

import "encoding/json"

type Language string

const (
	LangJava   Language = "java"
	LangCpp    Language = "cpp"
	LangPython Language = "python"
)

// Languages lists the supported languages in display order.
var Languages = []Language{LangJava, LangCpp, LangPython}

type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeFillBlank    QuestionType = "fill_blank"
	TypeErrorFix     QuestionType = "error_fix"
	TypeProgramming  QuestionType = "programming"
)

// QuestionTypes lists the question types in display order.
var QuestionTypes = []QuestionType{TypeSingleChoice, TypeFillBlank, TypeErrorFix, TypeProgramming}

func (t QuestionType) Valid() bool {
	for _, v := range QuestionTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// swagger:model Question
type Question struct {
	BaseModel
	Language     Language        `gorm:"size:20;index;not null" json:"language"`
	Type         QuestionType    `gorm:"size:20;index;not null" json:"type"`
	ChapterID    *uint           `gorm:"index" json:"chapter_id"`
	Difficulty   Difficulty      `gorm:"size:20;default:'medium'" json:"difficulty"`
	Content      string          `gorm:"type:text;not null" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CodeTemplate string          `gorm:"type:text" json:"code_template"`
	Answer       string          `gorm:"type:text;not null" json:"answer"`
	Analysis     string          `gorm:"type:text" json:"analysis"`
	Score        float64         `gorm:"type:decimal(6,1);default:10" json:"score"`

	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
