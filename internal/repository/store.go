package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store groups the repositories used by the practice services. The
// repositories returned by a Store passed to Transaction share one database
// transaction.
type Store interface {
	Students() StudentRepository
	Teachers() TeacherRepository
	Questions() QuestionRepository
	Chapters() ChapterRepository
	Practices() PracticeRepository
	WrongAnswers() WrongAnswerRepository
	Statistics() StatisticsRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Students() StudentRepository         { return NewStudentRepository(s.DB) }
func (s *GormStore) Teachers() TeacherRepository         { return NewTeacherRepository(s.DB) }
func (s *GormStore) Questions() QuestionRepository       { return NewQuestionRepository(s.DB) }
func (s *GormStore) Chapters() ChapterRepository         { return NewChapterRepository(s.DB) }
func (s *GormStore) Practices() PracticeRepository       { return NewPracticeRepository(s.DB) }
func (s *GormStore) WrongAnswers() WrongAnswerRepository { return NewWrongAnswerRepository(s.DB) }
func (s *GormStore) Statistics() StatisticsRepository    { return NewStatisticsRepository(s.DB) }

// Transaction runs fn inside one database transaction. Returning an error
// from fn rolls every write back.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// isNotFound reports whether err is gorm's record-not-found error.
func isNotFound(err error) bool {
	return err != nil && errors.Is(err, gorm.ErrRecordNotFound)
}
