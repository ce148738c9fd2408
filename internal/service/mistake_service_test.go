package service

import (
	"context"
	"testing"
	"time"

	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository/repotest"
	"code_practice_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCountCache struct {
	data        map[uint]map[model.MasteryStatus]int64
	invalidated []uint
}

func newMapCountCache() *mapCountCache {
	return &mapCountCache{data: map[uint]map[model.MasteryStatus]int64{}}
}

func (c *mapCountCache) Get(_ context.Context, id uint) (map[model.MasteryStatus]int64, bool) {
	v, ok := c.data[id]
	return v, ok
}

func (c *mapCountCache) Set(_ context.Context, id uint, counts map[model.MasteryStatus]int64) {
	c.data[id] = counts
}

func (c *mapCountCache) Invalidate(_ context.Context, ids ...uint) {
	for _, id := range ids {
		delete(c.data, id)
		c.invalidated = append(c.invalidated, id)
	}
}

type mistakeFixture struct {
	mem     *repotest.Memory
	cache   *mapCountCache
	svc     *MistakeService
	student model.Student
	java    model.Question
	python  model.Question
	older   model.WrongAnswer
	newer   model.WrongAnswer
}

func newMistakeFixture() *mistakeFixture {
	mem := repotest.NewMemory()
	cache := newMapCountCache()
	f := &mistakeFixture{mem: mem, cache: cache, svc: NewMistakeService(mem, cache)}
	f.student = mem.AddStudent(model.Student{StudentID: "S001"})
	f.java = mem.AddQuestion(model.Question{Language: model.LangJava, Type: model.TypeSingleChoice})
	f.python = mem.AddQuestion(model.Question{Language: model.LangPython, Type: model.TypeProgramming})

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	f.older = mem.AddWrongAnswer(model.WrongAnswer{
		StudentID: f.student.ID, QuestionID: f.java.ID, WrongCount: 1,
		Status: model.MasteryPending, LastWrongAt: base,
	})
	f.newer = mem.AddWrongAnswer(model.WrongAnswer{
		StudentID: f.student.ID, QuestionID: f.python.ID, WrongCount: 2, ReviewCount: 1,
		Status: model.MasteryReviewing, LastWrongAt: base.Add(time.Hour),
	})
	return f
}

func TestMistakeListOrderAndCounts(t *testing.T) {
	f := newMistakeFixture()
	book, err := f.svc.List(context.Background(), MistakeQuery{StudentID: "S001", Language: "all"})
	require.NoError(t, err)

	require.Len(t, book.Items, 2)
	assert.Equal(t, f.newer.ID, book.Items[0].ID)
	require.NotNil(t, book.Items[0].Question)
	assert.Equal(t, model.LangPython, book.Items[0].Question.Language)

	assert.Equal(t, int64(1), book.Counts[model.MasteryPending])
	assert.Equal(t, int64(1), book.Counts[model.MasteryReviewing])
	assert.Equal(t, int64(0), book.Counts[model.MasteryMastered])

	_, cached := f.cache.data[f.student.ID]
	assert.True(t, cached)
}

func TestMistakeListFilters(t *testing.T) {
	f := newMistakeFixture()
	ctx := context.Background()

	book, err := f.svc.List(ctx, MistakeQuery{StudentID: "S001", Language: "java"})
	require.NoError(t, err)
	require.Len(t, book.Items, 1)
	assert.Equal(t, f.older.ID, book.Items[0].ID)

	book, err = f.svc.List(ctx, MistakeQuery{StudentID: "S001", Status: "reviewing,mastered"})
	require.NoError(t, err)
	require.Len(t, book.Items, 1)
	assert.Equal(t, f.newer.ID, book.Items[0].ID)

	book, err = f.svc.List(ctx, MistakeQuery{StudentID: "S001", Type: "fill_blank"})
	require.NoError(t, err)
	assert.Empty(t, book.Items)
	assert.NotNil(t, book.Items)
}

func TestMistakeListUsesCachedCounts(t *testing.T) {
	f := newMistakeFixture()
	f.cache.data[f.student.ID] = map[model.MasteryStatus]int64{model.MasteryMastered: 9}

	book, err := f.svc.List(context.Background(), MistakeQuery{StudentID: "S001"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), book.Counts[model.MasteryMastered])
}

func TestMistakeListErrors(t *testing.T) {
	f := newMistakeFixture()
	_, err := f.svc.List(context.Background(), MistakeQuery{})
	assert.ErrorIs(t, err, util.ErrInvalidSubmission)

	_, err = f.svc.List(context.Background(), MistakeQuery{StudentID: "nobody"})
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestMistakeUpdateStatus(t *testing.T) {
	f := newMistakeFixture()
	wa, err := f.svc.UpdateStatus(context.Background(), f.older.ID, model.MasteryMastered)
	require.NoError(t, err)

	assert.Equal(t, model.MasteryMastered, wa.Status)
	assert.Equal(t, 1, wa.ReviewCount)
	assert.NotNil(t, wa.LastReviewAt)
	assert.Equal(t, []uint{f.student.ID}, f.cache.invalidated)

	stored, _ := f.mem.WrongAnswerFor(f.student.ID, f.java.ID)
	assert.Equal(t, model.MasteryMastered, stored.Status)
}

func TestMistakeUpdateStatusErrors(t *testing.T) {
	f := newMistakeFixture()
	_, err := f.svc.UpdateStatus(context.Background(), f.older.ID, "forgotten")
	assert.ErrorIs(t, err, util.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(context.Background(), 12345, model.MasteryPending)
	assert.ErrorIs(t, err, util.ErrWrongAnswerNotFound)
}

func TestMistakeDelete(t *testing.T) {
	f := newMistakeFixture()
	require.NoError(t, f.svc.Delete(context.Background(), f.older.ID))

	_, ok := f.mem.WrongAnswerFor(f.student.ID, f.java.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.older.ID), util.ErrWrongAnswerNotFound)
}

func TestMistakeOwner(t *testing.T) {
	f := newMistakeFixture()
	owner, err := f.svc.Owner(context.Background(), f.newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "S001", owner)
}
