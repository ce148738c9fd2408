package service

import (
	"context"
	"encoding/json"
	"testing"

	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/repository/repotest"
	"code_practice_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestQuestionCreateKeepsChapterCount(t *testing.T) {
	mem := repotest.NewMemory()
	ch := mem.AddChapter(model.Chapter{Language: model.LangJava, Name: "循环"})
	svc := NewQuestionService(mem)

	q, err := svc.Create(context.Background(), QuestionInput{
		Language:  "java",
		Type:      "single_choice",
		ChapterID: uintPtr(ch.ID),
		Content:   "下列哪个是循环语句?",
		Answer:    "B",
	})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, float64(10), q.Score)
	assert.Equal(t, model.DifficultyMedium, q.Difficulty)

	got, _ := mem.Chapter(ch.ID)
	assert.Equal(t, 1, got.QuestionCount)
}

func TestQuestionCreateRejectsInvalidInput(t *testing.T) {
	svc := NewQuestionService(repotest.NewMemory())

	cases := []QuestionInput{
		{Language: "go", Type: "single_choice", Content: "x"},
		{Language: "java", Type: "essay", Content: "x"},
		{Language: "java", Type: "single_choice", Content: "  "},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, util.ErrInvalidQuestion)
	}
}

func TestQuestionImportCountsFailures(t *testing.T) {
	mem := repotest.NewMemory()
	svc := NewQuestionService(mem)

	res, err := svc.Import(context.Background(), []QuestionInput{
		{Language: "python", Type: "fill_blank", Content: "补全代码", Answer: "1. print"},
		{Language: "rust", Type: "fill_blank", Content: "不支持的语言题目"},
		{Language: "cpp", Type: "programming", Content: "实现排序", Answer: "sort"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "不支持的语言题目")

	_, err = svc.Import(context.Background(), nil)
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)
}

func TestQuestionUpdateMovesChapter(t *testing.T) {
	mem := repotest.NewMemory()
	from := mem.AddChapter(model.Chapter{Language: model.LangJava, Name: "变量", QuestionCount: 1})
	to := mem.AddChapter(model.Chapter{Language: model.LangJava, Name: "循环"})
	q := mem.AddQuestion(model.Question{Language: model.LangJava, Type: model.TypeSingleChoice, ChapterID: uintPtr(from.ID), Answer: "A"})
	svc := NewQuestionService(mem)

	var patch QuestionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"chapter_id": `+jsonUint(to.ID)+`, "answer": "C"}`), &patch))

	updated, err := svc.Update(context.Background(), q.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Answer)
	require.NotNil(t, updated.ChapterID)
	assert.Equal(t, to.ID, *updated.ChapterID)

	gotFrom, _ := mem.Chapter(from.ID)
	gotTo, _ := mem.Chapter(to.ID)
	assert.Equal(t, 0, gotFrom.QuestionCount)
	assert.Equal(t, 1, gotTo.QuestionCount)

	require.NoError(t, json.Unmarshal([]byte(`{"chapter_id": null}`), &patch))
	updated, err = svc.Update(context.Background(), q.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, updated.ChapterID)
	gotTo, _ = mem.Chapter(to.ID)
	assert.Equal(t, 0, gotTo.QuestionCount)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestQuestionUpdateErrors(t *testing.T) {
	mem := repotest.NewMemory()
	q := mem.AddQuestion(model.Question{Language: model.LangJava, Type: model.TypeSingleChoice})
	svc := NewQuestionService(mem)

	_, err := svc.Update(context.Background(), q.ID, QuestionPatch{})
	assert.ErrorIs(t, err, util.ErrNothingToUpdate)

	answer := "A"
	_, err = svc.Update(context.Background(), q.ID+100, QuestionPatch{Answer: &answer})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	bad := "essay"
	_, err = svc.Update(context.Background(), q.ID, QuestionPatch{Type: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)
}

func TestQuestionDeleteDecrementsChapter(t *testing.T) {
	mem := repotest.NewMemory()
	ch := mem.AddChapter(model.Chapter{Language: model.LangCpp, Name: "指针", QuestionCount: 1})
	q := mem.AddQuestion(model.Question{Language: model.LangCpp, Type: model.TypeErrorFix, ChapterID: uintPtr(ch.ID)})
	svc := NewQuestionService(mem)

	require.NoError(t, svc.Delete(context.Background(), q.ID))
	got, _ := mem.Chapter(ch.ID)
	assert.Equal(t, 0, got.QuestionCount)

	assert.ErrorIs(t, svc.Delete(context.Background(), q.ID), util.ErrQuestionNotFound)
}

func TestQuestionListAndCounts(t *testing.T) {
	mem := repotest.NewMemory()
	mem.AddQuestion(model.Question{Language: model.LangJava, Type: model.TypeSingleChoice})
	mem.AddQuestion(model.Question{Language: model.LangJava, Type: model.TypeProgramming})
	mem.AddQuestion(model.Question{Language: model.LangPython, Type: model.TypeSingleChoice})
	svc := NewQuestionService(mem)

	list, total, err := svc.List(context.Background(), repository.QuestionFilter{Language: "java", Type: "all", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 1)

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts.Total)
	assert.EqualValues(t, 2, counts.ByType["single_choice"])
	assert.EqualValues(t, 0, counts.ByType["fill_blank"])
	assert.EqualValues(t, 1, counts.ByLanguage["python"])
	assert.Len(t, counts.ByLanguage, 3)
}

func TestQuestionGetNotFound(t *testing.T) {
	_, err := NewQuestionService(repotest.NewMemory()).Get(context.Background(), 7)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
