package seed

import (
	"context"
	"testing"

	"code_practice_backend/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const sample = `
teachers:
  - id: admin
    name: 管理员
    password: admin123
    role: admin
students:
  - id: S001
    name: 张三
    password: "123456"
    class_name: 一班
chapters:
  - language: java
    name: 基础语法
    questions:
      - type: single_choice
        content: Java 中用于输出的语句是?
        options: ["A. print", "B. System.out.println"]
        answer: B
        score: 2
      - type: fill_blank
        content: 补全循环
        code_template: "/***SPACE***/\nfor (int i = 0; i < 【?】; i++)"
        answer: "1. 10"
`

func TestApplyIsIdempotent(t *testing.T) {
	d, err := Parse([]byte(sample))
	require.NoError(t, err)

	mem := repotest.NewMemory()
	rep, err := Apply(context.Background(), mem, d)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Teachers)
	assert.Equal(t, 1, rep.Students)
	assert.Equal(t, 1, rep.Chapters)
	assert.Equal(t, 2, rep.Questions)

	teacher, err := mem.Teachers().FindByAccount(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", string(teacher.Role))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte("admin123")))

	chapters, err := mem.Chapters().List(context.Background(), "java")
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, 2, chapters[0].QuestionCount)
	assert.Equal(t, 1, chapters[0].SortOrder)

	rep, err = Apply(context.Background(), mem, d)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Teachers+rep.Students+rep.Chapters+rep.Questions)
	assert.Equal(t, 3, rep.Skipped)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("teachers: ["))
	assert.Error(t, err)
}
