package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"code_practice_backend/internal/config"
	"code_practice_backend/internal/grading"
	"code_practice_backend/internal/middleware"
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository/repotest"
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret-0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	mem     *repotest.Memory
	router  *gin.Engine
	student model.Student
	other   model.Student
	single  model.Question
	chapter model.Chapter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := repotest.NewMemory()
	hash, err := service.HashPassword("123456")
	require.NoError(t, err)

	e := &env{mem: mem}
	e.student = mem.AddStudent(model.Student{StudentID: "S001", Name: "张三", Password: hash, Status: model.AccountActive})
	e.other = mem.AddStudent(model.Student{StudentID: "S002", Name: "李四", Password: hash, Status: model.AccountActive})
	mem.AddTeacher(model.Teacher{TeacherID: "T001", Name: "王老师", Password: hash, Role: model.RoleTeacher, Status: model.AccountActive})
	e.chapter = mem.AddChapter(model.Chapter{Language: model.LangJava, Name: "循环", SortOrder: 1, QuestionCount: 1})
	e.single = mem.AddQuestion(model.Question{Language: model.LangJava, Type: model.TypeSingleChoice, ChapterID: &e.chapter.ID, Content: "选择题", Answer: "B", Score: 5})

	practice := NewPracticeController(service.NewPracticeService(mem, grading.NewGrader(grading.DefaultPolicy()), nil))
	mistakes := NewMistakeController(service.NewMistakeService(mem, nil))
	questions := NewQuestionController(service.NewQuestionService(mem))
	chapters := NewChapterController(service.NewChapterService(mem))
	stats := NewStatisticsController(service.NewStatisticsService(mem))
	auth := NewAuthController(service.NewAuthService(mem, &config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour}))

	r := gin.New()
	r.POST("/api/auth/login", auth.StudentLogin)
	r.POST("/api/auth/admin/login", auth.TeacherLogin)

	api := r.Group("/api", middleware.AuthMiddleware(testSecret))
	api.GET("/auth/me", auth.Me)
	api.POST("/practice/submit", practice.Submit)
	api.GET("/practice/questions", practice.Questions)
	api.GET("/practice/records", practice.Records)
	api.GET("/mistakes", mistakes.List)
	api.PUT("/mistakes", mistakes.Update)
	api.DELETE("/mistakes", mistakes.Delete)
	api.GET("/statistics/student", stats.Student)
	api.GET("/chapters", chapters.List)

	teacher := api.Group("", middleware.RoleMiddleware(util.RoleTeacher))
	teacher.GET("/questions", questions.List)
	teacher.POST("/questions", questions.Create)
	teacher.DELETE("/questions/:id", questions.Delete)
	teacher.DELETE("/chapters/:id", chapters.Delete)

	e.router = r
	return e
}

func token(t *testing.T, id uint, role util.Role, account string) string {
	t.Helper()
	tok, err := util.GenerateJWT(id, role, account, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *env) call(t *testing.T, method, path, tok string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestLoginThenSubmit(t *testing.T) {
	e := newEnv(t)

	w, resp := e.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"student_id": "S001", "password": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := resp["data"].(map[string]any)["token"].(string)

	w, resp = e.call(t, http.MethodPost, "/api/practice/submit", tok, gin.H{
		"mode":          "chapter",
		"language":      "java",
		"question_type": []string{"single_choice"},
		"answers":       []gin.H{{"question_id": e.single.ID, "answer": "A"}},
		"question_ids":  []uint{e.single.ID, 999},
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.EqualValues(t, 0, data["total_score"])
	assert.EqualValues(t, 2, data["total_questions"])
	assert.Equal(t, []any{float64(999)}, data["missing_question_ids"])

	results := data["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "wrong", first["status"])
	assert.Equal(t, "B", first["correct_answer"])

	entry, ok := e.mem.WrongAnswerFor(e.student.ID, e.single.ID)
	require.True(t, ok)
	assert.Equal(t, model.MasteryPending, entry.Status)
}

func TestSubmitErrors(t *testing.T) {
	e := newEnv(t)
	tok := token(t, e.student.ID, util.RoleStudent, "S001")

	w, resp := e.call(t, http.MethodPost, "/api/practice/submit", tok, gin.H{"answers": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.ErrInvalidSubmission.Error(), resp["message"])

	w, _ = e.call(t, http.MethodPost, "/api/practice/submit", tok, gin.H{
		"student_id":   "S002",
		"answers":      []gin.H{},
		"question_ids": []uint{e.single.ID},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	teacherTok := token(t, 3, util.RoleTeacher, "T001")
	w, _ = e.call(t, http.MethodPost, "/api/practice/submit", teacherTok, gin.H{
		"student_id":   "S404",
		"answers":      []gin.H{},
		"question_ids": []uint{e.single.ID},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, e.mem.Records())

	w, _ = e.call(t, http.MethodPost, "/api/practice/submit", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAcceptsChapterIDAsString(t *testing.T) {
	e := newEnv(t)
	tok := token(t, e.student.ID, util.RoleStudent, "S001")

	for _, chapterID := range []string{"", strconv.FormatUint(uint64(e.chapter.ID), 10)} {
		w, resp := e.call(t, http.MethodPost, "/api/practice/submit", tok, gin.H{
			"mode":         "chapter",
			"chapter_id":   chapterID,
			"answers":      []gin.H{{"question_id": e.single.ID, "answer": "B"}},
			"question_ids": []uint{e.single.ID},
		})
		require.Equal(t, http.StatusOK, w.Code, chapterID)
		assert.EqualValues(t, 5, resp["data"].(map[string]any)["total_score"])
	}

	records := e.mem.Records()
	require.Len(t, records, 2)
	assert.Nil(t, records[0].ChapterID)
	require.NotNil(t, records[1].ChapterID)
	assert.Equal(t, e.chapter.ID, *records[1].ChapterID)
}

func TestPracticeQuestionsHideAnswers(t *testing.T) {
	e := newEnv(t)
	tok := token(t, e.student.ID, util.RoleStudent, "S001")

	w, resp := e.call(t, http.MethodGet, "/api/practice/questions?language=java&type=all&count=5", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := resp["data"].([]any)
	require.Len(t, list, 1)
	_, hasAnswer := list[0].(map[string]any)["answer"]
	assert.False(t, hasAnswer)
}

func TestMistakeBookScopedToStudent(t *testing.T) {
	e := newEnv(t)
	own := e.mem.AddWrongAnswer(model.WrongAnswer{StudentID: e.student.ID, QuestionID: e.single.ID, WrongCount: 1, Status: model.MasteryPending, LastWrongAt: time.Now()})
	foreign := e.mem.AddWrongAnswer(model.WrongAnswer{StudentID: e.other.ID, QuestionID: e.single.ID, WrongCount: 1, Status: model.MasteryPending, LastWrongAt: time.Now()})
	tok := token(t, e.student.ID, util.RoleStudent, "S001")

	w, resp := e.call(t, http.MethodGet, "/api/mistakes", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := resp["data"].(map[string]any)["data"].([]any)
	assert.Len(t, items, 1)

	w, _ = e.call(t, http.MethodGet, "/api/mistakes?student_id=S002", tok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = e.call(t, http.MethodPut, "/api/mistakes", tok, gin.H{"id": foreign.ID, "status": "mastered"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = e.call(t, http.MethodPut, "/api/mistakes", tok, gin.H{"id": own.ID, "status": "unknown"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.call(t, http.MethodPut, "/api/mistakes", tok, gin.H{"id": own.ID, "status": "mastered"})
	assert.Equal(t, http.StatusOK, w.Code)
	entry, _ := e.mem.WrongAnswerFor(e.student.ID, e.single.ID)
	assert.Equal(t, model.MasteryMastered, entry.Status)
	assert.Equal(t, 1, entry.ReviewCount)

	w, _ = e.call(t, http.MethodDelete, "/api/mistakes?id="+jsonID(own.ID), tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	_, ok := e.mem.WrongAnswerFor(e.student.ID, e.single.ID)
	assert.False(t, ok)

	teacherTok := token(t, 3, util.RoleTeacher, "T001")
	w, _ = e.call(t, http.MethodGet, "/api/mistakes", teacherTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestQuestionBankRequiresTeacher(t *testing.T) {
	e := newEnv(t)
	studentTok := token(t, e.student.ID, util.RoleStudent, "S001")
	teacherTok := token(t, 3, util.RoleTeacher, "T001")

	w, _ := e.call(t, http.MethodGet, "/api/questions", studentTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := e.call(t, http.MethodGet, "/api/questions?language=java", teacherTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := resp["data"].(map[string]any)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 100, page["limit"])

	w, _ = e.call(t, http.MethodPost, "/api/questions", teacherTok, gin.H{"language": "go", "type": "single_choice", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.call(t, http.MethodPost, "/api/questions", teacherTok, gin.H{
		"language": "java", "type": "single_choice", "content": "新题", "answer": "C", "chapter_id": e.chapter.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	ch, _ := e.mem.Chapter(e.chapter.ID)
	assert.Equal(t, 2, ch.QuestionCount)
}

func TestChapterDeleteConflict(t *testing.T) {
	e := newEnv(t)
	teacherTok := token(t, 3, util.RoleTeacher, "T001")

	w, resp := e.call(t, http.MethodDelete, "/api/chapters/"+jsonID(e.chapter.ID), teacherTok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp["message"], "1 道题目")

	w, _ = e.call(t, http.MethodDelete, "/api/questions/"+jsonID(e.single.ID), teacherTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = e.call(t, http.MethodDelete, "/api/chapters/"+jsonID(e.chapter.ID), teacherTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = e.call(t, http.MethodDelete, "/api/chapters/abc", teacherTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatisticsAndRecords(t *testing.T) {
	e := newEnv(t)
	tok := token(t, e.student.ID, util.RoleStudent, "S001")

	w, _ := e.call(t, http.MethodPost, "/api/practice/submit", tok, gin.H{
		"mode":         "language",
		"answers":      []gin.H{{"question_id": e.single.ID, "answer": "b"}},
		"question_ids": []uint{e.single.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := e.call(t, http.MethodGet, "/api/statistics/student", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := resp["data"].(map[string]any)
	assert.EqualValues(t, 1, stats["total_questions"])

	w, resp = e.call(t, http.MethodGet, "/api/practice/records", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := resp["data"].(map[string]any)
	assert.EqualValues(t, 1, page["total"])
}

func TestTeacherLoginAndMe(t *testing.T) {
	e := newEnv(t)

	w, _ := e.call(t, http.MethodPost, "/api/auth/admin/login", "", gin.H{"password": "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.call(t, http.MethodPost, "/api/auth/admin/login", "", gin.H{"username": "T001", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := e.call(t, http.MethodPost, "/api/auth/admin/login", "", gin.H{"teacher_id": "T001", "password": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := resp["data"].(map[string]any)["token"].(string)

	w, resp = e.call(t, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teacher", resp["data"].(map[string]any)["role"])
}
