// Package repotest provides an in-memory repository.Store for service and
// controller tests.
package repotest

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"

	"gorm.io/gorm"
)

// Memory implements repository.Store on plain maps. Transactions snapshot
// the maps and restore them when the callback fails.
type Memory struct {
	mu sync.Mutex

	students     map[uint]model.Student
	teachers     map[uint]model.Teacher
	questions    map[uint]model.Question
	chapters     map[uint]model.Chapter
	records      map[uint]model.PracticeRecord
	answers      []model.AnswerRecord
	wrongAnswers map[uint]model.WrongAnswer
	nextID       uint

	// FailCreateAnswer, when set, is returned by PracticeRepository.CreateAnswer.
	FailCreateAnswer error
	// Transactions counts committed and rolled back transactions.
	Transactions int
}

func NewMemory() *Memory {
	return &Memory{
		students:     map[uint]model.Student{},
		teachers:     map[uint]model.Teacher{},
		questions:    map[uint]model.Question{},
		chapters:     map[uint]model.Chapter{},
		records:      map[uint]model.PracticeRecord{},
		wrongAnswers: map[uint]model.WrongAnswer{},
	}
}

var _ repository.Store = (*Memory)(nil)

func (m *Memory) id() uint {
	m.nextID++
	return m.nextID
}

func (m *Memory) Students() repository.StudentRepository         { return studentRepo{m} }
func (m *Memory) Teachers() repository.TeacherRepository         { return teacherRepo{m} }
func (m *Memory) Questions() repository.QuestionRepository       { return questionRepo{m} }
func (m *Memory) Chapters() repository.ChapterRepository         { return chapterRepo{m} }
func (m *Memory) Practices() repository.PracticeRepository       { return practiceRepo{m} }
func (m *Memory) WrongAnswers() repository.WrongAnswerRepository { return wrongAnswerRepo{m} }
func (m *Memory) Statistics() repository.StatisticsRepository    { return statisticsRepo{m} }

func (m *Memory) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	m.mu.Lock()
	snap := m.snapshot()
	m.Transactions++
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.restore(snap)
		m.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	students     map[uint]model.Student
	teachers     map[uint]model.Teacher
	questions    map[uint]model.Question
	chapters     map[uint]model.Chapter
	records      map[uint]model.PracticeRecord
	answers      []model.AnswerRecord
	wrongAnswers map[uint]model.WrongAnswer
	nextID       uint
}

func copyMap[V any](src map[uint]V) map[uint]V {
	dst := make(map[uint]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *Memory) snapshot() snapshot {
	return snapshot{
		students:     copyMap(m.students),
		teachers:     copyMap(m.teachers),
		questions:    copyMap(m.questions),
		chapters:     copyMap(m.chapters),
		records:      copyMap(m.records),
		answers:      append([]model.AnswerRecord(nil), m.answers...),
		wrongAnswers: copyMap(m.wrongAnswers),
		nextID:       m.nextID,
	}
}

func (m *Memory) restore(s snapshot) {
	m.students = s.students
	m.teachers = s.teachers
	m.questions = s.questions
	m.chapters = s.chapters
	m.records = s.records
	m.answers = s.answers
	m.wrongAnswers = s.wrongAnswers
	m.nextID = s.nextID
}

// AddStudent seeds a student and returns it with its id set.
func (m *Memory) AddStudent(s model.Student) model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		s.ID = m.id()
	}
	m.students[s.ID] = s
	return s
}

func (m *Memory) AddTeacher(t model.Teacher) model.Teacher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		t.ID = m.id()
	}
	m.teachers[t.ID] = t
	return t
}

func (m *Memory) AddQuestion(q model.Question) model.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == 0 {
		q.ID = m.id()
	}
	m.questions[q.ID] = q
	return q
}

func (m *Memory) AddChapter(c model.Chapter) model.Chapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	m.chapters[c.ID] = c
	return c
}

func (m *Memory) AddWrongAnswer(w model.WrongAnswer) model.WrongAnswer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ID == 0 {
		w.ID = m.id()
	}
	m.wrongAnswers[w.ID] = w
	return w
}

// Records returns every stored practice record ordered by id.
func (m *Memory) Records() []model.PracticeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PracticeRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Answers returns every stored answer record in insertion order.
func (m *Memory) Answers() []model.AnswerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AnswerRecord(nil), m.answers...)
}

// WrongAnswerFor returns the ledger entry for (student, question), if any.
func (m *Memory) WrongAnswerFor(studentID, questionID uint) (model.WrongAnswer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wrongAnswers {
		if w.StudentID == studentID && w.QuestionID == questionID {
			return w, true
		}
	}
	return model.WrongAnswer{}, false
}

// Chapter returns the stored chapter by id.
func (m *Memory) Chapter(id uint) (model.Chapter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chapters[id]
	return c, ok
}

// Student returns the stored student by id.
func (m *Memory) Student(id uint) (model.Student, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	return s, ok
}

type studentRepo struct{ m *Memory }

func (r studentRepo) Create(_ context.Context, s *model.Student) error {
	*s = r.m.AddStudent(*s)
	return nil
}

func (r studentRepo) FindByID(_ context.Context, id uint) (*model.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r studentRepo) FindByStudentID(_ context.Context, studentID string) (*model.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.students {
		if s.StudentID == studentID {
			s := s
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r studentRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.students[id]; ok {
		s.LastLogin = &at
		r.m.students[id] = s
	}
	return nil
}

type teacherRepo struct{ m *Memory }

func (r teacherRepo) Create(_ context.Context, t *model.Teacher) error {
	*t = r.m.AddTeacher(*t)
	return nil
}

func (r teacherRepo) FindByAccount(_ context.Context, account string) (*model.Teacher, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var found *model.Teacher
	for _, t := range r.m.teachers {
		if t.TeacherID == account || t.Name == account {
			if found == nil || t.ID < found.ID {
				t := t
				found = &t
			}
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (r teacherRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t, ok := r.m.teachers[id]; ok {
		t.LastLogin = &at
		r.m.teachers[id] = t
	}
	return nil
}

type questionRepo struct{ m *Memory }

func (r questionRepo) Create(_ context.Context, q *model.Question) error {
	*q = r.m.AddQuestion(*q)
	return nil
}

func (r questionRepo) Update(_ context.Context, q *model.Question) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.questions[q.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.questions[q.ID] = *q
	return nil
}

func (r questionRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.questions, id)
	return nil
}

func (r questionRepo) withChapter(q model.Question) model.Question {
	if q.ChapterID != nil {
		if c, ok := r.m.chapters[*q.ChapterID]; ok {
			q.Chapter = &c
		}
	}
	return q
}

func (r questionRepo) FindByID(_ context.Context, id uint) (*model.Question, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q, ok := r.m.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	q = r.withChapter(q)
	return &q, nil
}

func (r questionRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Question, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Question
	seen := map[uint]bool{}
	for _, id := range ids {
		if q, ok := r.m.questions[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, q)
		}
	}
	return out, nil
}

func (r questionRepo) sorted() []model.Question {
	out := make([]model.Question, 0, len(r.m.questions))
	for _, q := range r.m.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r questionRepo) List(_ context.Context, f repository.QuestionFilter) ([]model.Question, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matched []model.Question
	for _, q := range r.sorted() {
		if f.Language != "" && string(q.Language) != f.Language {
			continue
		}
		if f.Type != "" && string(q.Type) != f.Type {
			continue
		}
		if f.ChapterID != nil && (q.ChapterID == nil || *q.ChapterID != *f.ChapterID) {
			continue
		}
		if f.Difficulty != "" && string(q.Difficulty) != f.Difficulty {
			continue
		}
		matched = append(matched, r.withChapter(q))
	}
	total := int64(len(matched))
	if f.Limit > 0 {
		matched = page(matched, f.Limit, f.Offset)
	}
	return matched, total, nil
}

func (r questionRepo) Pick(_ context.Context, f repository.PickFilter) ([]model.Question, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matched []model.Question
	for _, q := range r.sorted() {
		if f.Language != "" && string(q.Language) != f.Language {
			continue
		}
		if len(f.Types) > 0 && !contains(f.Types, string(q.Type)) {
			continue
		}
		if f.ChapterID != nil && (q.ChapterID == nil || *q.ChapterID != *f.ChapterID) {
			continue
		}
		matched = append(matched, q)
	}
	rand.Shuffle(len(matched), func(i, j int) { matched[i], matched[j] = matched[j], matched[i] })
	if f.Limit >= 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (r questionRepo) CountBy(_ context.Context, column string) (map[string]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := map[string]int64{}
	for _, q := range r.m.questions {
		switch column {
		case "type":
			counts[string(q.Type)]++
		case "language":
			counts[string(q.Language)]++
		}
	}
	return counts, nil
}

func (r questionRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.questions)), nil
}

func (r questionRepo) CountByChapter(_ context.Context, chapterID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, q := range r.m.questions {
		if q.ChapterID != nil && *q.ChapterID == chapterID {
			n++
		}
	}
	return n, nil
}

type chapterRepo struct{ m *Memory }

func (r chapterRepo) Create(_ context.Context, c *model.Chapter) error {
	*c = r.m.AddChapter(*c)
	return nil
}

func (r chapterRepo) Update(_ context.Context, c *model.Chapter) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.chapters[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.chapters[c.ID] = *c
	return nil
}

func (r chapterRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.chapters, id)
	return nil
}

func (r chapterRepo) FindByID(_ context.Context, id uint) (*model.Chapter, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.chapters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r chapterRepo) List(_ context.Context, language string) ([]model.Chapter, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Chapter
	for _, c := range r.m.chapters {
		if language == "" || string(c.Language) == language {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (r chapterRepo) MaxSortOrder(_ context.Context, language string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	highest := 0
	for _, c := range r.m.chapters {
		if string(c.Language) == language && c.SortOrder > highest {
			highest = c.SortOrder
		}
	}
	return highest, nil
}

func (r chapterRepo) AdjustQuestionCount(_ context.Context, id uint, delta int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.chapters[id]
	if !ok {
		return nil
	}
	if c.QuestionCount+delta < 0 {
		return nil
	}
	c.QuestionCount += delta
	r.m.chapters[id] = c
	return nil
}

type practiceRepo struct{ m *Memory }

func (r practiceRepo) CreateRecord(_ context.Context, rec *model.PracticeRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec.ID = r.m.id()
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	r.m.records[rec.ID] = *rec
	return nil
}

func (r practiceRepo) CreateAnswer(_ context.Context, ans *model.AnswerRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailCreateAnswer != nil {
		return r.m.FailCreateAnswer
	}
	ans.ID = r.m.id()
	r.m.answers = append(r.m.answers, *ans)
	return nil
}

func (r practiceRepo) CompleteRecord(_ context.Context, id uint, t repository.RecordTotals) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rec.CorrectCount = t.CorrectCount
	rec.WrongCount = t.WrongCount
	rec.Score = t.Score
	rec.Status = model.PracticeCompleted
	at := t.CompletedAt
	rec.CompletedAt = &at
	r.m.records[id] = rec
	return nil
}

func (r practiceRepo) ListRecords(_ context.Context, f repository.RecordFilter) ([]model.PracticeRecord, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matched []model.PracticeRecord
	for _, rec := range r.m.records {
		s, ok := r.m.students[rec.StudentID]
		if !ok {
			continue
		}
		if f.StudentID != "" && s.StudentID != f.StudentID {
			continue
		}
		if f.Language != "" && (rec.Language == nil || *rec.Language != f.Language) {
			continue
		}
		rec.Student = &s
		if rec.ChapterID != nil {
			if c, ok := r.m.chapters[*rec.ChapterID]; ok {
				rec.Chapter = &c
			}
		}
		matched = append(matched, rec)
	}
	sortRecords(matched)
	total := int64(len(matched))
	return page(matched, f.Limit, f.Offset), total, nil
}

func (r practiceRepo) RecentRecords(_ context.Context, studentID uint, limit int) ([]model.PracticeRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matched []model.PracticeRecord
	for _, rec := range r.m.records {
		if rec.StudentID == studentID {
			matched = append(matched, rec)
		}
	}
	sortRecords(matched)
	return page(matched, limit, 0), nil
}

func sortRecords(recs []model.PracticeRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].StartedAt.Equal(recs[j].StartedAt) {
			return recs[i].StartedAt.After(recs[j].StartedAt)
		}
		return recs[i].ID > recs[j].ID
	})
}

type wrongAnswerRepo struct{ m *Memory }

func (r wrongAnswerRepo) Find(_ context.Context, studentID, questionID uint) (*model.WrongAnswer, error) {
	w, ok := r.m.WrongAnswerFor(studentID, questionID)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r wrongAnswerRepo) FindByID(_ context.Context, id uint) (*model.WrongAnswer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	w, ok := r.m.wrongAnswers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &w, nil
}

func (r wrongAnswerRepo) Create(_ context.Context, w *model.WrongAnswer) error {
	if _, exists := r.m.WrongAnswerFor(w.StudentID, w.QuestionID); exists {
		return gorm.ErrDuplicatedKey
	}
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now
	*w = r.m.AddWrongAnswer(*w)
	return nil
}

func (r wrongAnswerRepo) Save(_ context.Context, w *model.WrongAnswer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if w.ID == 0 {
		w.ID = r.m.id()
	}
	w.UpdatedAt = time.Now()
	r.m.wrongAnswers[w.ID] = *w
	return nil
}

func (r wrongAnswerRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.wrongAnswers, id)
	return nil
}

func (r wrongAnswerRepo) List(_ context.Context, f repository.WrongAnswerFilter) ([]model.WrongAnswer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.WrongAnswer
	for _, w := range r.m.wrongAnswers {
		if w.StudentID != f.StudentID {
			continue
		}
		q, ok := r.m.questions[w.QuestionID]
		if !ok {
			continue
		}
		if f.Language != "" && string(q.Language) != f.Language {
			continue
		}
		if f.Type != "" && string(q.Type) != f.Type {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, w.Status) {
			continue
		}
		w.Question = &q
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastWrongAt.After(out[j].LastWrongAt) })
	return out, nil
}

func (r wrongAnswerRepo) CountByStatus(_ context.Context, studentID uint) (map[model.MasteryStatus]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := map[model.MasteryStatus]int64{}
	for _, s := range model.MasteryStatuses {
		counts[s] = 0
	}
	for _, w := range r.m.wrongAnswers {
		if w.StudentID == studentID && w.Status.Valid() {
			counts[w.Status]++
		}
	}
	return counts, nil
}

type statisticsRepo struct{ m *Memory }

// joined yields each answer of the student together with its question.
func (r statisticsRepo) joined(studentID uint, fn func(a model.AnswerRecord, q model.Question)) {
	for _, a := range r.m.answers {
		rec, ok := r.m.records[a.PracticeRecordID]
		if !ok || rec.StudentID != studentID {
			continue
		}
		fn(a, r.m.questions[a.QuestionID])
	}
}

func (r statisticsRepo) AnswerTotals(_ context.Context, studentID uint) (repository.GroupStat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var stat repository.GroupStat
	r.joined(studentID, func(a model.AnswerRecord, _ model.Question) {
		stat.Total++
		if a.IsCorrect {
			stat.Correct++
		}
	})
	return stat, nil
}

func (r statisticsRepo) ByQuestionColumn(_ context.Context, studentID uint, column string) ([]repository.GroupStat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	byKey := map[string]*repository.GroupStat{}
	var keys []string
	r.joined(studentID, func(a model.AnswerRecord, q model.Question) {
		key := string(q.Type)
		if column == "language" {
			key = string(q.Language)
		}
		if key == "" {
			return
		}
		s, ok := byKey[key]
		if !ok {
			s = &repository.GroupStat{Key: key}
			byKey[key] = s
			keys = append(keys, key)
		}
		s.Total++
		if a.IsCorrect {
			s.Correct++
		}
	})
	out := make([]repository.GroupStat, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out, nil
}

func (r statisticsRepo) ByChapter(_ context.Context, studentID uint) ([]repository.ChapterStat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	type key struct {
		lang string
		id   uint
	}
	byKey := map[key]*repository.ChapterStat{}
	var keys []key
	r.joined(studentID, func(a model.AnswerRecord, q model.Question) {
		if q.ChapterID == nil || q.Language == "" {
			return
		}
		c, ok := r.m.chapters[*q.ChapterID]
		if !ok {
			return
		}
		k := key{string(q.Language), c.ID}
		s, ok := byKey[k]
		if !ok {
			s = &repository.ChapterStat{Language: k.lang, ChapterID: c.ID, ChapterName: c.Name}
			byKey[k] = s
			keys = append(keys, k)
		}
		s.Total++
		if a.IsCorrect {
			s.Correct++
		}
	})
	out := make([]repository.ChapterStat, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func containsStatus(list []model.MasteryStatus, v model.MasteryStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
