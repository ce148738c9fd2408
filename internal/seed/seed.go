// Package seed loads initial accounts, chapters and questions from a YAML
// file. Existing accounts and chapters are left untouched so the seed can be
// re-run safely.
package seed

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Account struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Password   string `yaml:"password"`
	ClassName  string `yaml:"class_name"`
	Major      string `yaml:"major"`
	Department string `yaml:"department"`
	Role       string `yaml:"role"`
}

type Chapter struct {
	Language    string     `yaml:"language"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	Type         string   `yaml:"type"`
	Difficulty   string   `yaml:"difficulty"`
	Content      string   `yaml:"content"`
	Options      []string `yaml:"options"`
	CodeTemplate string   `yaml:"code_template"`
	Answer       string   `yaml:"answer"`
	Analysis     string   `yaml:"analysis"`
	Score        float64  `yaml:"score"`
}

type Data struct {
	Teachers []Account `yaml:"teachers"`
	Students []Account `yaml:"students"`
	Chapters []Chapter `yaml:"chapters"`
}

type Report struct {
	Teachers  int
	Students  int
	Chapters  int
	Questions int
	Skipped   int
}

func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	return &d, nil
}

// Apply inserts everything in d that is not already present.
func Apply(ctx context.Context, store repository.Store, d *Data) (*Report, error) {
	rep := &Report{}

	for _, a := range d.Teachers {
		_, err := store.Teachers().FindByAccount(ctx, a.ID)
		if err == nil {
			rep.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return rep, err
		}
		hash, err := service.HashPassword(a.Password)
		if err != nil {
			return rep, err
		}
		role := model.RoleTeacher
		if a.Role == string(model.RoleAdmin) {
			role = model.RoleAdmin
		}
		t := &model.Teacher{TeacherID: a.ID, Name: a.Name, Password: hash, Department: a.Department, Role: role, Status: model.AccountActive}
		if err := store.Teachers().Create(ctx, t); err != nil {
			return rep, fmt.Errorf("创建教师 %s 失败: %w", a.ID, err)
		}
		rep.Teachers++
	}

	for _, a := range d.Students {
		_, err := store.Students().FindByStudentID(ctx, a.ID)
		if err == nil {
			rep.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return rep, err
		}
		hash, err := service.HashPassword(a.Password)
		if err != nil {
			return rep, err
		}
		s := &model.Student{StudentID: a.ID, Name: a.Name, Password: hash, ClassName: a.ClassName, Major: a.Major, Status: model.AccountActive}
		if err := store.Students().Create(ctx, s); err != nil {
			return rep, fmt.Errorf("创建学生 %s 失败: %w", a.ID, err)
		}
		rep.Students++
	}

	chapters := service.NewChapterService(store)
	questions := service.NewQuestionService(store)
	for _, c := range d.Chapters {
		existing, err := chapters.List(ctx, c.Language)
		if err != nil {
			return rep, err
		}
		if hasChapter(existing, c.Name) {
			rep.Skipped++
			continue
		}

		ch, err := chapters.Create(ctx, service.ChapterInput{Language: c.Language, Name: c.Name, Description: c.Description})
		if err != nil {
			return rep, fmt.Errorf("创建章节 %s 失败: %w", c.Name, err)
		}
		rep.Chapters++

		for _, q := range c.Questions {
			in, err := q.input(c.Language, ch.ID)
			if err != nil {
				return rep, err
			}
			if _, err := questions.Create(ctx, in); err != nil {
				return rep, fmt.Errorf("创建题目失败 (%s): %w", c.Name, err)
			}
			rep.Questions++
		}
	}

	return rep, nil
}

func hasChapter(list []model.Chapter, name string) bool {
	for _, c := range list {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (q Question) input(language string, chapterID uint) (service.QuestionInput, error) {
	in := service.QuestionInput{
		Language:     language,
		Type:         q.Type,
		ChapterID:    &chapterID,
		Difficulty:   q.Difficulty,
		Content:      q.Content,
		CodeTemplate: q.CodeTemplate,
		Answer:       q.Answer,
		Analysis:     q.Analysis,
		Score:        q.Score,
	}
	if len(q.Options) > 0 {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return in, err
		}
		in.Options = opts
	}
	return in, nil
}
