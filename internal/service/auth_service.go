package service

import (
	"code_practice_backend/internal/config"
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string    `json:"token"`
	Role  util.Role `json:"role"`
	User  any       `json:"user"`
}

type AuthService struct {
	Store repository.Store
	Cfg   *config.JWTConfig
	now   func() time.Time
}

func NewAuthService(store repository.Store, cfg *config.JWTConfig) *AuthService {
	return &AuthService{Store: store, Cfg: cfg, now: time.Now}
}

// HashPassword is used when seeding accounts.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *AuthService) StudentLogin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	student, err := s.Store.Students().FindByStudentID(ctx, req.Account)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("查询学生失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if student.Status != "" && student.Status != model.AccountActive {
		return nil, util.ErrAccountDisabled
	}

	token, err := util.GenerateJWT(student.ID, util.RoleStudent, student.StudentID, s.Cfg.Secret, s.Cfg.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}

	now := s.now()
	if err := s.Store.Students().UpdateLastLogin(ctx, student.ID, now); err != nil {
		return nil, fmt.Errorf("更新登录时间失败: %w", err)
	}
	student.LastLogin = &now

	return &LoginResult{Token: token, Role: util.RoleStudent, User: student}, nil
}

// TeacherLogin accepts either the teacher id or the display name as account.
func (s *AuthService) TeacherLogin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	teacher, err := s.Store.Teachers().FindByAccount(ctx, req.Account)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("查询教师失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if teacher.Status != "" && teacher.Status != model.AccountActive {
		return nil, util.ErrAccountDisabled
	}

	role := util.RoleTeacher
	if teacher.Role == model.RoleAdmin {
		role = util.RoleAdmin
	}

	token, err := util.GenerateJWT(teacher.ID, role, teacher.TeacherID, s.Cfg.Secret, s.Cfg.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}

	now := s.now()
	if err := s.Store.Teachers().UpdateLastLogin(ctx, teacher.ID, now); err != nil {
		return nil, fmt.Errorf("更新登录时间失败: %w", err)
	}
	teacher.LastLogin = &now

	return &LoginResult{Token: token, Role: role, User: teacher}, nil
}

// CurrentStudent resolves the student behind a token.
func (s *AuthService) CurrentStudent(ctx context.Context, claims *util.Claims) (*model.Student, error) {
	if claims == nil || claims.Role != util.RoleStudent {
		return nil, util.ErrPermissionDenied
	}
	student, err := s.Store.Students().FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询学生失败: %w", err)
	}
	return student, nil
}
