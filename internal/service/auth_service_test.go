package service

import (
	"context"
	"testing"
	"time"

	"code_practice_backend/internal/config"
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository/repotest"
	"code_practice_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-length-000000"

func newAuthFixture(t *testing.T) (*repotest.Memory, *AuthService) {
	t.Helper()
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	mem := repotest.NewMemory()
	mem.AddStudent(model.Student{StudentID: "S001", Name: "张三", Password: hash, Status: model.AccountActive})
	mem.AddStudent(model.Student{StudentID: "S002", Name: "李四", Password: hash, Status: model.AccountLocked})
	mem.AddTeacher(model.Teacher{TeacherID: "T001", Name: "王老师", Password: hash, Role: model.RoleTeacher, Status: model.AccountActive})
	mem.AddTeacher(model.Teacher{TeacherID: "admin", Name: "管理员", Password: hash, Role: model.RoleAdmin, Status: model.AccountActive})

	return mem, NewAuthService(mem, &config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour})
}

func TestStudentLogin(t *testing.T) {
	mem, svc := newAuthFixture(t)

	res, err := svc.StudentLogin(context.Background(), LoginRequest{Account: "S001", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, util.RoleStudent, res.Role)

	claims, err := util.ParseJWT(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "S001", claims.Account)
	assert.Equal(t, util.RoleStudent, claims.Role)

	stored, ok := mem.Student(claims.UserID)
	require.True(t, ok)
	assert.NotNil(t, stored.LastLogin)

	student, err := svc.CurrentStudent(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "张三", student.Name)
}

func TestStudentLoginFailures(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.StudentLogin(context.Background(), LoginRequest{Account: "S001", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.StudentLogin(context.Background(), LoginRequest{Account: "S999", Password: "123456"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.StudentLogin(context.Background(), LoginRequest{Account: "S002", Password: "123456"})
	assert.ErrorIs(t, err, util.ErrAccountDisabled)
}

func TestTeacherLoginRoles(t *testing.T) {
	_, svc := newAuthFixture(t)

	res, err := svc.TeacherLogin(context.Background(), LoginRequest{Account: "王老师", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, util.RoleTeacher, res.Role)

	res, err = svc.TeacherLogin(context.Background(), LoginRequest{Account: "admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, util.RoleAdmin, res.Role)

	_, err = svc.CurrentStudent(context.Background(), &util.Claims{UserID: 1, Role: util.RoleTeacher})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
