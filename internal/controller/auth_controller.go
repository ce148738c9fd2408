package controller

import (
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// StudentLoginRequest 学生登录
// swagger:model StudentLoginRequest
type StudentLoginRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// TeacherLoginRequest 教师登录，username 与 teacher_id 二选一
// swagger:model TeacherLoginRequest
type TeacherLoginRequest struct {
	Username  string `json:"username"`
	TeacherID string `json:"teacher_id"`
	Password  string `json:"password" binding:"required"`
}

// StudentLogin godoc
// @Summary 学生登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body StudentLoginRequest true "学号与密码"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "账号或密码错误"
// @Failure 403 {object} util.Response "账号已被禁用"
// @Router /api/auth/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "请输入学号和密码")
		return
	}

	res, err := c.AuthService.StudentLogin(ctx.Request.Context(), service.LoginRequest{Account: req.StudentID, Password: req.Password})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// TeacherLogin godoc
// @Summary 教师登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body TeacherLoginRequest true "用户名或工号与密码"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "账号或密码错误"
// @Router /api/auth/admin/login [post]
func (c *AuthController) TeacherLogin(ctx *gin.Context) {
	var req TeacherLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "请输入用户名和密码")
		return
	}
	account := req.Username
	if account == "" {
		account = req.TeacherID
	}
	if account == "" {
		util.BadRequest(ctx, "请输入用户名和密码")
		return
	}

	res, err := c.AuthService.TeacherLogin(ctx.Request.Context(), service.LoginRequest{Account: account, Password: req.Password})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Me godoc
// @Summary 当前登录信息
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=util.Claims}
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if claims.Role == util.RoleStudent {
		student, err := c.AuthService.CurrentStudent(ctx.Request.Context(), claims)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"role": claims.Role, "user": student})
		return
	}
	util.Success(ctx, gin.H{"role": claims.Role, "account": claims.Account, "id": claims.UserID})
}
