package controller

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MistakeController struct {
	MistakeService *service.MistakeService
}

func NewMistakeController(mistakeService *service.MistakeService) *MistakeController {
	return &MistakeController{MistakeService: mistakeService}
}

// UpdateMistakeRequest 手动更新错题状态
type UpdateMistakeRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary 获取错题本
// @Description 按最近答错时间倒序返回错题，并附带各状态数量
// @Tags 错题本
// @Produce json
// @Security ApiKeyAuth
// @Param student_id query string false "学号，教师查询时必填"
// @Param language query string false "语言"
// @Param type query string false "题型"
// @Param status query string false "状态，可逗号分隔 pending,reviewing,mastered"
// @Success 200 {object} util.Response{data=service.MistakeBook}
// @Failure 400 {object} util.Response "缺少学生ID"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/mistakes [get]
func (c *MistakeController) List(ctx *gin.Context) {
	studentID, ok := studentScope(ctx, ctx.Query("student_id"), false)
	if !ok {
		return
	}

	book, err := c.MistakeService.List(ctx.Request.Context(), service.MistakeQuery{
		StudentID: studentID,
		Language:  ctx.Query("language"),
		Type:      ctx.Query("type"),
		Status:    ctx.Query("status"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, book)
}

// Update godoc
// @Summary 更新错题状态
// @Tags 错题本
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpdateMistakeRequest true "错题ID与目标状态"
// @Success 200 {object} util.Response{data=model.WrongAnswer}
// @Failure 400 {object} util.Response "无效的状态"
// @Failure 404 {object} util.Response "错题不存在"
// @Router /api/mistakes [put]
func (c *MistakeController) Update(ctx *gin.Context) {
	var req UpdateMistakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.ownsMistake(ctx, req.ID) {
		return
	}

	wa, err := c.MistakeService.UpdateStatus(ctx.Request.Context(), req.ID, model.MasteryStatus(req.Status))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, wa)
}

// Delete godoc
// @Summary 删除错题
// @Tags 错题本
// @Produce json
// @Security ApiKeyAuth
// @Param id query int true "错题ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "错题不存在"
// @Router /api/mistakes [delete]
func (c *MistakeController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Query("id"))
	if !ok {
		return
	}
	if !c.ownsMistake(ctx, id) {
		return
	}

	if err := c.MistakeService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// ownsMistake lets teachers through and pins students to their own entries.
func (c *MistakeController) ownsMistake(ctx *gin.Context, id uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	if claims.Role != util.RoleStudent {
		return true
	}

	owner, err := c.MistakeService.Owner(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return false
	}
	if owner != claims.Account {
		util.Forbidden(ctx)
		return false
	}
	return true
}
