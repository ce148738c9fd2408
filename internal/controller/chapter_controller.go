package controller

import (
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChapterController struct {
	ChapterService *service.ChapterService
}

func NewChapterController(chapterService *service.ChapterService) *ChapterController {
	return &ChapterController{ChapterService: chapterService}
}

// List godoc
// @Summary 章节列表
// @Tags 章节
// @Produce json
// @Security ApiKeyAuth
// @Param language query string false "语言"
// @Success 200 {object} util.Response{data=[]model.Chapter}
// @Router /api/chapters [get]
func (c *ChapterController) List(ctx *gin.Context) {
	chapters, err := c.ChapterService.List(ctx.Request.Context(), queryFilter(ctx, "language"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}

// Create godoc
// @Summary 新增章节
// @Description 未指定排序时追加到该语言最后
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ChapterInput true "章节"
// @Success 201 {object} util.Response{data=model.Chapter}
// @Failure 400 {object} util.Response "缺少必要参数"
// @Router /api/chapters [post]
func (c *ChapterController) Create(ctx *gin.Context) {
	var in service.ChapterInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ch, err := c.ChapterService.Create(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, ch)
}

// Update godoc
// @Summary 更新章节
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Param body body service.ChapterPatch true "需要更新的字段"
// @Success 200 {object} util.Response{data=model.Chapter}
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/chapters/{id} [put]
func (c *ChapterController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	var patch service.ChapterPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ch, err := c.ChapterService.Update(ctx.Request.Context(), id, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, ch)
}

// Delete godoc
// @Summary 删除章节
// @Description 章节下仍有题目时拒绝删除
// @Tags 章节
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "章节下仍有题目"
// @Router /api/chapters/{id} [delete]
func (c *ChapterController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	if err := c.ChapterService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
